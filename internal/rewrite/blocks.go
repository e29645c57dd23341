package rewrite

import (
	"regexp"
	"strings"

	"github.com/sokinpui/desingle/internal/catalog"
)

// Rule names reported by the strip pass.
const (
	RuleProperty   = "property"
	RuleGuard      = "guard"
	RuleAssignment = "assignment"
	RuleTeardown   = "teardown"
)

// Strip removes singleton boilerplate from a class body: the static accessor
// property, the Awake guard, bare accessor assignments, and the teardown
// guard. It works on lines, not a syntax tree; spans are bounded by a naive
// brace balance, never by full tokenization.
type Strip struct {
	property    *regexp.Regexp
	assign      *regexp.Regexp
	teardown    *regexp.Regexp
	guardMarker string
}

// NewStrip builds the strip rules for the catalog's accessor name.
func NewStrip(cat *catalog.Catalog) *Strip {
	acc := regexp.QuoteMeta(cat.Accessor)
	return &Strip{
		property:    regexp.MustCompile(`public\s+static\s+\w+\s+` + acc + `\s*\{`),
		assign:      regexp.MustCompile(`^\s*` + acc + `\s*=\s*(this|null);\r?$`),
		teardown:    regexp.MustCompile(`if\s*\(\s*` + acc + `\s*==\s*this\s*\)`),
		guardMarker: cat.Accessor + " != null",
	}
}

// Apply returns the content with all matched blocks removed and the names of
// the rules that fired. The scan is strictly linear: once a rule opens a
// span, no rule is tested against lines inside it. A span whose closing
// line cannot be found before end-of-file is abandoned and its lines kept,
// so the output is never shorter than the matched construct's removal alone
// accounts for.
func (s *Strip) Apply(content string) (string, []string) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var fired []string
	seen := make(map[string]bool)

	record := func(rule string) {
		if !seen[rule] {
			seen[rule] = true
			fired = append(fired, rule)
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		switch {
		case s.property.MatchString(line):
			end, ok := blockEnd(lines, i)
			if !ok {
				out = append(out, line)
				i++
				continue
			}
			record(RuleProperty)
			i = end + 1

		case strings.Contains(line, s.guardMarker):
			end, ok := blockEnd(lines, i)
			if !ok {
				out = append(out, line)
				i++
				continue
			}
			record(RuleGuard)
			// Absorb the statement directly after the closing brace
			// (typically a lone "return;").
			i = end + 2

		case s.assign.MatchString(line):
			record(RuleAssignment)
			i++

		case s.teardown.MatchString(line):
			end, ok := blockEnd(lines, i)
			if !ok {
				out = append(out, line)
				i++
				continue
			}
			record(RuleTeardown)
			i = end + 1

		default:
			out = append(out, line)
			i++
		}
	}

	return strings.Join(out, "\n"), fired
}

// blockEnd finds the index of the line on which the block opened at start
// closes: the first line at or after start where a positive brace balance
// returns to zero. The opening brace must appear on the matched line or the
// one after it; otherwise the construct is treated as unbraced and the
// match is abandoned rather than scanning into unrelated code.
func blockEnd(lines []string, start int) (int, bool) {
	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{")
		if depth > 0 {
			opened = true
		}
		depth -= strings.Count(lines[i], "}")
		if !opened && i > start {
			return 0, false
		}
		if opened && depth <= 0 {
			return i, true
		}
	}
	return 0, false
}
