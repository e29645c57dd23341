package rewrite

import (
	"regexp"
	"strings"

	"github.com/sokinpui/desingle/internal/catalog"
)

// Logs wraps origin-namespace log calls with the target helper and ensures
// the helper's using directive is present. Log names in the catalog's keep
// list (LogError by default) are never touched.
type Logs struct {
	wrap        []wrapRule
	prefixes    []string
	importLine  string
	skipMarkers []string
}

type wrapRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

var (
	usingLineRe     = regexp.MustCompile(`^\s*using\s+[^;]+;\s*$`)
	namespaceLineRe = regexp.MustCompile(`^\s*namespace\s+[\w.]+`)
)

// NewLogs builds the wrapper rules. Each pattern captures the leading
// whitespace run so indentation survives the substitution, and requires the
// opening parenthesis so Log never matches the front of LogWarning.
func NewLogs(cat *catalog.Catalog) *Logs {
	l := &Logs{
		importLine:  cat.Logs.Import,
		skipMarkers: cat.Logs.SkipPathMarkers,
	}
	for _, name := range cat.Logs.Wrap {
		l.wrap = append(l.wrap, wrapRule{
			name:        name,
			pattern:     regexp.MustCompile(`(\s+)` + regexp.QuoteMeta(cat.Logs.Origin) + `\.` + regexp.QuoteMeta(name) + `\(`),
			replacement: "${1}" + cat.Logs.Target + "." + name + "(",
		})
		l.prefixes = append(l.prefixes, cat.Logs.Origin+"."+name+"(")
	}
	return l
}

// Eligible reports whether the combined wrap+import pass may touch a file.
// Editor and debugging scripts keep their original log calls, and files
// with no wrappable call need no import.
func (l *Logs) Eligible(path, content string) bool {
	if l.SkippedPath(path) {
		return false
	}
	for _, prefix := range l.prefixes {
		if strings.Contains(content, prefix) {
			return true
		}
	}
	return false
}

// SkippedPath reports whether the path alone disqualifies the file. Such
// files are counted as skipped even when their content would match.
func (l *Logs) SkippedPath(path string) bool {
	for _, marker := range l.skipMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// Apply wraps the log calls and guarantees the using directive. Idempotent:
// after one pass the origin prefixes are gone and the import is present.
func (l *Logs) Apply(content string) (string, []string) {
	var matched []string
	rewritten := l.ensureImport(content)
	for _, rule := range l.wrap {
		if !rule.pattern.MatchString(rewritten) {
			continue
		}
		rewritten = rule.pattern.ReplaceAllString(rewritten, rule.replacement)
		matched = append(matched, rule.name)
	}
	return rewritten, matched
}

// ensureImport inserts the import line exactly once: after the leading
// contiguous run of using directives, else before the namespace opening
// line with a blank separator, else at the very start of the file.
func (l *Logs) ensureImport(content string) string {
	if strings.Contains(content, l.importLine) {
		return content
	}

	lines := strings.Split(content, "\n")

	usingEnd := -1
	for i, line := range lines {
		if usingLineRe.MatchString(line) {
			usingEnd = i
			continue
		}
		if usingEnd >= 0 {
			break
		}
	}
	if usingEnd >= 0 {
		return insertLines(lines, usingEnd+1, eol(lines[usingEnd], l.importLine))
	}

	for i, line := range lines {
		if namespaceLineRe.MatchString(line) {
			return insertLines(lines, i, eol(line, l.importLine), eol(line, ""))
		}
	}

	return l.importLine + "\n\n" + content
}

func insertLines(lines []string, at int, inserted ...string) string {
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:at]...)
	out = append(out, inserted...)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}

// eol carries the neighboring line's carriage return onto an inserted line
// so CRLF files stay CRLF line-by-line.
func eol(neighbor, line string) string {
	if strings.HasSuffix(neighbor, "\r") {
		return line + "\r"
	}
	return line
}
