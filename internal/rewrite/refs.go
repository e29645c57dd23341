// Package rewrite holds the pure content transforms: each pass maps old file
// content to new content and reports what matched, with no I/O of its own.
package rewrite

import (
	"regexp"

	"github.com/sokinpui/desingle/internal/catalog"
)

// Refs rewrites accessor references for replace-list symbols:
// Sym.Instance becomes FindObjectOfType<Sym>().
type Refs struct {
	rules []refRule
}

type refRule struct {
	symbol      string
	pattern     *regexp.Regexp
	replacement string
}

// NewRefs compiles one word-bounded pattern per replace-list symbol. The
// boundaries on both sides keep a symbol from matching inside a longer
// identifier (Foo must not hit FooBar.Instance or MyFoo.Instance).
func NewRefs(cat *catalog.Catalog) *Refs {
	r := &Refs{}
	for _, sym := range cat.Replace {
		r.rules = append(r.rules, refRule{
			symbol:      sym,
			pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(sym) + `\.` + regexp.QuoteMeta(cat.Accessor) + `\b`),
			replacement: cat.Factory + "<" + sym + ">()",
		})
	}
	return r
}

// Apply returns the rewritten content and the symbols that had at least one
// match. The output form no longer matches the search pattern, so a second
// application is a no-op.
func (r *Refs) Apply(content string) (string, []string) {
	var matched []string
	for _, rule := range r.rules {
		if !rule.pattern.MatchString(content) {
			continue
		}
		content = rule.pattern.ReplaceAllString(content, rule.replacement)
		matched = append(matched, rule.symbol)
	}
	return content, matched
}
