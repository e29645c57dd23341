// Package diff renders unified diffs for dry-run reporting.
package diff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified diff between the old and new content of one
// file, using git-style a/ and b/ prefixes.
func Unified(path, oldContent, newContent string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
