// Package walk owns all corpus I/O: enumerating candidate files and reading
// and writing their bytes. The rewrite passes never touch the filesystem.
package walk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// Walker enumerates source files under a set of roots, filtered by
// extension and by exclusion glob patterns.
type Walker struct {
	exts      []string
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

// New compiles the exclusion patterns once for the run.
func New(exts, excludeDirs, excludeFiles []string) (*Walker, error) {
	w := &Walker{exts: exts}

	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		w.dirGlobs = append(w.dirGlobs, g)
	}
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		w.fileGlobs = append(w.fileGlobs, g)
	}
	return w, nil
}

// Files returns the matching files under the roots, sorted, each path
// appearing once. Enumeration order is deterministic so reruns report in
// the same order.
func (w *Walker) Files(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if w.excludedDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !w.hasExt(path) || w.excludedFile(d.Name()) {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if _, ok := seen[abs]; !ok {
				seen[abs] = struct{}{}
				files = append(files, abs)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (w *Walker) hasExt(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, allowed := range w.exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (w *Walker) excludedDir(name string) bool {
	for _, g := range w.dirGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (w *Walker) excludedFile(name string) bool {
	for _, g := range w.fileGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// ReadFile reads a file as UTF-8 text.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFileIfChanged writes the new content in place only when it differs
// from the old, preserving the file's mode. Returns whether it wrote.
func WriteFileIfChanged(path, oldContent, newContent string) (bool, error) {
	if newContent == oldContent {
		return false, nil
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(newContent), mode); err != nil {
		return false, err
	}
	return true, nil
}
