// Package desingle orchestrates the batch rewrite passes over a source
// corpus: it owns the walk/read/transform/write loop and the run summary,
// while the transforms themselves live in internal/rewrite.
package desingle

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/desingle/cli"
	"github.com/sokinpui/desingle/internal/catalog"
	"github.com/sokinpui/desingle/internal/diff"
	"github.com/sokinpui/desingle/internal/rewrite"
	"github.com/sokinpui/desingle/internal/state"
	"github.com/sokinpui/desingle/internal/walk"
	"github.com/sokinpui/desingle/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg    *cli.Config
	cat    *catalog.Catalog
	refs   *rewrite.Refs
	strip  *rewrite.Strip
	logs   *rewrite.Logs
	walker *walk.Walker

	stateManager     *state.Manager
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// New creates a new App instance. A catalog conflict surfaces here, before
// any file is touched.
func New(cfg *cli.Config) (*App, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	walker, err := walk.New(cfg.Extensions, cat.Exclude.Dirs, cat.Exclude.Files)
	if err != nil {
		return nil, err
	}

	stateManager, err := state.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}

	return &App{
		cfg:          cfg,
		cat:          cat,
		refs:         rewrite.NewRefs(cat),
		strip:        rewrite.NewStrip(cat),
		logs:         rewrite.NewLogs(cat),
		walker:       walker,
		stateManager: stateManager,
	}, nil
}

func loadCatalog(cfg *cli.Config) (*catalog.Catalog, error) {
	switch {
	case cfg.PlanPath != "":
		return catalog.LoadPlan(cfg.PlanPath)
	case cfg.ConfigPath != "":
		return catalog.Load(cfg.ConfigPath)
	default:
		return catalog.Default(), nil
	}
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Execute runs the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		restored, failed := a.stateManager.Undo()
		return historySummary("Undid last run.", restored, failed), nil
	case a.cfg.Redo:
		restored, failed := a.stateManager.Redo()
		return historySummary("Redid last undone run.", restored, failed), nil
	default:
		return a.run()
	}
}

func historySummary(message string, restored, failed []string) model.Summary {
	s := model.Summary{Failed: failed, Message: message}
	for _, path := range restored {
		s.Changed = append(s.Changed, model.FileResult{Path: path, Changed: true})
	}
	if len(restored) == 0 && len(failed) == 0 {
		s.Message = "No run to restore."
	}
	return s
}

// run processes the whole corpus sequentially. Files are pure inputs: each
// transformation depends only on the file's own content and the catalog, so
// an interrupted run leaves every already-written file in its final state.
func (a *App) run() (model.Summary, error) {
	files, err := a.walker.Files(a.cfg.Roots)
	if err != nil {
		return model.Summary{}, err
	}

	passes := a.cfg.Passes()
	summary := model.Summary{}
	var changes []state.Change
	var diffs strings.Builder

	total := len(files)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	for i, path := range files {
		a.processFile(path, passes, &summary, &changes, &diffs)
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	if a.cfg.DryRun {
		summary.Diff = diffs.String()
		if summary.Diff == "" {
			summary.Message = "Dry run: no file would change."
		} else {
			summary.Message = "Dry run: no files were written."
		}
		if a.cfg.Copy && summary.Diff != "" {
			if err := clipboard.WriteAll(summary.Diff); err != nil {
				return summary, fmt.Errorf("failed to copy diff to clipboard: %w", err)
			}
		}
	} else if len(changes) > 0 {
		if err := a.stateManager.Write(changes); err != nil {
			return summary, fmt.Errorf("failed to record run history: %w", err)
		}
	}

	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// processFile applies the selected passes to one file. I/O errors are
// per-file: they land in the failed list and the run continues.
func (a *App) processFile(path string, passes []model.Pass, summary *model.Summary, changes *[]state.Change, diffs *strings.Builder) {
	content, err := walk.ReadFile(path)
	if err != nil {
		summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %v", path, err))
		return
	}

	newContent := content
	var matches []string

	for _, pass := range passes {
		switch pass {
		case model.PassStrip:
			symbol := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if !a.cat.RemoveListed(symbol) {
				continue
			}
			out, rules := a.strip.Apply(newContent)
			newContent = out
			for _, rule := range rules {
				matches = append(matches, symbol+" "+rule)
			}

		case model.PassRefs:
			out, symbols := a.refs.Apply(newContent)
			newContent = out
			matches = append(matches, symbols...)

		case model.PassLogs:
			if a.logs.SkippedPath(path) {
				summary.Skipped = append(summary.Skipped, path)
				continue
			}
			if !a.logs.Eligible(path, newContent) {
				continue
			}
			out, names := a.logs.Apply(newContent)
			newContent = out
			matches = append(matches, names...)
		}
	}

	if newContent == content {
		return
	}

	if a.cfg.DryRun {
		ud, err := diff.Unified(displayPath(path), content, newContent)
		if err != nil {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %v", path, err))
			return
		}
		diffs.WriteString(ud)
	} else {
		written, err := walk.WriteFileIfChanged(path, content, newContent)
		if err != nil {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %v", path, err))
			return
		}
		if written {
			*changes = append(*changes, state.Change{Path: path, Before: content, After: newContent})
		}
	}

	summary.Changed = append(summary.Changed, model.FileResult{
		Path:    path,
		Matches: matches,
		Changed: true,
	})
	summary.Matches += len(matches)
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	makeRelative := func(p string) string {
		rel, err := filepath.Rel(wd, p)
		if err != nil {
			return p
		}
		return rel
	}

	for i := range summary.Changed {
		summary.Changed[i].Path = makeRelative(summary.Changed[i].Path)
	}
	for i := range summary.Skipped {
		summary.Skipped[i] = makeRelative(summary.Skipped[i])
	}
}

func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}
