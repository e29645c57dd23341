package desingle

import (
	"fmt"

	"github.com/sokinpui/desingle/cli"
	"github.com/sokinpui/desingle/model"
)

// Summary is the library-facing alias for a run summary.
type Summary = model.Summary

// Config for using desingle as a library.
type Config struct {
	// Roots are the directories to scan (default: current directory).
	Roots []string
	// CatalogPath optionally points at a TOML catalog; empty means the
	// built-in one.
	CatalogPath string
	// DryRun computes the summary and diff without writing any file.
	DryRun bool
}

// Run scans the roots and applies all passes. It returns the run summary;
// in dry-run mode Summary.Diff carries the unified diff.
func Run(config Config) (Summary, error) {
	cliCfg := &cli.Config{
		ConfigPath: config.CatalogPath,
		Roots:      config.Roots,
		Extensions: []string{".cs"},
		DryRun:     config.DryRun,
	}
	if len(cliCfg.Roots) == 0 {
		cliCfg.Roots = []string{"."}
	}

	app, err := New(cliCfg)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to initialize desingle: %w", err)
	}
	return app.Execute()
}
