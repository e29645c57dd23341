package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/desingle/cli"
	"github.com/sokinpui/desingle/desingle"
	"github.com/sokinpui/desingle/internal/tui"
	"github.com/sokinpui/desingle/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := desingle.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Modes that print to stdout should not run the TUI.
	if cfg.NoTUI || cfg.DryRun {
		runPlain(app, cfg)
		return
	}

	model := tui.New(app)
	p := tea.NewProgram(model)
	model.SetProgram(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func runPlain(app *desingle.App, cfg *cli.Config) {
	summary, err := app.Execute()
	if err != nil {
		if e, ok := err.(*desingle.DetailedError); ok {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		ui.Error("Error: %v", err)
		os.Exit(1)
	}

	if cfg.DryRun && summary.Diff != "" {
		fmt.Print(summary.Diff)
	}

	switch {
	case cfg.Undo:
		ui.PrintHistorySummary("Undo", changedPaths(summary), summary.Failed)
	case cfg.Redo:
		ui.PrintHistorySummary("Redo", changedPaths(summary), summary.Failed)
	default:
		ui.PrintRunSummary(summary)
	}
}

func changedPaths(summary desingle.Summary) []string {
	paths := make([]string, 0, len(summary.Changed))
	for _, r := range summary.Changed {
		paths = append(paths, r.Path)
	}
	return paths
}
