package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/desingle/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

// --- Summaries ---

// PrintRunSummary reports each changed file with the symbols or rules that
// matched, then the aggregate counts.
func PrintRunSummary(s model.Summary) {
	Header("\n--- Run Summary ---")

	if s.Message != "" {
		Info(s.Message)
	}

	for _, r := range s.Changed {
		Success("Fixed %s: %s", r.Path, strings.Join(r.Matches, ", "))
	}
	if len(s.Failed) > 0 {
		Error("Failed to process %d file(s):", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Fprintf(os.Stderr, "  - %s\n", f)
		}
	}

	Info("Total: %d match(es) in %d file(s), %d skipped", s.Matches, len(s.Changed), len(s.Skipped))
}

// PrintHistorySummary reports an undo or redo.
func PrintHistorySummary(verb string, restored, failed []string) {
	Header("\n--- %s Summary ---", verb)
	if len(restored) == 0 && len(failed) == 0 {
		Info("Nothing to %s.", strings.ToLower(verb))
		return
	}
	if len(restored) > 0 {
		Success("Restored %d file(s):", len(restored))
		for _, f := range restored {
			fmt.Fprintf(os.Stderr, "  - %s\n", f)
		}
	}
	if len(failed) > 0 {
		Error("Failed to restore %d file(s) (changed on disk since the run):", len(failed))
		for _, f := range failed {
			fmt.Fprintf(os.Stderr, "  - %s\n", f)
		}
	}
}
