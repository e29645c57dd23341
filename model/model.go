package model

// Pass identifies one of the batch rewrite passes.
type Pass string

const (
	// PassStrip removes singleton boilerplate blocks from remove-list classes.
	PassStrip Pass = "strip"
	// PassRefs rewrites accessor references for replace-list symbols.
	PassRefs Pass = "refs"
	// PassLogs wraps log calls and injects the helper import.
	PassLogs Pass = "logs"
)

// FileResult records what the selected passes did to a single file.
type FileResult struct {
	Path    string
	Matches []string // symbols or rule names that fired, in pass order
	Changed bool
}

// Summary holds the results of a run for display.
type Summary struct {
	Changed []FileResult
	Skipped []string
	Failed  []string
	Matches int
	Message string
	Diff    string // accumulated unified diff, dry-run only
}
