package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/sokinpui/desingle/model"
)

// Config holds all the command-line flag values.
type Config struct {
	ConfigPath string
	PlanPath   string
	Roots      []string
	Extensions []string

	Refs  bool
	Strip bool
	Logs  bool

	DryRun bool
	Copy   bool

	Undo bool
	Redo bool

	NoTUI bool
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	// Define flags
	pflag.StringVarP(&cfg.ConfigPath, "config", "c", "", "Path to a TOML pattern catalog (default: built-in catalog).")
	pflag.StringVar(&cfg.PlanPath, "plan", "", "Path to a markdown migration plan carrying the catalog in a fenced toml block.")
	pflag.StringSliceVarP(&cfg.Roots, "root", "r", []string{}, "Root directory to scan (default: current directory). Repeatable.")
	pflag.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{}, "Source file extension to process (default: cs).")

	pflag.BoolVar(&cfg.Refs, "refs", false, "Run only the reference rewrite pass.")
	pflag.BoolVar(&cfg.Strip, "strip", false, "Run only the singleton boilerplate removal pass.")
	pflag.BoolVar(&cfg.Logs, "logs", false, "Run only the log wrapper and import injection pass.")

	pflag.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print unified diffs instead of writing files.")
	pflag.BoolVar(&cfg.Copy, "copy", false, "Copy the dry-run diff to the clipboard (implies --dry-run).")
	pflag.BoolVar(&cfg.NoTUI, "no-tui", false, "Disable the spinner UI; print plain summaries to stderr.")

	// Mutually exclusive history group
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last writing run.")
	pflag.BoolVarP(&cfg.Redo, "redo", "R", false, "Redo the last undone run.")

	pflag.Usage = func() {
		fmt.Println("Usage: desingle [flags]")
		fmt.Println("\nBatch-rewrite a Unity C# tree: retire singleton accessors, strip their")
		fmt.Println("boilerplate, and reroute Debug log calls through the log helper.")
		fmt.Println("\nExample: desingle -r Assets/_Project/Scripts --dry-run")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	// Validate mutually exclusive flags
	if cfg.Undo && cfg.Redo {
		return nil, fmt.Errorf("error: --undo and --redo are mutually exclusive")
	}
	if cfg.ConfigPath != "" && cfg.PlanPath != "" {
		return nil, fmt.Errorf("error: --config and --plan are mutually exclusive")
	}
	if cfg.Copy {
		cfg.DryRun = true
	}

	normalize(cfg)
	return cfg, nil
}

func normalize(cfg *Config) {
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".cs"}
	}
	for i, ext := range cfg.Extensions {
		if len(ext) > 0 && ext[0] != '.' {
			cfg.Extensions[i] = "." + ext
		}
	}
}

// Passes returns the selected passes in execution order. With no pass flag
// set, all passes run: strip before refs, logs last.
func (c *Config) Passes() []model.Pass {
	if !c.Refs && !c.Strip && !c.Logs {
		return []model.Pass{model.PassStrip, model.PassRefs, model.PassLogs}
	}
	var passes []model.Pass
	if c.Strip {
		passes = append(passes, model.PassStrip)
	}
	if c.Refs {
		passes = append(passes, model.PassRefs)
	}
	if c.Logs {
		passes = append(passes, model.PassLogs)
	}
	return passes
}
