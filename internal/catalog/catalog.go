package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Disposition is the rewrite category assigned to a symbol.
type Disposition string

const (
	Replace Disposition = "replace"
	Remove  Disposition = "remove"
	Keep    Disposition = "keep"
)

// Catalog is the pattern catalog: which symbols get which treatment, plus
// the literal names the rewrite passes key on. It is immutable after Load.
type Catalog struct {
	Replace []string `toml:"replace"`
	Remove  []string `toml:"remove"`
	Keep    []string `toml:"keep"`

	// Accessor is the static member name whose references are rewritten,
	// e.g. "Instance". Factory is the call that replaces them.
	Accessor string `toml:"accessor"`
	Factory  string `toml:"factory"`

	Logs    Logs    `toml:"logs"`
	Exclude Exclude `toml:"exclude"`
}

// Logs configures the call wrapper and import injector.
type Logs struct {
	Origin string   `toml:"origin"`
	Target string   `toml:"target"`
	Wrap   []string `toml:"wrap"`
	// KeepCalls are log names that must never be rewritten.
	KeepCalls []string `toml:"keep"`
	Import    string   `toml:"import"`
	// SkipPathMarkers disqualify a file from the logs pass when they appear
	// anywhere in its path.
	SkipPathMarkers []string `toml:"skip_path_markers"`
}

// Exclude lists walker exclusion glob patterns.
type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Default returns the catalog for the neural-break singleton migration.
func Default() *Catalog {
	cat := &Catalog{
		Replace: []string{
			"AchievementSystem", "ArenaManager", "PlayerLevelSystem",
			"WeaponUpgradeManager", "GamepadRumble", "MusicManager",
			"UIFeedbacks", "ScreenFlash", "VFXManager", "EnemyDeathVFX",
			"StarfieldController", "EnvironmentParticles", "FeedbackManager",
			"PostProcessManager", "HighScoreManager", "ShipCustomization",
			"WaveAnnouncement", "ControlsOverlay", "DamageNumberPopup",
			"Minimap", "FeedbackSetup", "UIManager",
		},
		Remove: []string{
			"AchievementSystem", "ArenaManager", "GamepadRumble",
			"MusicManager", "EnvironmentParticles", "FeedbackManager",
			"PostProcessManager", "ShipCustomization", "DamageNumberPopup",
			"Minimap", "StarfieldController", "UIManager",
		},
		Keep: []string{
			"GameManager", "LevelManager", "InputManager", "AudioManager",
			"SaveSystem", "AccessibilityManager", "EnemyProjectilePool",
		},
	}
	applyDefaults(cat)
	return cat
}

// Load reads a catalog from a TOML file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fromTOML(string(data))
}

func fromTOML(data string) (*Catalog, error) {
	var cat Catalog
	if _, err := toml.Decode(data, &cat); err != nil {
		return nil, err
	}
	applyDefaults(&cat)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// applyDefaults fills the literal names a catalog file may omit. The symbol
// lists themselves have no defaults; an empty list disables its pass.
func applyDefaults(cat *Catalog) {
	if cat.Accessor == "" {
		cat.Accessor = "Instance"
	}
	if cat.Factory == "" {
		cat.Factory = "FindObjectOfType"
	}
	if cat.Logs.Origin == "" {
		cat.Logs.Origin = "Debug"
	}
	if cat.Logs.Target == "" {
		cat.Logs.Target = "LogHelper"
	}
	if len(cat.Logs.Wrap) == 0 {
		cat.Logs.Wrap = []string{"Log", "LogWarning"}
	}
	if len(cat.Logs.KeepCalls) == 0 {
		cat.Logs.KeepCalls = []string{"LogError"}
	}
	if cat.Logs.Import == "" {
		cat.Logs.Import = "using NeuralBreak.Utils;"
	}
	if len(cat.Logs.SkipPathMarkers) == 0 {
		cat.Logs.SkipPathMarkers = []string{"Editor", "Debug"}
	}
}

// Validate rejects a catalog that lists a keep symbol in any other list.
// Replace and remove may share symbols: the two passes edit disjoint sites
// (references elsewhere vs. the class's own file), so a retired singleton
// normally appears in both. A keep symbol in either list is a contradiction
// and a configuration error, surfaced before any file is touched.
func (c *Catalog) Validate() error {
	seen := make(map[string]Disposition)
	record := func(names []string, d Disposition) error {
		for _, name := range names {
			if prev, ok := seen[name]; ok && (prev == Keep || d == Keep) {
				return fmt.Errorf("catalog conflict: symbol %q listed as both %s and %s", name, prev, d)
			}
			if _, ok := seen[name]; !ok {
				seen[name] = d
			}
		}
		return nil
	}
	if err := record(c.Replace, Replace); err != nil {
		return err
	}
	if err := record(c.Remove, Remove); err != nil {
		return err
	}
	if err := record(c.Keep, Keep); err != nil {
		return err
	}

	for _, name := range c.Logs.Wrap {
		for _, kept := range c.Logs.KeepCalls {
			if name == kept {
				return fmt.Errorf("catalog conflict: log call %q listed as both wrapped and kept", name)
			}
		}
	}
	return nil
}

// RemoveListed reports whether a class's own file is subject to the strip
// pass. The strip rules key on the accessor identifier, so they only run
// inside the files of remove-listed classes.
func (c *Catalog) RemoveListed(name string) bool {
	for _, s := range c.Remove {
		if s == name {
			return true
		}
	}
	return false
}

// DispositionOf reports the disposition recorded for a symbol, if any.
// Remove wins over replace for reporting purposes; the passes themselves
// consult the lists directly.
func (c *Catalog) DispositionOf(name string) (Disposition, bool) {
	for _, s := range c.Remove {
		if s == name {
			return Remove, true
		}
	}
	for _, s := range c.Replace {
		if s == name {
			return Replace, true
		}
	}
	for _, s := range c.Keep {
		if s == name {
			return Keep, true
		}
	}
	return "", false
}
