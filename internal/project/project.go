// Package project loads sgconfig.yml, the project-level configuration
// that anchors a run's rule directories, test fixtures, shared utility
// rules, and per-language file globs (§6).
package project

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oxhq/morfx/core"
)

// ConfigFileName is the file this package looks for, walking upward
// from the working directory the way the teacher's own CLI resolves
// its project root.
const ConfigFileName = "sgconfig.yml"

// LanguageInjection describes a sub-language embedded inside another
// (e.g. JavaScript inside an HTML <script> tag), re-parsed and
// re-scanned as its own tree after the host match completes (§12).
type LanguageInjection struct {
	HostLanguage string         `yaml:"hostLanguage"`
	Language     string         `yaml:"language"`
	Rule         map[string]any `yaml:"rule"`
}

// CustomLanguage is one decoded `customLanguages` entry. Load only
// decodes it: nothing in this module reads Config.CustomLanguages,
// checks it against a lang.Registry, or loads LibraryPath.
type CustomLanguage struct {
	LibraryPath string   `yaml:"libraryPath"`
	Extensions  []string `yaml:"extensions"`
}

// Config is the decoded shape of sgconfig.yml.
type Config struct {
	// Root is the directory sgconfig.yml was found in; every relative
	// path in the config is resolved against it.
	Root string `yaml:"-"`

	RuleDirs           []string                   `yaml:"ruleDirs"`
	TestConfigs        []TestConfig               `yaml:"testConfigs"`
	UtilDirs           []string                   `yaml:"utilDirs"`
	CustomLanguages    map[string]CustomLanguage  `yaml:"customLanguages"`
	LanguageGlobs      map[string][]string        `yaml:"languageGlobs"`
	LanguageInjections []LanguageInjection        `yaml:"languageInjections"`
}

// TestConfig is one `sg test` suite: where its fixtures and (optionally)
// its recorded snapshots live.
type TestConfig struct {
	TestDir     string `yaml:"testDir"`
	SnapshotDir string `yaml:"snapshotDir"`
}

// Find walks upward from dir looking for sgconfig.yml, the way the
// teacher's CLI resolves a project root from the current working
// directory.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", core.NewEngineError(core.ErrProjectNotExist, dir, "no sgconfig.yml found in this directory or any parent", nil)
		}
		dir = parent
	}
}

// Load reads and decodes the sgconfig.yml at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewEngineError(core.ErrReadConfiguration, path, "reading sgconfig.yml", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.NewEngineError(core.ErrParseConfiguration, path, "parsing sgconfig.yml", err)
	}
	cfg.Root = filepath.Dir(path)

	for i, d := range cfg.RuleDirs {
		cfg.RuleDirs[i] = resolve(cfg.Root, d)
	}
	for i, d := range cfg.UtilDirs {
		cfg.UtilDirs[i] = resolve(cfg.Root, d)
	}
	for i, tc := range cfg.TestConfigs {
		cfg.TestConfigs[i].TestDir = resolve(cfg.Root, tc.TestDir)
		if tc.SnapshotDir != "" {
			cfg.TestConfigs[i].SnapshotDir = resolve(cfg.Root, tc.SnapshotDir)
		}
	}

	return &cfg, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
