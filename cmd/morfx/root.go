// Command morfx is the CLI front end over this module's scan/match/fix
// engine: a small github.com/spf13/cobra command tree mirroring the
// shape of the teacher's own demo/cmd/main.go (rootCmd with run/list
// subcommands, fatih/color diagnostics) generalized from a fixed demo
// scenario runner to a real sgconfig.yml-driven scan/run/test tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/internal/cache"
	"github.com/oxhq/morfx/internal/project"
	"github.com/oxhq/morfx/internal/rule"
)

var (
	projectDir string
	cachePath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "morfx",
		Short: "Structural search, lint and rewrite over source code",
		Long:  "morfx matches and rewrites source code by AST structure, driven by sgconfig.yml rule sets.",
	}

	rootCmd.PersistentFlags().StringVar(&projectDir, "project", ".", "directory to resolve sgconfig.yml from")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "path to a scan cache database (disabled when empty)")

	rootCmd.AddCommand(newScanCmd(), newRunCmd(), newTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(red(err.Error()))
		os.Exit(1)
	}
}

// loadProject resolves sgconfig.yml from projectDir, loads its rule
// dirs into a Collection, and returns the decoded config and that
// Collection.
func loadProject() (*project.Config, *rule.Collection, error) {
	path, err := project.Find(projectDir)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := project.Load(path)
	if err != nil {
		return nil, nil, err
	}

	registry := newRegistry()
	collection, err := loadRules(cfg, registry)
	if err != nil {
		return nil, nil, err
	}
	return cfg, collection, nil
}

// openCache opens the --cache database when cachePath is set, returning
// a nil *cache.Cache (a valid, no-op-attaching value for Scanner.WithCache's
// caller to skip) otherwise.
func openCache() (*cache.Cache, error) {
	if cachePath == "" {
		return nil, nil
	}
	return cache.Open(cachePath)
}
