package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/scan"
)

// newScanCmd returns the `morfx scan` subcommand: walk the project (or
// a given path) and report every rule match, exiting non-zero when any
// error-severity finding surfaced, the way a CI lint gate expects.
func newScanCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory tree for rule matches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, collection, err := loadProject()
			if err != nil {
				return err
			}

			root := cfg.Root
			if len(args) > 0 {
				root = args[0]
			}

			c, err := openCache()
			if err != nil {
				return err
			}
			if c != nil {
				defer c.Close()
			}

			registry := newRegistry()
			scanner := scan.NewScanner(registry, collection, zap.NewNop())
			if c != nil {
				scanner.WithCache(c)
			}
			scanner.WithInjections(cfg.LanguageInjections)

			findings, err := scanner.Run(context.Background(), scan.Scope{Path: root})
			if err != nil {
				return err
			}

			var all []scan.Finding
			errorCount := 0
			for f := range findings {
				all = append(all, f)
				if f.Severity == core.SeverityError {
					errorCount++
				}
				if !jsonOut {
					printFinding(os.Stdout, f)
				}
			}

			if jsonOut {
				if err := printFindingsJSON(os.Stdout, all); err != nil {
					return err
				}
			} else {
				printSummary(os.Stdout, len(all))
			}

			if errorCount > 0 {
				return fmt.Errorf("%d error-severity finding(s)", errorCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit findings as a JSON array instead of text")
	return cmd
}
