package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/rule"
	"github.com/oxhq/morfx/internal/scan"
)

// newRunCmd returns the `morfx run` subcommand: scan a tree and apply
// every finding's fix to disk, unless --dry-run prints the unified diff
// instead of writing it (the default, so `run` is safe without a flag).
func newRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Scan a directory tree and apply rule fixes",
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

			writer := scan.NewWriter(scan.DefaultWriterConfig())
			applied := 0
			for f := range findings {
				if f.FixApplied == "" {
					printFinding(os.Stdout, f)
					continue
				}

				edit := core.Edit{
					Position:      f.Start,
					DeletedLength: f.End - f.Start,
					InsertedText:  []byte(f.FixApplied),
				}

				if dryRun {
					src, readErr := os.ReadFile(f.Path)
					if readErr != nil {
						return readErr
					}
					if diff := rule.RenderUnifiedDiff(f.Path, src, edit); diff != "" {
						fmt.Fprint(os.Stdout, diff)
					}
					continue
				}

				err := writer.Apply(f.Path, func(src []byte) []byte {
					return edit.Apply(src)
				})
				if err != nil {
					return fmt.Errorf("applying fix to %s: %w", f.Path, err)
				}
				applied++
				fmt.Fprintf(os.Stdout, "%s %s (%s)\n", green("fixed"), f.Path, bold(f.RuleID))
			}

			if !dryRun {
				fmt.Fprintf(os.Stdout, "%s applied %d fix(es)\n", green("✓"), applied)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "print unified diffs instead of writing fixes to disk")
	return cmd
}
