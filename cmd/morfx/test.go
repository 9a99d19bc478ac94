package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/matcher"
	"github.com/oxhq/morfx/internal/rule"
)

// newTestCmd returns the `morfx test` subcommand: run every rule's
// fixture file (testDir/<ruleID>.txt, `// valid`/`// invalid` sections
// per internal/rule's fixture convention) and report pass/fail, the
// CLI-level counterpart to rule.RunFixture.
func newTestCmd() *cobra.Command {
	var updateSnapshots bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run rule fixtures declared in sgconfig.yml's testConfigs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, collection, err := loadProject()
			if err != nil {
				return err
			}
			registry := newRegistry()

			total, failed := 0, 0
			for _, tc := range cfg.TestConfigs {
				for _, rc := range collection.All() {
					fixturePath := filepath.Join(tc.TestDir, rc.ID+".txt")
					data, err := os.ReadFile(fixturePath)
					if os.IsNotExist(err) {
						continue
					}
					if err != nil {
						return err
					}

					fixture, err := rule.ParseFixture(data)
					if err != nil {
						return fmt.Errorf("%s: %w", fixturePath, err)
					}

					adapter, ok := registry.Get(rc.Language)
					if !ok {
						return fmt.Errorf("%s: unknown language %q", fixturePath, rc.Language)
					}

					results, err := rule.RunFixture(rc, adapter, fixture)
					if err != nil {
						return fmt.Errorf("%s: %w", fixturePath, err)
					}

					total++
					casesFailed := 0
					for _, r := range results {
						if !r.Passed {
							casesFailed++
						}
					}
					if casesFailed > 0 {
						failed++
						fmt.Fprint(os.Stdout, rule.Summarize(rc.ID, results))
					} else {
						fmt.Fprintf(os.Stdout, "%s %s\n", green("ok"), rc.ID)
					}

					if tc.SnapshotDir != "" && len(rc.Fixers) > 0 {
						if err := runSnapshots(tc.SnapshotDir, adapter, rc, fixture, updateSnapshots); err != nil {
							return err
						}
					}
				}
			}

			fmt.Fprintf(os.Stdout, "%s %d rule(s) tested, %d failed\n", bold("summary:"), total, failed)
			if failed > 0 {
				return fmt.Errorf("%d rule fixture(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&updateSnapshots, "update-snapshots", false, "record fixer output as the new snapshot instead of comparing")
	return cmd
}

// runSnapshots diffs each invalid fixture case's fixer output against its
// recorded snapshot, following the `sg test --update-snapshots` convention:
// a missing snapshot is reported rather than failed, and snapshots are
// only written when update is set.
func runSnapshots(snapshotDir string, adapter lang.Adapter, rc *core.RuleConfig, fixture *rule.Fixture, update bool) error {
	for i, c := range fixture.Cases {
		if !c.WantMatch {
			continue
		}

		tree, err := lang.Parse(context.Background(), adapter, []byte(c.Source))
		if err != nil {
			return err
		}
		m := matcher.FindFirst(tree.Root(), rc.Matcher)
		tree.Close()
		if m == nil {
			continue
		}

		diff, ok := rule.BuildDiff(rc, m)
		if !ok {
			continue
		}
		actual := string(diff.Primary.Apply([]byte(c.Source)))
		name := fmt.Sprintf("case-%d", i)

		if update {
			if err := rule.WriteSnapshot(snapshotDir, rc.ID, name, actual); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "  %s %s/%s\n", yellow("recorded"), rc.ID, name)
			continue
		}

		matched, recorded, err := rule.DiffSnapshot(snapshotDir, rc.ID, name, actual)
		if err != nil {
			return err
		}
		switch {
		case !recorded:
			fmt.Fprintf(os.Stdout, "  %s %s/%s (run with --update-snapshots to record)\n", yellow("no snapshot"), rc.ID, name)
		case !matched:
			return fmt.Errorf("%s/%s: snapshot mismatch", rc.ID, name)
		}
	}
	return nil
}
