package rule

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/matcher"
)

// Fixture is one parsed rule-test file: a list of code snippets each
// marked `// valid` (must not match) or `// invalid` (must match),
// following ast-grep's `sg test` fixture convention (§12).
type Fixture struct {
	Cases []FixtureCase
}

// FixtureCase is one snippet inside a Fixture.
type FixtureCase struct {
	WantMatch bool
	Source    string
}

// ParseFixture splits a test fixture file into its cases. Each case
// begins with a line that is exactly "// valid" or "// invalid" and
// runs until the next such marker or end of file.
func ParseFixture(data []byte) (*Fixture, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var fixture Fixture
	var current *FixtureCase
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.Source = body.String()
			fixture.Cases = append(fixture.Cases, *current)
		}
		body.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "// valid":
			flush()
			current = &FixtureCase{WantMatch: false}
			continue
		case "// invalid":
			flush()
			current = &FixtureCase{WantMatch: true}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(fixture.Cases) == 0 {
		return nil, core.NewEngineError(core.ErrReadRule, "", "fixture has no `// valid`/`// invalid` cases", nil)
	}
	return &fixture, nil
}

// CaseResult reports the outcome of running one FixtureCase.
type CaseResult struct {
	Case   FixtureCase
	Got    bool
	Passed bool
}

// RunFixture runs every case in fixture against cfg's matcher and
// reports pass/fail per case.
func RunFixture(cfg *core.RuleConfig, adapter lang.Adapter, fixture *Fixture) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(fixture.Cases))
	for _, c := range fixture.Cases {
		tree, err := lang.Parse(context.Background(), adapter, []byte(c.Source))
		if err != nil {
			return nil, err
		}
		got := matcher.FindFirst(tree.Root(), cfg.Matcher) != nil
		tree.Close()
		results = append(results, CaseResult{Case: c, Got: got, Passed: got == c.WantMatch})
	}
	return results, nil
}

// DiffSnapshot compares an actual fixer output against the recorded
// snapshot file under snapshotDir/<ruleID>/<name>.txt, following the
// `sg test` snapshot convention: a missing snapshot is reported
// separately from a mismatched one so a test runner can offer to
// record it (§12).
func DiffSnapshot(snapshotDir, ruleID, name, actual string) (matched bool, recorded bool, err error) {
	path := filepath.Join(snapshotDir, ruleID, name+".txt")
	want, readErr := os.ReadFile(path)
	if os.IsNotExist(readErr) {
		return false, false, nil
	}
	if readErr != nil {
		return false, false, readErr
	}
	return string(want) == actual, true, nil
}

// WriteSnapshot records actual as the new snapshot for ruleID/name.
func WriteSnapshot(snapshotDir, ruleID, name, actual string) error {
	dir := filepath.Join(snapshotDir, ruleID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+".txt"), []byte(actual), 0o644)
}

// Summarize renders a human-readable pass/fail report for one rule's
// fixture run, in the teacher's terse CLI diagnostic style.
func Summarize(ruleID string, results []CaseResult) string {
	var b strings.Builder
	pass, fail := 0, 0
	for _, r := range results {
		if r.Passed {
			pass++
			continue
		}
		fail++
		want := "no match"
		if r.Case.WantMatch {
			want = "a match"
		}
		fmt.Fprintf(&b, "%s: expected %s, got match=%v\n  %s\n", ruleID, want, r.Got, strings.TrimSpace(r.Case.Source))
	}
	fmt.Fprintf(&b, "%s: %d passed, %d failed\n", ruleID, pass, fail)
	return b.String()
}
