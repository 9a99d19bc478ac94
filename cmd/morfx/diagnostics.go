package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/scan"
)

// Color helpers in the teacher's own demo/cmd style: one SprintFunc per
// accent color, reused across every print site instead of formatting
// inline.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// severityLabel renders sev as a colored tag the way a lint diagnostic
// line prefixes its severity; the tag is not padded to a common width.
func severityLabel(sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return red(bold("error"))
	case core.SeverityWarning:
		return yellow(bold("warning"))
	case core.SeverityInfo:
		return blue("info")
	case core.SeverityHint:
		return cyan("hint")
	default:
		return string(sev)
	}
}

// printFinding writes one finding as a single diagnostic line plus, when
// present, the fix it would apply.
func printFinding(w io.Writer, f scan.Finding) {
	fmt.Fprintf(w, "%s:%d:%d: %s %s [%s]\n",
		f.Path, f.StartLine+1, f.StartCol+1, severityLabel(f.Severity), f.Message, bold(f.RuleID))
	if f.FixApplied != "" {
		fmt.Fprintf(w, "  %s %s %s\n", green("fix:"), f.Text, "-> "+f.FixApplied)
	}
}

// printSummary writes the teacher's terse pass/fail-style tally line.
func printSummary(w io.Writer, total int) {
	if total == 0 {
		fmt.Fprintf(w, "%s no findings\n", green("✓"))
		return
	}
	fmt.Fprintf(w, "%s %d finding(s)\n", yellow("!"), total)
}

// printFindingsJSON writes findings as a single JSON array, for --json
// output consumed by editors or CI tooling instead of a human terminal.
func printFindingsJSON(w io.Writer, findings []scan.Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}
