package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noConsoleLogRule = `
id: no-console-log
language: javascript
rule:
  pattern: console.log($A)
message: avoid console.log
severity: warning
fix:
  - title: use console.warn
    template: console.warn($A)
`

func writeTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "rules", "no-console-log.yml"), []byte(noConsoleLogRule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sgconfig.yml"), []byte("ruleDirs:\n  - rules\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("console.log(1);\n"), 0o644))

	return root
}

func TestScanCommandFindsRuleMatch(t *testing.T) {
	root := writeTestProject(t)
	projectDir = root
	cachePath = ""
	defer func() { projectDir = "."; cachePath = "" }()

	cmd := newScanCmd()
	err := cmd.RunE(cmd, nil)
	assert.NoError(t, err) // the rule's severity is "warning", not "error"
}

func TestScanCommandFailsOnErrorSeverityFinding(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "rules", "no-console-log.yml"), []byte(`
id: no-console-log
language: javascript
rule:
  pattern: console.log($A)
message: avoid console.log
severity: error
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sgconfig.yml"), []byte("ruleDirs:\n  - rules\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("console.log(1);\n"), 0o644))

	projectDir = root
	cachePath = ""
	defer func() { projectDir = "."; cachePath = "" }()

	cmd := newScanCmd()
	err := cmd.RunE(cmd, nil)
	assert.Error(t, err)
}

func TestRunCommandDryRunLeavesFileUnmodified(t *testing.T) {
	root := writeTestProject(t)
	projectDir = root
	cachePath = ""
	defer func() { projectDir = "."; cachePath = "" }()

	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))
	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1);\n", string(data))
}

func TestRunCommandAppliesFixWhenNotDryRun(t *testing.T) {
	root := writeTestProject(t)
	projectDir = root
	cachePath = ""
	defer func() { projectDir = "."; cachePath = "" }()

	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Set("dry-run", "false"))
	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.warn(1);\n", string(data))
}

func TestTestCommandRunsFixtures(t *testing.T) {
	root := writeTestProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "no-console-log.txt"), []byte(
		"// valid\nconsole.warn(1);\n// invalid\nconsole.log(1);\n",
	), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sgconfig.yml"), []byte(
		"ruleDirs:\n  - rules\ntestConfigs:\n  - testDir: tests\n",
	), 0o644))

	projectDir = root
	cachePath = ""
	defer func() { projectDir = "."; cachePath = "" }()

	cmd := newTestCmd()
	err := cmd.RunE(cmd, nil)
	assert.NoError(t, err)
}
