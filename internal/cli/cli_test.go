package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `backend = "file"
data_dir = "data"
export_dir = "exports"
log_file = ""
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	require.NoError(t, err, out)
	return out
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	line := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(line, "added "), out)
	return strings.TrimPrefix(line, "added ")
}

func TestTaskCommands(t *testing.T) {
	cfg := writeConfig(t)

	id := addedID(t, mustRun(t, cfg, "tasks", "add", "Write", "report"))
	out := mustRun(t, cfg, "tasks", "list")
	assert.Contains(t, out, "0/1 tasks completed")
	assert.Contains(t, out, "[ ] Write report")

	out = mustRun(t, cfg, "tasks", "toggle", id)
	assert.Contains(t, out, "Nice work!")
	out = mustRun(t, cfg, "tasks", "list")
	assert.Contains(t, out, "1/1 tasks completed")

	out = mustRun(t, cfg, "tasks", "week")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 7)

	out = mustRun(t, cfg, "tasks", "delete", id)
	assert.Contains(t, out, "deleted "+id)
	out = mustRun(t, cfg, "tasks", "delete", id)
	assert.Contains(t, out, "no task")
}

func TestTaskCommandsRejectBadInput(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, cfg, "tasks", "list", "--date", "03/10/2026")
	assert.ErrorContains(t, err, "invalid --date")

	_, err = run(t, cfg, "tasks", "add", "   ")
	assert.ErrorContains(t, err, "empty")
}

func TestIdeaCommands(t *testing.T) {
	cfg := writeConfig(t)

	id := addedID(t, mustRun(t, cfg, "ideas", "add", "Learn to surf"))

	out := mustRun(t, cfg, "ideas", "cycle", id)
	assert.Contains(t, out, "high priority")
	out = mustRun(t, cfg, "ideas", "cycle", id)
	assert.Contains(t, out, "low priority")

	mustRun(t, cfg, "ideas", "toggle", id)
	out = mustRun(t, cfg, "ideas", "list", "--filter", "active")
	assert.Contains(t, out, "No ideas.")
	out = mustRun(t, cfg, "ideas", "list", "--filter", "completed")
	assert.Contains(t, out, "(x) low    Learn to surf")

	_, err := run(t, cfg, "ideas", "list", "--filter", "someday")
	assert.ErrorContains(t, err, "unknown filter")
	_, err = run(t, cfg, "ideas", "toggle", "abc")
	assert.ErrorContains(t, err, "invalid idea id")

	out = mustRun(t, cfg, "ideas", "delete", id)
	assert.Contains(t, out, "deleted "+id)
	out = mustRun(t, cfg, "ideas", "list")
	assert.Contains(t, out, "No ideas.")
}

func TestExportImportCommands(t *testing.T) {
	cfg := writeConfig(t)
	mustRun(t, cfg, "tasks", "add", "keep me")

	out := mustRun(t, cfg, "export")
	require.True(t, strings.HasPrefix(out, "exported to "), out)
	path := strings.TrimSpace(strings.TrimPrefix(out, "exported to "))
	assert.Equal(t, filepath.Join(filepath.Dir(cfg), "exports"), filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "keep me"`)

	out = mustRun(t, cfg, "export", "--stdout")
	assert.Contains(t, out, `"text": "keep me"`)

	backup := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(backup, []byte(`{"2026-03-09": [{"id": 7, "text": "restored", "completed": false, "created": "9:00:00 AM"}]}`), 0o644))
	out = mustRun(t, cfg, "import", backup)
	assert.Contains(t, out, "imported 1 day(s)")

	out = mustRun(t, cfg, "tasks", "list", "--date", "2026-03-09")
	assert.Contains(t, out, "[ ] restored  (7)")

	_, err = run(t, cfg, "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMaintainAndConfigCommands(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, cfg, "maintain")
	assert.Contains(t, out, "pruned 0 task(s)")

	out = mustRun(t, cfg, "config", "path")
	assert.Equal(t, cfg, strings.TrimSpace(out))

	out = mustRun(t, cfg, "config", "show")
	assert.Contains(t, out, "backend = 'file'")
	assert.Contains(t, out, "retention_days = 7")
}

func TestBadConfigIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = "redis"`), 0o644))

	_, err := run(t, path, "tasks", "list")
	assert.ErrorContains(t, err, "backend")
}

func TestDataCommands(t *testing.T) {
	cfg := writeConfig(t)
	dataDir := filepath.Join(filepath.Dir(cfg), "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "producerIdeas.json"), []byte(`[{"id": oops`), 0o600))

	out := mustRun(t, cfg, "data", "keys")
	assert.Contains(t, out, "producerIdeas.corrupt")
	assert.Contains(t, out, "producerTasks")
	assert.Contains(t, out, "lastVisitDate")

	out = mustRun(t, cfg, "data", "clean")
	assert.Contains(t, out, "removed 1 corrupt backup(s)")
	_, err := os.Stat(filepath.Join(dataDir, "producerIdeas.corrupt.json"))
	assert.True(t, os.IsNotExist(err))
}
