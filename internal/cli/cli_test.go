package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPresets(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "* deepseek")
	assert.Contains(t, out, "openrouter-claude")
}

func TestCommandsRegistered(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"chunk", "enrich", "split", "chapters", "chunks", "embed", "search", "compare", "runs", "presets"} {
		assert.Contains(t, names, want)
	}
}

func TestChunkCommand(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.txt")
	words := strings.Repeat("word ", 25)
	require.NoError(t, os.WriteFile(doc, []byte(words), 0o644))
	outCSV := filepath.Join(dir, "notes.csv")

	out, err := run(t, "chunk", doc, "--out", outCSV,
		"--data-dir", filepath.Join(dir, "data"), "--chunk-size", "10", "--overlap", "0.2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, outCSV)

	data, err := os.ReadFile(outCSV)
	require.NoError(t, err)
	// 25 слов, шаг 8: окна с 0, 8, 16, 24
	assert.Equal(t, 5, strings.Count(string(data), "\n"))

	out, err = run(t, "runs", "--data-dir", filepath.Join(dir, "data"), "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "total=4 ok=4")
}

func TestInvalidOverlapRejected(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "chunk", filepath.Join(dir, "x.txt"), "--overlap", "1.0", "--data-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestUnknownPreset(t *testing.T) {
	_, err := run(t, "runs", "--preset", "nope", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM preset")
}

func TestCompareRequiresRows(t *testing.T) {
	_, err := run(t, "compare", "x.csv", "--data-dir", t.TempDir())
	require.Error(t, err)
}

func TestRunsRejectsBadLimit(t *testing.T) {
	dir := t.TempDir()
	for _, limit := range []string{"0", "-3"} {
		_, err := run(t, "runs", "--limit", limit, "--data-dir", dir, "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--limit must be at least 1")
	}
}
