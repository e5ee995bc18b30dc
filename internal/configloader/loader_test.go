package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/genqa/pkg/config"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "jobs: 6\nformat: json\n")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Config.Jobs)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
	// Defaults survive a partial file.
	assert.Equal(t, "records.json", result.Config.RecordsName)
	assert.Equal(t, 4, result.Config.Attempt)
	require.Len(t, result.LoadedFrom, 1)
	assert.Equal(t, filepath.Join(dir, ".genqa.yml"), result.LoadedFrom[0])
}

func TestLoad_NoConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	// A VCS marker stops the upward search before it leaves the temp dir.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_UpwardDiscoveryStopsAtVCSRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".genqa.yml", "jobs: 3\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), LoadOptions{WorkingDir: nested})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Config.Jobs)

	// With a VCS root between, the config above is not visible.
	require.NoError(t, os.Mkdir(filepath.Join(root, "a", ".git"), 0o755))
	result, err = Load(context.Background(), LoadOptions{WorkingDir: nested})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Config.Jobs)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeConfig(t, dir, ".genqa.yml", "jobs: 3\n")
	explicit := writeConfig(t, dir, "other.yml", "jobs: 9\n")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir, ExplicitPath: explicit})
	require.NoError(t, err)
	assert.Equal(t, 9, result.Config.Jobs, "explicit path replaces project discovery")

	_, err = Load(context.Background(), LoadOptions{
		WorkingDir:   dir,
		ExplicitPath: filepath.Join(dir, "missing.yml"),
	})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "jobs: 3\n")
	t.Setenv("GENQA_JOBS", "12")
	t.Setenv("GENQA_RECORDS_NAME", "history.json")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Config.Jobs)
	assert.Equal(t, "history.json", result.Config.RecordsName)
}

func TestLoad_CLIOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "jobs: 3\nformat: json\n")
	t.Setenv("GENQA_JOBS", "12")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir: dir,
		CLIConfig:  &config.Config{Jobs: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Config.Jobs)
	assert.Equal(t, config.FormatJSON, result.Config.Format, "unset CLI fields do not override")
}

func TestLoad_FlagTurnsOffFileBoolean(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "show_summary: true\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir: dir,
		CLIConfig:  &config.Config{ShowSummary: config.Bool(false)},
	})
	require.NoError(t, err)
	assert.False(t, result.Config.SummaryEnabled(), "flag false must beat file true")

	// An unset CLI field leaves the file value in effect.
	result, err = Load(context.Background(), LoadOptions{WorkingDir: dir})
	require.NoError(t, err)
	assert.True(t, result.Config.SummaryEnabled())
}

func TestLoad_EnvTurnsOffFileBoolean(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "show_summary: true\n")
	t.Setenv("GENQA_SHOW_SUMMARY", "false")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	require.NoError(t, err)
	assert.False(t, result.Config.SummaryEnabled())
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	t.Setenv("GENQA_JOBS", "lots")

	_, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	assert.Error(t, err)
}

func TestLoad_MalformedProjectConfigWarns(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "jobs: [broken\n")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, config.NewConfig(), result.Config)
}

func TestLoad_InvalidMergedConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".genqa.yml", "format: sarif\n")

	_, err := Load(context.Background(), LoadOptions{WorkingDir: dir})
	assert.Error(t, err)
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "GENQA_FORMAT")
	assert.Contains(t, vars, "GENQA_JOBS")
}
