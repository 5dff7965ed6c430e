package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Display.CalendarMode = "both"
	cfg.Display.ChartRangeDays = 30
	cfg.Export.Delimiter = "tab"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "assettrack.db", cfg.Database)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "total", cfg.Display.CalendarMode)
	assert.Zero(t, cfg.Display.ChartRangeDays)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "comma", cfg.Export.Delimiter)
	assert.Equal(t, "import", cfg.Import.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("display:\n  calendar_mode: change\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "change", cfg.Display.CalendarMode)
	assert.Equal(t, "assettrack.db", cfg.Database)
	assert.Equal(t, "comma", cfg.Export.Delimiter)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "database: assettrack.db")
	assert.Contains(t, contents, "calendar_mode: total")
	assert.Contains(t, contents, "chart_range_days: 0")
	assert.Contains(t, contents, "delimiter: comma")
}

func TestResolve_NoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "assettrack.db"), cfg.Database)
	assert.Equal(t, filepath.Join(dir, "exports"), cfg.Export.Dir)
	assert.Equal(t, filepath.Join(dir, "import"), cfg.Import.Dir)
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Display.ChartRangeDays = 7
	cfg.Logging.Level = "info"
	require.NoError(t, Save(filepath.Join(dir, FileName), cfg))

	t.Setenv("ASSETTRACK_DISPLAY_CHART_RANGE_DAYS", "90")
	t.Setenv("ASSETTRACK_DATABASE", "/var/lib/assets.db")

	got, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Display.ChartRangeDays)
	assert.Equal(t, "info", got.Logging.Level)
	assert.Equal(t, "/var/lib/assets.db", got.Database)
}

func TestResolve_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ASSETTRACK_LOGGING_FORMAT=json\n"), 0o644))

	// Register cleanup, then unset so .env can supply the value.
	t.Setenv("ASSETTRACK_LOGGING_FORMAT", "")
	require.NoError(t, os.Unsetenv("ASSETTRACK_LOGGING_FORMAT"))

	got, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", got.Logging.Format)
}

func TestResolve_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("display:\n  calendar_mode: weekly\n"), 0o644))

	_, err := Resolve(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestResolve_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("database: [\n"), 0o644))

	_, err := Resolve(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}
