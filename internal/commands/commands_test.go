package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assettrack/assettrack/internal/assetcsv"
	"github.com/assettrack/assettrack/internal/day"
)

func setToday(t *testing.T, s string) {
	t.Helper()
	d := day.MustParse(s)
	old := today
	today = func() day.Date { return d }
	t.Cleanup(func() { today = old })
}

func runAssettrack(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runAssettrack(t, dir, args...)
	require.NoError(t, err, "assettrack %s", strings.Join(args, " "))
	return out
}

// newDataDir initializes a data directory with the sample records dated
// around 2025-08-20.
func newDataDir(t *testing.T) string {
	t.Helper()
	setToday(t, "2025-08-20")
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "sample")
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "init")
	assert.Contains(t, out, "Initialized assettrack data directory")

	for _, d := range []string{"logs", "exports", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}
	for _, f := range []string{"assettrack.yaml", "assettrack.db", ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "file %s should exist", f)
	}
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	_, err := runAssettrack(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddEditDelete(t *testing.T) {
	setToday(t, "2025-08-20")
	dir := t.TempDir()
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "add", "--name", "Binance", "--amount", "50000", "--currency", "USDT")
	assert.Contains(t, out, "2025-08-20 Binance 50,000 USDT")
	short := strings.TrimSuffix(strings.Fields(out)[1], ":")

	out = mustRun(t, dir, "list")
	assert.Contains(t, out, short)
	assert.Contains(t, out, "50,000")
	assert.Contains(t, out, "1 of 1 records")

	out = mustRun(t, dir, "edit", short, "--amount", "52000.5")
	assert.Contains(t, out, "Binance 52,000.5 USDT")

	out = mustRun(t, dir, "delete", short)
	assert.Contains(t, out, "Deleted "+short)
	assert.Contains(t, mustRun(t, dir, "list"), "0 of 0 records")
}

func TestAdd_Invalid(t *testing.T) {
	setToday(t, "2025-08-20")
	dir := t.TempDir()
	mustRun(t, dir, "init")

	_, err := runAssettrack(t, dir, "add", "--name", "Binance", "--amount", "-5", "--currency", "USDT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")

	_, err = runAssettrack(t, dir, "add", "--date", "2025-02-30", "--name", "A", "--amount", "1", "--currency", "USDT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestDelete_UnknownID(t *testing.T) {
	dir := newDataDir(t)
	_, err := runAssettrack(t, dir, "delete", "zzzzzzzz")
	assert.Error(t, err)
}

func TestList_FilterAndSort(t *testing.T) {
	dir := newDataDir(t)

	out := mustRun(t, dir, "list", "--source", "現金")
	assert.Contains(t, out, "4 of 9 records")
	assert.NotContains(t, out, "幣安")

	out = mustRun(t, dir, "list", "--from", "2025-08-19", "--sort", "amount", "--order", "desc")
	assert.Contains(t, out, "5 of 9 records")
	assert.Contains(t, out, "Amount ↓")
	assert.Less(t, strings.Index(out, "55,000"), strings.Index(out, "20,000"))

	_, err := runAssettrack(t, dir, "list", "--sort", "weight")
	assert.Error(t, err)
}

func TestList_SourceWithComma(t *testing.T) {
	dir := newDataDir(t)
	mustRun(t, dir, "add", "--name", "A, Inc.", "--amount", "10", "--currency", "USD")

	out := mustRun(t, dir, "list", "--source", "A, Inc.")
	assert.Contains(t, out, "1 of 10 records")

	out = mustRun(t, dir, "list", "--source", "A, Inc.", "--source", "現金")
	assert.Contains(t, out, "5 of 10 records")
}

func TestAdd_CompletesKnownSources(t *testing.T) {
	dir := newDataDir(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"__complete", "add", "--dir", dir, "--name", ""})
	require.NoError(t, root.Execute())

	assert.Equal(t, "幣安\n投資\n現金\n:4\n", out.String())
}

func TestOptions(t *testing.T) {
	dir := newDataDir(t)

	out := mustRun(t, dir, "options", "currency")
	assert.Equal(t, "[ ] USDT\n", out)

	out = mustRun(t, dir, "options", "source", "--source", "幣安")
	assert.Contains(t, out, "[x] 幣安")
	assert.Contains(t, out, "[ ] 現金")
}

func TestTotalAndChange(t *testing.T) {
	dir := newDataDir(t)

	assert.Equal(t, "100,000\n", mustRun(t, dir, "total"))

	out := mustRun(t, dir, "change")
	assert.Contains(t, out, "2025-08-20: 80,000 -> 100,000")
	assert.Contains(t, out, "+20,000 (+25.00%)")

	out = mustRun(t, dir, "change", "--date", "2025-01-15")
	assert.Contains(t, out, "no records the day before")
}

func TestSnapshot(t *testing.T) {
	dir := newDataDir(t)
	out := mustRun(t, dir, "snapshot")
	assert.Contains(t, out, "2025-08-20")
	assert.Contains(t, out, "55.0%")
	assert.Contains(t, out, "100,000")
}

func TestChart_Range(t *testing.T) {
	dir := newDataDir(t)

	out := mustRun(t, dir, "chart")
	assert.Contains(t, out, "2025-01-15")

	out = mustRun(t, dir, "chart", "--range", "7")
	assert.NotContains(t, out, "2025-01-15")
	assert.Contains(t, out, "2025-08-19")
	assert.Contains(t, out, "+20,000")
}

func TestCalendar(t *testing.T) {
	dir := newDataDir(t)

	out := mustRun(t, dir, "calendar", "2025-08", "--mode", "both")
	assert.Contains(t, out, "August 2025")
	assert.Contains(t, out, "100,000")
	assert.Contains(t, out, "+20,000")

	_, err := runAssettrack(t, dir, "calendar", "2025-8-1")
	assert.Error(t, err)
}

func TestDay(t *testing.T) {
	dir := newDataDir(t)

	out := mustRun(t, dir, "day", "2025-08-20")
	assert.Contains(t, out, "投資")
	assert.Contains(t, out, "+7,000 (+14.58%)")

	out = mustRun(t, dir, "day", "2025/8/1")
	assert.Contains(t, out, "2025-08-01: no records")
}

func TestExportClearImport(t *testing.T) {
	dir := newDataDir(t)

	out := mustRun(t, dir, "export")
	path := filepath.Join(dir, "exports", "asset_data_2025-08-20.csv")
	assert.Contains(t, out, "Exported 9 records to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), assetcsv.BOM+assetcsv.Header))

	_, err = runAssettrack(t, dir, "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	assert.Contains(t, mustRun(t, dir, "clear", "--yes"), "Deleted 9 records")
	assert.Equal(t, "0\n", mustRun(t, dir, "total"))

	out = mustRun(t, dir, "import", path)
	assert.Contains(t, out, "Imported 9 records")
	assert.Equal(t, "100,000\n", mustRun(t, dir, "total"))
}

func TestExport_Empty(t *testing.T) {
	setToday(t, "2025-08-20")
	dir := t.TempDir()
	mustRun(t, dir, "init")

	_, err := runAssettrack(t, dir, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data to export")
}

func TestExport_XLSX(t *testing.T) {
	dir := newDataDir(t)
	out := filepath.Join(t.TempDir(), "out")
	mustRun(t, dir, "export", "--xlsx", "--out", out)

	_, err := os.Stat(filepath.Join(out, "asset_data_2025-08-20.xlsx"))
	assert.NoError(t, err)
}

func TestImport_FromImportDir(t *testing.T) {
	dir := newDataDir(t)
	backup := `[{"date": "2025-08-21", "name": "Bank", "amount": 1234.5, "currency": "TWD"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "backup.json"), []byte(backup), 0o644))

	out := mustRun(t, dir, "import", "--scan")
	assert.Contains(t, out, "backup.json  json")

	out = mustRun(t, dir, "import", "backup.json")
	assert.Contains(t, out, "Imported 1 records from backup.json")
	assert.Equal(t, "1,234.5\n", mustRun(t, dir, "total"))

	_, err := os.Stat(filepath.Join(dir, "import", "processed", "backup.json"))
	assert.NoError(t, err)
	assert.Contains(t, mustRun(t, dir, "import", "--scan"), "No files to import in "+filepath.Join(dir, "import")+" (looking for csv, json)")
}

func TestImport_NothingValidKeepsRecords(t *testing.T) {
	dir := newDataDir(t)
	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("h\n1,2\n"), 0o644))

	_, err := runAssettrack(t, dir, "import", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid asset records")
	assert.Equal(t, "100,000\n", mustRun(t, dir, "total"))
}

func TestSample_OnlyWhenEmpty(t *testing.T) {
	dir := newDataDir(t)
	assert.Contains(t, mustRun(t, dir, "sample"), "already exist")
	assert.Contains(t, mustRun(t, dir, "list"), "9 of 9 records")
}

func TestPrefsDarkMode(t *testing.T) {
	setToday(t, "2025-08-20")
	dir := t.TempDir()
	mustRun(t, dir, "init")

	assert.Equal(t, "dark-mode: off\n", mustRun(t, dir, "prefs", "dark-mode"))
	assert.Equal(t, "dark-mode: on\n", mustRun(t, dir, "prefs", "dark-mode", "on"))
	assert.Equal(t, "dark-mode: on\n", mustRun(t, dir, "prefs", "dark-mode"))

	_, err := runAssettrack(t, dir, "prefs", "dark-mode", "maybe")
	assert.Error(t, err)
}

func TestLog(t *testing.T) {
	dir := newDataDir(t)
	mustRun(t, dir, "add", "--name", "Bank", "--amount", "1", "--currency", "TWD")

	out := mustRun(t, dir, "log")
	assert.Contains(t, out, "sample data loaded")
	assert.Contains(t, out, "asset added")

	out = mustRun(t, dir, "log", "--tail", "1")
	assert.NotContains(t, out, "sample data loaded")
}
