package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 8, 20, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Level:     Success,
		Action:    "add",
		Message:   "asset added",
		RecordID:  "6f1c2a5e-0000-4000-8000-000000000001",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "add", entries[0].Action)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Level = Error
	e2.Action = "import"
	e2.Message = "import failed: line 2: expected 4 fields, got 3"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "add", entries[0].Action)
	assert.Equal(t, Error, entries[1].Level)
	assert.Equal(t, e2.Message, entries[1].Message)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Message = `quoted "name", with comma`
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Level, got.Level)
	assert.Equal(t, original.Message, got.Message)
	assert.Equal(t, original.RecordID, got.RecordID)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, logFile), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_BadTimestamp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	data := Header + "\nyesterday,info,add,msg,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, logFile), []byte(data), 0o644))

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLog_Record(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	l.now = func() time.Time { return testTime.Add(1500 * time.Millisecond) }

	require.NoError(t, l.Record(Info, "sample", "sample data loaded", ""))
	require.NoError(t, l.Record(Success, "delete", "asset deleted", "abc"))

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, testTime.Add(time.Second).Equal(entries[0].Timestamp))
	assert.Equal(t, "abc", entries[1].RecordID)
}

func TestTail(t *testing.T) {
	entries := []Entry{{Action: "a"}, {Action: "b"}, {Action: "c"}}
	assert.Len(t, Tail(entries, 0), 3)
	assert.Len(t, Tail(entries, 5), 3)
	got := Tail(entries, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Action)
}
