package fileutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistenceChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(file))
}

func TestAtomicWrite_CreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "outputs", "nested", "file.csv")

	err := AtomicWrite(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "date|inflow\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "date|inflow\n", string(data))
}

func TestAtomicWrite_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0600))

	err := AtomicWrite(target, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("render failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "previous output must survive a failed write")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestCommitAll_ReplacesEveryTarget(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "silver.csv")
	second := filepath.Join(dir, "sheet.xlsx")
	require.NoError(t, os.WriteFile(first, []byte("old"), 0600))

	a, err := Stage(first, writeString("new silver"))
	require.NoError(t, err)
	b, err := Stage(second, writeString("new sheet"))
	require.NoError(t, err)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "staging must not touch the target")
	assert.NoFileExists(t, second)

	require.NoError(t, CommitAll(a, b))
	data, err = os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "new silver", string(data))
	assert.FileExists(t, b.Target())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary or previous copies are left")
}

func TestCommitAll_RestoresOnFailure(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "silver.csv")
	fresh := filepath.Join(dir, "fresh.csv")
	blocked := filepath.Join(dir, "sheet.xlsx")
	require.NoError(t, os.WriteFile(first, []byte("old"), 0600))

	a, err := Stage(first, writeString("new silver"))
	require.NoError(t, err)
	b, err := Stage(fresh, writeString("fresh"))
	require.NoError(t, err)
	c, err := Stage(blocked, writeString("new sheet"))
	require.NoError(t, err)
	// a directory in the way makes the last rename fail
	require.NoError(t, os.Mkdir(blocked, 0750))

	require.Error(t, CommitAll(a, b, c))

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.NoFileExists(t, fresh)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"silver.csv", "sheet.xlsx"}, names)
}

func TestStage_DiscardLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := Stage(filepath.Join(dir, "out.csv"), writeString("x"))
	require.NoError(t, err)
	s.Discard()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
