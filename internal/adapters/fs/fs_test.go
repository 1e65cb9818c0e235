package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/labelrec/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestChecklist_LoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "list.csv", "\uFEFFlabel,note,ali_done_count,ali_total_count\ncat,\"a, b\",0,2\ndog,,1,1\n")

	repo := NewChecklistFileRepository()
	c, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "note", "ali_done_count", "ali_total_count"}, c.Header)
	require.Len(t, c.Rows, 2)
	assert.Equal(t, "a, b", c.Cell(0, 1))

	c.SetCell(0, 2, "1")
	require.NoError(t, repo.Save(c))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "label,note,ali_done_count,ali_total_count\ncat,\"a, b\",1,2\ndog,,1,1\n", string(got))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestChecklist_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	repo := NewChecklistFileRepository()

	tests := map[string]string{
		"missing": filepath.Join(dir, "nope.csv"),
		"empty":   writeFile(t, dir, "empty.csv", ""),
		"ragged":  writeFile(t, dir, "ragged.csv", "label,a_done_count\ncat\n"),
		"quote":   writeFile(t, dir, "quote.csv", "label\n\"cat\n"),
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Load(path)
			assert.ErrorIs(t, err, domain.ErrFormat)
		})
	}
}

func TestSampleStore_Append(t *testing.T) {
	root := t.TempDir()
	s := NewSampleFileStore()

	path, err := s.Append(root, "ali", "cat", [][]string{{"1 2", "3 4"}, {"5 6"}}, "#")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ali", "cat.txt"), path)

	_, err = s.Append(root, "ali", "cat", [][]string{{"7 8"}}, "#")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 2\n3 4\n#\n5 6\n#\n7 8\n#\n", string(got))
}

func TestSampleStore_NoSegmentsCreatesEmptyFile(t *testing.T) {
	root := t.TempDir()
	path, err := NewSampleFileStore().Append(root, "ali", "cat", nil, "#")
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, fi.Size())
}

func TestSampleStore_RejectsEscapingNames(t *testing.T) {
	root := t.TempDir()
	_, err := NewSampleFileStore().Append(root, "ali", "../x", nil, "#")

	var ioe *domain.IOError
	require.True(t, errors.As(err, &ioe))
	assert.ErrorIs(t, err, errBadName)
}

func TestSampleStore_UnwritableRoot(t *testing.T) {
	root := t.TempDir()
	blocker := writeFile(t, root, "file", "x")

	_, err := NewSampleFileStore().Append(blocker, "ali", "cat", [][]string{{"1"}}, "#")
	assert.ErrorIs(t, err, domain.ErrIO)
}
