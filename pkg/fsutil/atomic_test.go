package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/genqa/pkg/fsutil"
)

func TestWriteAtomic_NewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, fsutil.WriteAtomic(path, []byte("a,b\n1,2\n"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())
}

func TestWriteAtomic_Overwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, fsutil.WriteAtomic(path, []byte("new"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteAtomic_NoTempLeftovers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, fsutil.WriteAtomic(filepath.Join(dir, "out.txt"), []byte("x"), 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	err := fsutil.WriteAtomic(filepath.Join(t.TempDir(), "absent", "out.txt"), []byte("x"), 0)
	assert.Error(t, err)
}
