package simdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path ...string) {
	t.Helper()
	fname := filepath.Join(path...)
	require.NoError(t, os.MkdirAll(filepath.Dir(fname), 0755))
	require.NoError(t, os.WriteFile(fname, nil, 0644))
}

func TestFind(t *testing.T) {
	head := filepath.Join(t.TempDir(), "jet3b")
	touch(t, head, "hdf5", "jet3b_00001.h5")
	touch(t, head, "sdf", "jet3b.00100")
	touch(t, head, "sdf", "jet3b.00100.out")
	touch(t, head, "logs", "run.log")
	touch(t, head, "notes.h5")

	p, err := Find(head)
	require.NoError(t, err)
	assert.Equal(t, "jet3b", p.Name())
	assert.Equal(t, filepath.Join(head, "hdf5"), p.HDF5)
	assert.Equal(t, filepath.Join(head, "sdf"), p.SDF)
	assert.Equal(t, []string{
		"Searching for paths in directory: " + head,
		"HDF5 directory: " + filepath.Join(head, "hdf5"),
		"SDF directory: " + filepath.Join(head, "sdf"),
	}, p.Report())
}

func TestFindAmbiguous(t *testing.T) {
	head := t.TempDir()
	touch(t, head, "a", "x.h5")
	touch(t, head, "b", "y.h5")
	touch(t, head, "b", "y.0001")

	p, err := Find(head)
	require.NoError(t, err)
	assert.Equal(t, "", p.HDF5)
	assert.Len(t, p.HDF5Candidates, 2)
	assert.Equal(t, filepath.Join(head, "b"), p.SDF)
	assert.Contains(t, p.Report()[1], "(2 possibilities)")

	_, err = Find(filepath.Join(head, "missing"))
	assert.Error(t, err)
}

func TestMakeAndCheckDirs(t *testing.T) {
	head := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(head, Sbatch), 0755))

	p, err := Find(head)
	require.NoError(t, err)

	assert.Error(t, p.CheckDirs(PreDirectories))

	made, found, err := p.MakeDirs(PreDirectories)
	require.NoError(t, err)
	assert.Equal(t, 1, made)
	assert.Equal(t, 1, found)

	require.NoError(t, p.CheckDirs(PreDirectories))
	dir, err := p.Dir(Queries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(head, Queries), dir)

	_, err = p.Dir(Analysis)
	assert.Error(t, err)

	made, found, err = p.MakeDirs(PostDirectories)
	require.NoError(t, err)
	assert.Equal(t, 2, made)
	assert.Equal(t, 0, found)
	assert.Equal(t, []string{Analysis, Queries, Sbatch, SortedQueries}, p.Dirs())
}
