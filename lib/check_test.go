package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkArgs returns Args whose lists and executables all exist.
func checkArgs(t *testing.T, positional ...string) *Args {
	t.Helper()
	dir := t.TempDir()

	raw := DefaultRawArgs()
	raw.Paths.Executables = filepath.Join(dir, "bin")
	raw.Paths.Isotopes = writeText(t, filepath.Join(dir, "isotopes.txt"),
		"44Ti 26Al 60Fe")
	raw.Paths.Abundances = writeText(t, filepath.Join(dir, "abundances.txt"),
		"Ti Fe 26Al")
	args, err := raw.Process("", positional)
	require.NoError(t, err)

	for _, exe := range args.executables() {
		writeText(t, *exe, "#!/bin/sh")
		require.NoError(t, os.Chmod(*exe, 0755))
	}
	return args
}

func TestCheckErrors(t *testing.T) {
	args := checkArgs(t, testSimulation(t))
	assert.Empty(t, CheckErrors(args))
	assert.True(t, Check(args, WarnOnError))

	writeText(t, args.Paths.Isotopes, "44Ti Xx12 26Al")
	writeText(t, args.Paths.Abundances, "Ti 3Qq")
	require.NoError(t, os.Remove(args.Paths.SortQuery))
	assert.Len(t, CheckErrors(args), 3)
	assert.False(t, Check(args, WarnOnError))

	require.NoError(t, os.Remove(args.Paths.Isotopes))
	assert.Len(t, CheckErrors(args), 3)
}

func TestCheckSimulation(t *testing.T) {
	head := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.MkdirAll(filepath.Join(head, "hdf5"), 0755))
	writeText(t, filepath.Join(head, "hdf5", "a.h5"))

	// No SDF directory.
	args := checkArgs(t, head)
	assert.Len(t, CheckErrors(args), 1)

	// Two SDF directories and no HDF5 directory.
	head = testSimulation(t)
	writeSDF(t, filepath.Join(head, "sdf2", "jet3b.00100"), "0.5")
	require.NoError(t, os.RemoveAll(filepath.Join(head, "hdf5")))
	assert.Len(t, CheckErrors(checkArgs(t, head)), 2)

	assert.Len(t, CheckErrors(checkArgs(t, filepath.Join(head, "missing"))), 1)
}
