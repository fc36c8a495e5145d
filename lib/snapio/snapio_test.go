package snapio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/snpost/lib/format"
)

// writeSDF writes a file with a plausible SDF header followed by padding.
func writeSDF(t *testing.T, dir, name, tpos string) {
	t.Helper()
	header := fmt.Sprintf("# SDF 1.0\nparameter byteorder = 0x12345678;\n"+
		"int npart = 1000000;\nfloat tpos = %s;\ndouble tstep = 0.01;\n"+
		"# SDF-EOH\n", tpos)
	body := header + strings.Repeat("\x00", 64)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestReadTpos(t *testing.T) {
	dir := t.TempDir()
	writeSDF(t, dir, "jet3b.00100", "0.25")
	writeSDF(t, dir, "jet3b.00200", "-1.5e-2")

	tpos, err := ReadTpos(filepath.Join(dir, "jet3b.00100"))
	require.NoError(t, err)
	assert.Equal(t, 0.25, tpos)

	tpos, err = ReadTpos(filepath.Join(dir, "jet3b.00200"))
	require.NoError(t, err)
	assert.Equal(t, -0.015, tpos)

	// tpos must be at the start of a line.
	bad := filepath.Join(dir, "bad.00300")
	require.NoError(t, os.WriteFile(bad, []byte("# float tpos = 1.0;\n"), 0644))
	_, err = ReadTpos(bad)
	assert.Error(t, err)

	// tpos beyond the scanned region is not found.
	far := filepath.Join(dir, "far.00400")
	text := strings.Repeat("#\n", HeaderScanSize) + "float tpos = 1.0;\n"
	require.NoError(t, os.WriteFile(far, []byte(text), 0644))
	_, err = ReadTpos(far)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.00500")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ReadTpos(empty)
	assert.Error(t, err)

	_, err = ReadTpos(filepath.Join(dir, "missing.00600"))
	assert.True(t, os.IsNotExist(err))
}

func TestExt(t *testing.T) {
	tests := []struct {
		fname string
		ext   int
		ok    bool
	}{
		{"jet3b.00120", 120, true},
		{"r3g_1M_cco2_sph.4000", 4000, true},
		{"jet3b.00120.out", 0, false},
		{"jet3b.h5", 0, false},
		{"jet3b", 0, false},
		{"jet3b.", 0, false},
		{"jet3b.12a", 0, false},
		{"jet3b.-12", 0, false},
	}

	for i := range tests {
		ext, ok := Ext(tests[i].fname)
		assert.Equal(t, tests[i].ok, ok, "%d)", i)
		assert.Equal(t, tests[i].ext, ext, "%d)", i)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeSDF(t, dir, "sn.0300", "2.0")
	writeSDF(t, dir, "sn.0100", "0.5")
	writeSDF(t, dir, "sn.0200", "1.0")
	writeSDF(t, dir, "sn.0050", "0.0")
	writeSDF(t, dir, "sn.0999", "0.7")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sn.0100.out"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.0001"), 0755))

	skip, err := format.ParseSet("999")
	require.NoError(t, err)
	snaps, err := List(dir, skip)
	require.NoError(t, err)

	names := []string{}
	for _, s := range snaps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"sn.0050", "sn.0100", "sn.0200", "sn.0300"}, names)
	assert.Equal(t, 200, snaps[2].Ext)
	assert.Equal(t, "sn.0200.out", snaps[2].OutName())

	assert.Equal(t, []string{
		filepath.Join(dir, "sn.0050.out"), filepath.Join(dir, "sn.0100.out"),
	}, Paths(dir, snaps[:2], true))
	assert.Equal(t, []string{filepath.Join(dir, "sn.0300")},
		Paths(dir, snaps[3:], false))
}

func TestSelect(t *testing.T) {
	snaps := []Snapshot{
		{"a.1", 1, 0.0}, {"a.2", 2, 0.5}, {"a.3", 3, 1.0},
		{"a.4", 4, 1.5}, {"a.5", 5, 3.0},
	}
	names := func(s []Snapshot) []string {
		out := []string{}
		for i := range s {
			out = append(out, s[i].Name)
		}
		return out
	}

	tests := []struct {
		mode    Mode
		tposMax float64
		names   []string
	}{
		{First, 1.0, []string{"a.1"}},
		{Last, 1.0, []string{"a.5"}},
		{Early, 1.0, []string{"a.1", "a.2", "a.3"}},
		{All, 1.0, []string{"a.1", "a.2", "a.3", "a.5"}},
		{Early, 0.75, []string{"a.1", "a.2", "a.3"}},
		{Early, -1, []string{"a.1"}},
		{All, -1, []string{"a.1", "a.5"}},
		{Early, 3.0, []string{"a.1", "a.2", "a.3", "a.4", "a.5"}},
		{All, 3.0, []string{"a.1", "a.2", "a.3", "a.4", "a.5"}},
		{Early, 10, []string{"a.1", "a.2", "a.3", "a.4", "a.5"}},
		{All, 10, []string{"a.1", "a.2", "a.3", "a.4", "a.5"}},
	}

	for i := range tests {
		sel, err := Select(snaps, tests[i].mode, tests[i].tposMax)
		require.NoError(t, err, "%d)", i)
		assert.Equal(t, tests[i].names, names(sel), "%d) %s", i, tests[i].mode)
	}

	_, err := Select(nil, All, 1.0)
	assert.Error(t, err)
	_, err = Select(snaps, Mode(17), 1.0)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{All, First, Last, Early} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	m, err := ParseMode("EARLY")
	require.NoError(t, err)
	assert.Equal(t, Early, m)
	_, err = ParseMode("middle")
	assert.Error(t, err)
}
