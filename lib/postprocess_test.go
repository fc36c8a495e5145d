package lib

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/snpost/lib/catio"
	"github.com/phil-mansfield/snpost/lib/compress"
	"github.com/phil-mansfield/snpost/lib/merge"
	"github.com/phil-mansfield/snpost/lib/simdir"
)

const entropyHeader = "id, x, y, z, Temp, u, udot, rho, vx, vy, vz, h, mass, Y_e"

// finishJobs writes the files that the preprocessing jobs would have left
// behind in a testSimulation directory.
func finishJobs(t *testing.T, head string) {
	t.Helper()
	sdf := filepath.Join(head, "sdf")
	writeText(t, filepath.Join(sdf, "jet3b.00100.out"), entropyHeader,
		"0, 0, 0, 0, 50, 0, 0, 2, 0, 0, 0, 0.1, 1, 0.49",
		"1, 0, 0, 0, 60, 0, 0, 3, 0, 0, 0, 0.1, 1, 0.5")
	writeText(t, filepath.Join(sdf, "jet3b.00200.out"), entropyHeader,
		"0, 0, 0, 0, 80, 0, 0, 4, 0, 0, 0, 0.1, 1, 0.49",
		"1, 0, 0, 0, 40, 0, 0, 1, 0, 0, 0, 0.1, 1, 0.5")
	writeText(t, filepath.Join(sdf, "jet3b.00300.out"), entropyHeader,
		"0, 1, 2, 3, 10, 0, 0, 0.5, 4, 5, 6, 0.1, 2, 0.45",
		"1, 7, 8, 9, 11, 0, 0, 0.25, 1, 2, 3, 0.2, 4, 0.45")
	writeText(t, filepath.Join(sdf, "jet3b.00300.unburned.out"), "26Al 1e-5")
	writeText(t, filepath.Join(head, "hdf5", "jet3b_pids.out"), "0", "1")

	queries := filepath.Join(head, "queries")
	writeText(t, filepath.Join(queries, "44Ti.out"), "0, 22, 22, 1.5")
	writeText(t, filepath.Join(queries, "48Ti.out"),
		"0, 22, 26, 2.5", "1, 22, 26, 0.5")
}

func TestPostprocess(t *testing.T) {
	head := testSimulation(t)
	out := &bytes.Buffer{}
	p, runner, _ := testPipeline(t, head, "y\ny\ny\n", out)
	_, err := p.Preprocess()
	require.NoError(t, err)
	finishJobs(t, head)
	writeText(t, filepath.Join(head, "sbatch", "slurm.1001.ISO44Ti.out"))

	sum, err := p.Postprocess()
	require.NoError(t, err)
	assert.Equal(t, merge.Summary{Rows: 2}, sum)

	sbatch := filepath.Join(head, "sbatch")
	analysis := filepath.Join(head, "analysis")
	queries := filepath.Join(head, "queries")
	sorted := filepath.Join(head, "sorted_queries")
	yields := filepath.Join(analysis, "jet3b_yields.out")
	assert.Equal(t, [][]string{
		{"/opt/sn/extract_yields.sh", sbatch, yields},
		{"/opt/sn/update_yields", yields,
			filepath.Join(p.Paths.SDF, "jet3b.00300.unburned.out"),
			filepath.Join(p.Paths.HDF5, "jet3b_pids.out")},
		{"/opt/sn/sort_query.sh", filepath.Join(queries, "44Ti.out"),
			filepath.Join(sorted, "44Ti.out")},
		{"/opt/sn/sort_query.sh", filepath.Join(queries, "48Ti.out"),
			filepath.Join(sorted, "48Ti.out")},
	}, runner.commands)
	assert.Contains(t, out.String(), "Removed 1 files.")

	assert.Equal(t, "id\nx\ny\nz\nvx\nvy\nvz\nmass\nh\ndensity\npeak_temp\n"+
		"peak_density\nY_e\nA_{Ti}\nA_{44Ti}\n",
		readText(t, filepath.Join(analysis, ColumnsName)))
	assert.Equal(t, []string{
		"id, x, y, z, vx, vy, vz, mass, h, density, peak_temp, " +
			"peak_density, Y_e, A_{Ti}, A_{44Ti}",
		"0, 1, 2, 3, 4, 5, 6, 2, 0.1, 0.5, 80, 4, 0.49, 4, 1.5",
		"1, 7, 8, 9, 1, 2, 3, 4, 0.2, 0.25, 60, 3, 0.5, 0.5, 0",
	}, strings.Split(strings.TrimSuffix(
		readText(t, filepath.Join(analysis, "jet3b_plotting.out")), "\n"), "\n"))
}

func TestPostprocessAbort(t *testing.T) {
	head := testSimulation(t)
	p, runner, _ := testPipeline(t, head, "n\n", &bytes.Buffer{})
	_, err := p.Preprocess()
	require.NoError(t, err)
	finishJobs(t, head)

	_, err = p.Postprocess()
	var abort *AbortError
	require.True(t, errors.As(err, &abort))
	assert.Equal(t, "extracting yields", abort.Step)
	assert.Len(t, runner.commands, 1)
}

func TestPostprocessRequiresPreprocessing(t *testing.T) {
	head := testSimulation(t)
	p, runner, _ := testPipeline(t, head, "y\ny\ny\n", &bytes.Buffer{})
	_, err := p.Postprocess()
	assert.Error(t, err)
	assert.Empty(t, runner.commands)
}

func TestUpdateYieldsUnburnedFiles(t *testing.T) {
	head := testSimulation(t)
	p, runner, _ := testPipeline(t, head, "y\n", &bytes.Buffer{})
	_, _, err := p.Paths.MakeDirs([]string{
		simdir.Sbatch, simdir.Queries, simdir.Analysis, simdir.SortedQueries,
	})
	require.NoError(t, err)

	// No unburned file.
	assert.Error(t, p.UpdateYields())

	finishJobs(t, head)
	writeText(t, filepath.Join(p.Paths.SDF, "jet3b.00200.unburned.out"))
	assert.Error(t, p.UpdateYields())
	assert.Empty(t, runner.commands)
}

func TestMergeCompressed(t *testing.T) {
	head := testSimulation(t)
	p, _, _ := testPipeline(t, head, "", &bytes.Buffer{})
	p.Args.Compress = true
	finishJobs(t, head)
	_, _, err := p.Paths.MakeDirs(simdir.PostDirectories)
	require.NoError(t, err)

	// Merge doesn't sort, so the targets must already be in place.
	sorted := filepath.Join(head, "sorted_queries")
	writeText(t, filepath.Join(sorted, "44Ti.out"), "1, 22, 22, 0.25")

	sum, err := p.Merge()
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Rows)
	assert.True(t, strings.HasSuffix(p.PlottingName(), compress.Ext))

	r, err := catio.Open(p.PlottingName())
	require.NoError(t, err)
	defer r.Close()
	col, err := r.FindColumn("A_{Ti}")
	require.NoError(t, err)
	rec, ok, err := r.Fetch(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0", rec.Fields[col])
	rec, ok, err = r.Fetch(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0.25", rec.Fields[col])
}

func TestLayout(t *testing.T) {
	head := testSimulation(t)
	p, _, _ := testPipeline(t, head, "", &bytes.Buffer{})
	finishJobs(t, head)
	_, _, err := p.Paths.MakeDirs(simdir.PostDirectories)
	require.NoError(t, err)
	sorted := filepath.Join(head, "sorted_queries")
	writeText(t, filepath.Join(sorted, "44Ti.out"))
	writeText(t, filepath.Join(sorted, "148Ti.out"))
	writeText(t, filepath.Join(sorted, "26Al.out"))

	layout, err := p.Layout([]string{"Ti", "26Al", "Fe"})
	require.NoError(t, err)

	sdf := p.Paths.SDF
	assert.Equal(t, filepath.Join(sdf, "jet3b.00100.out"), layout.Initial)
	assert.Equal(t, filepath.Join(sdf, "jet3b.00300.out"), layout.Terminal)
	assert.Equal(t, []string{
		filepath.Join(sdf, "jet3b.00100.out"),
		filepath.Join(sdf, "jet3b.00200.out"),
	}, layout.Early)
	require.Len(t, layout.Targets, 3)
	assert.Equal(t, []string{filepath.Join(sorted, "44Ti.out")},
		layout.Targets[0].Files)
	assert.Equal(t, []string{filepath.Join(sorted, "26Al.out")},
		layout.Targets[1].Files)
	assert.Empty(t, layout.Targets[2].Files)

	// A target without files stops the merge.
	writeText(t, p.Args.Paths.Abundances, "Fe")
	_, err = p.Merge()
	assert.Error(t, err)
}
