package lib

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/snpost/lib/simdir"
	"github.com/phil-mansfield/snpost/lib/units"
)

// fakeRunner records commands instead of running them. Sort commands copy
// their input to their output.
type fakeRunner struct {
	sortQuery string
	commands  [][]string
}

func (r *fakeRunner) Run(name string, args ...string) error {
	r.commands = append(r.commands, append([]string{name}, args...))
	if name == r.sortQuery {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], text, 0644)
	}
	return nil
}

// fakeSubmitter gives out sequential job IDs and fails on the named scripts.
type fakeSubmitter struct {
	next  int
	fail  map[string]bool
	names []string
}

func (s *fakeSubmitter) Submit(fname string) (string, error) {
	base := filepath.Base(fname)
	s.names = append(s.names, base)
	if s.fail[base] {
		return "", fmt.Errorf("sbatch: error: Batch job submission failed")
	}
	s.next++
	return fmt.Sprint(1000 + s.next), nil
}

func writeText(t *testing.T, fname string, lines ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(fname), 0755))
	text := ""
	if len(lines) > 0 {
		text = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname
}

func writeSDF(t *testing.T, fname, tpos string) {
	t.Helper()
	writeText(t, fname, "# SDF 1.0", "int npart = 3;",
		"float tpos = "+tpos+";", "# SDF-EOH")
}

// testSimulation creates a simulation directory named jet3b with two HDF5
// files and three SDF snapshots at tpos 0.5, 1.5, and 3.0.
func testSimulation(t *testing.T) (head string) {
	head = filepath.Join(t.TempDir(), "jet3b")
	writeText(t, filepath.Join(head, "hdf5", "jet3b_0.h5"), "")
	writeText(t, filepath.Join(head, "hdf5", "jet3b_1.h5"), "")
	writeSDF(t, filepath.Join(head, "sdf", "jet3b.00100"), "0.5")
	writeSDF(t, filepath.Join(head, "sdf", "jet3b.00200"), "1.5")
	writeSDF(t, filepath.Join(head, "sdf", "jet3b.00300"), "3.0")
	return head
}

// testPipeline returns a Pipeline over head which answers questions from
// answers and writes all messages to out.
func testPipeline(
	t *testing.T, head, answers string, out *bytes.Buffer,
) (*Pipeline, *fakeRunner, *fakeSubmitter) {
	t.Helper()
	dir := t.TempDir()

	raw := DefaultRawArgs()
	raw.Paths.Isotopes = writeText(t, filepath.Join(dir, "isotopes.txt"),
		"44Ti 7Be", "40K")
	raw.Paths.Abundances = writeText(t, filepath.Join(dir, "abundances.txt"),
		"Ti", "44Ti")
	raw.Paths.Executables = "/opt/sn"
	args, err := raw.Process(filepath.Join(dir, "snpost.cfg"), []string{head})
	require.NoError(t, err)
	args.Merge.Units = units.Units{Mass: 1, Length: 1, Time: 1}
	args.Merge.ProgressEvery = 0

	paths, err := simdir.Find(head)
	require.NoError(t, err)

	runner := &fakeRunner{sortQuery: args.Paths.SortQuery}
	sub := &fakeSubmitter{fail: map[string]bool{}}
	return &Pipeline{
		Args:      args,
		Paths:     paths,
		Asker:     NewAsker(strings.NewReader(answers), out, false),
		Runner:    runner,
		Submitter: sub,
		Out:       out,
		Logger:    log.New(out, "", 0),
	}, runner, sub
}
