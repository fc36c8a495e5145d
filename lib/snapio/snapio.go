/*package snapio finds and inspects the SDF snapshot files written by SNSPH.
SDF files are identified by their purely numeric extensions (e.g.
"jet3b.00120"). Each one starts with an ASCII header which declares the
snapshot's time as a line of the form

   float tpos = 0.25;

Only the start of the file is ever read, so even multi-gigabyte snapshots are
cheap to inspect.
*/
package snapio

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/phil-mansfield/snpost/lib/format"
)

const (
	// HeaderScanSize is the number of bytes searched for the tpos line.
	HeaderScanSize = 10 * 1000
	// OutExt is appended to an SDF file name to get the name of its entropy
	// output.
	OutExt = ".out"
)

var tposPattern = regexp.MustCompile(`(?m)^float tpos = ([-+0-9.eE]+);$`)

// ReadTpos returns the value of tpos declared in the header of an SDF file.
func ReadTpos(fname string) (float64, error) {
	f, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	n := HeaderScanSize
	if info.Size() < int64(n) {
		n = int(info.Size())
	}
	if n == 0 {
		return 0, fmt.Errorf("SDF file %s is empty.", fname)
	}

	m, err := mmap.MapRegion(f, n, mmap.RDONLY, 0, 0)
	if err != nil {
		return 0, err
	}
	defer m.Unmap()

	match := tposPattern.FindSubmatch(m)
	if match == nil {
		return 0, fmt.Errorf("No tpos value found in the first %d bytes of "+
			"SDF file %s.", n, fname)
	}
	tpos, err := strconv.ParseFloat(string(match[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("Could not parse tpos value '%s' in SDF file "+
			"%s.", match[1], fname)
	}
	return tpos, nil
}

// Ext returns the numeric extension of an SDF file name. ok is false if the
// extension isn't purely numeric.
func Ext(fname string) (ext int, ok bool) {
	s := filepath.Ext(fname)
	if len(s) < 2 {
		return 0, false
	}
	s = s[1:]
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	ext, err := strconv.Atoi(s)
	return ext, err == nil
}

// Snapshot is a single SDF file.
type Snapshot struct {
	// Name is the base name of the file.
	Name string
	Ext  int
	Tpos float64
}

// OutName returns the name of the entropy output for the snapshot.
func (s Snapshot) OutName() string { return s.Name + OutExt }

// List returns every SDF file in dir whose extension isn't in skip, sorted by
// tpos. Files with equal tpos are sorted by name.
func List(dir string, skip format.Set) ([]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	snaps := []Snapshot{}
	for _, e := range entries {
		ext, ok := Ext(e.Name())
		if e.IsDir() || !ok || skip.Contains(ext) {
			continue
		}
		tpos, err := ReadTpos(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, Snapshot{e.Name(), ext, tpos})
	}

	// os.ReadDir sorts by name, so a stable sort breaks ties by name.
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Tpos < snaps[j].Tpos
	})
	return snaps, nil
}

// Mode specifies which snapshots Select returns.
type Mode int

const (
	// All selects the Early snapshots plus the final snapshot.
	All Mode = iota
	// First selects the snapshot with the lowest tpos.
	First
	// Last selects the snapshot with the highest tpos.
	Last
	// Early selects every snapshot up to and including the first one with
	// tpos >= tposMax.
	Early
)

var modeNames = []string{"all", "first", "last", "early"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for i := range modeNames {
		if strings.EqualFold(s, modeNames[i]) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("Unknown SDF selection mode '%s'. Valid modes "+
		"are %s.", s, strings.Join(modeNames, ", "))
}

// Select returns the snapshots selected by mode from snaps, which must be
// sorted by tpos. If every snapshot has tpos < tposMax, Early selects them
// all.
func Select(snaps []Snapshot, mode Mode, tposMax float64) ([]Snapshot, error) {
	if len(snaps) == 0 {
		return nil, fmt.Errorf("No SDF files to select from.")
	}

	switch mode {
	case First:
		return snaps[:1], nil
	case Last:
		return snaps[len(snaps)-1:], nil
	case Early, All:
	default:
		return nil, fmt.Errorf("Unknown SDF selection mode %d.", int(mode))
	}

	i := 0
	for i < len(snaps)-1 && snaps[i].Tpos < tposMax {
		i++
	}
	selected := append([]Snapshot{}, snaps[:i+1]...)
	if mode == All && len(snaps) > i+1 {
		selected = append(selected, snaps[len(snaps)-1])
	}
	return selected, nil
}

// Paths joins dir onto the name of each snapshot, optionally using the name of
// its entropy output instead.
func Paths(dir string, snaps []Snapshot, out bool) []string {
	paths := make([]string, len(snaps))
	for i, s := range snaps {
		if out {
			paths[i] = filepath.Join(dir, s.OutName())
		} else {
			paths[i] = filepath.Join(dir, s.Name)
		}
	}
	return paths
}
