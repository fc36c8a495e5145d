/*package catio reads the line-oriented particle files produced by the entropy
and burn_query executables and by the merge itself. Every data line starts
with an integer particle ID, lines are sorted by that ID, and fields are
separated by a fixed string (", " by default). Lines whose first field isn't
an ID are headers which name the columns.

Reader turns one such file into a stream which can be addressed by particle
ID: callers ask for IDs in increasing order and get either the matching
record or an explicit "absent" signal.
*/
package catio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/phil-mansfield/snpost/lib/compress"
	"github.com/phil-mansfield/snpost/lib/eq"
)

// TextConfig contains information neccessary for parsing particle files.
type TextConfig struct {
	// Separator is the string used to separate fields.
	Separator string
	// SpecialAlignment marks files whose IDs may jump ahead of the caller or
	// go backwards. Records below a requested ID are silently discarded
	// instead of causing an error.
	SpecialAlignment bool
	// MaxLineSize is the largest possible line size.
	MaxLineSize int
	// Warnf reports non-fatal problems. log.Printf is used if nil.
	Warnf func(format string, a ...interface{})
}

// DefaultConfig is a TextConfig which can read entropy and burn_query
// outfiles.
var DefaultConfig = TextConfig{
	Separator:   ", ",
	MaxLineSize: 1 << 20,
}

// Reader is a key-addressable stream over one sorted particle file. Readers
// are not safe for concurrent use.
type Reader struct {
	name   string
	config TextConfig
	closer io.Closer
	sc     *bufio.Scanner

	next      Record // valid unless exhausted
	prev      int64  // last ID read from the file
	floor     int64  // lowest ID which has not been yielded
	exhausted bool
	closed    bool
	err       error // sticky fatal error

	header  []string
	columns map[string]int
}

var errClosed = errors.New("catio: read from closed Reader")

// Open opens the named file (decompressing it if it ends in compress.Ext)
// and buffers its first record.
//
// If the file has neither a header nor a record, Open returns a usable,
// exhausted Reader along with a *FormatError. Any other error means the
// Reader is nil and the file has been closed.
func Open(fname string, config ...TextConfig) (*Reader, error) {
	rc, err := compress.Open(fname)
	if err != nil {
		return nil, err
	}
	return NewReader(fname, rc, config...)
}

// NewReader creates a Reader over rd. name is only used in messages. If rd is
// an io.Closer, Close will close it. See Open for the returned errors.
func NewReader(
	name string, rd io.Reader, config ...TextConfig,
) (*Reader, error) {
	r := &Reader{name: name, config: DefaultConfig, prev: -1}
	if len(config) > 0 {
		r.config = config[0]
	}
	if r.config.Separator == "" {
		r.config.Separator = DefaultConfig.Separator
	}
	if r.config.MaxLineSize <= 0 {
		r.config.MaxLineSize = DefaultConfig.MaxLineSize
	}
	if r.config.Warnf == nil {
		r.config.Warnf = log.Printf
	}
	if c, ok := rd.(io.Closer); ok {
		r.closer = c
	}

	r.sc = bufio.NewScanner(rd)
	r.sc.Buffer(make([]byte, 0, 4096), r.config.MaxLineSize)

	if err := r.advance(); err != nil {
		r.Close()
		return nil, err
	}
	if r.exhausted && r.header == nil {
		return r, &FormatError{Name: name}
	}
	return r, nil
}

// Name returns the name the Reader was opened with.
func (r *Reader) Name() string { return r.name }

// SpecialAlignment returns true if the Reader discards records that fall
// behind the requested ID.
func (r *Reader) SpecialAlignment() bool { return r.config.SpecialAlignment }

// advance reads lines until the next data record is buffered or the file
// runs out. Header lines found along the way are captured or checked.
func (r *Reader) advance() error {
	for r.sc.Scan() {
		line := ClassifyLine(r.sc.Text(), r.config.Separator)

		switch line.Kind {
		case Blank:
			continue
		case HeaderLine:
			if err := r.setHeader(line.Fields); err != nil {
				return err
			}
		case DataRecord:
			if line.ID <= r.prev && !r.config.SpecialAlignment {
				return &OutOfOrderError{Name: r.name, Prev: r.prev, ID: line.ID}
			}
			r.prev = line.ID
			r.next = Record{ID: line.ID, Fields: line.Fields}
			return nil
		}
	}

	if err := r.sc.Err(); err != nil {
		return fmt.Errorf("could not read file %s: %w", r.name, err)
	}
	r.exhausted = true
	r.next = Record{}
	return nil
}

func (r *Reader) setHeader(fields []string) error {
	if r.header == nil {
		r.header = fields
		r.columns = make(map[string]int, len(fields))
		for i, name := range fields {
			if _, ok := r.columns[name]; !ok {
				r.columns[name] = i
			}
		}
		return nil
	}

	if !eq.Strings(r.header, fields) {
		return &HeaderMismatchError{
			Name: r.name, Header: r.header, Repeat: fields,
		}
	}
	r.config.Warnf("Warning: repeated header in file %s", r.name)
	return nil
}

func (r *Reader) fail(err error) (Record, bool, error) {
	r.err = err
	return Record{}, false, err
}

// Fetch returns the record with the given ID and advances past it. If the
// file has no such record, ok is false and nothing is consumed. IDs must be
// requested in increasing order: asking for an ID below the lowest
// unconsumed one, or skipping past a buffered record, is an error unless the
// Reader has SpecialAlignment set. All errors are fatal and are returned
// again by every later call.
func (r *Reader) Fetch(id int64) (rec Record, ok bool, err error) {
	if r.err != nil {
		return Record{}, false, r.err
	} else if r.closed {
		return Record{}, false, errClosed
	}

	if id < r.floor {
		if r.config.SpecialAlignment {
			return Record{}, false, nil
		}
		return r.fail(&OutOfOrderError{
			Name: r.name, Prev: r.floor - 1, ID: id, Requested: true,
		})
	}

	if r.config.SpecialAlignment {
		// Bounded by the number of lines left in the file.
		for !r.exhausted && r.next.ID < id {
			if err := r.advance(); err != nil {
				return r.fail(err)
			}
		}
	}

	if r.exhausted || r.next.ID > id {
		return Record{}, false, nil
	} else if r.next.ID < id {
		return r.fail(&UnexpectedAheadError{
			Name: r.name, ID: id, Next: r.next.ID,
		})
	}

	rec = r.next
	r.floor = id + 1
	if err := r.advance(); err != nil {
		return r.fail(err)
	}
	return rec, true, nil
}

// Next returns the next record regardless of its ID. ok is false once the
// file is exhausted.
func (r *Reader) Next() (rec Record, ok bool, err error) {
	if r.err != nil {
		return Record{}, false, r.err
	} else if r.closed {
		return Record{}, false, errClosed
	} else if r.exhausted {
		return Record{}, false, nil
	}
	return r.Fetch(r.next.ID)
}

// Header returns the captured header, or nil if there isn't one yet.
func (r *Reader) Header() []string { return r.header }

// FindColumn returns the index of the named column in the header.
func (r *Reader) FindColumn(name string) (int, error) {
	if r.header == nil {
		return -1, &NoHeaderError{Name: r.name, Column: name}
	}
	idx, ok := r.columns[name]
	if !ok {
		return -1, &MissingColumnError{
			Name: r.name, Column: name, Header: r.header,
		}
	}
	return idx, nil
}

// Exhausted returns true once the end of the file has been reached and no
// buffered record remains.
func (r *Reader) Exhausted() bool { return r.exhausted || r.closed }

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
