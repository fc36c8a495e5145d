/*package compress handles the on-disk compression of particle files. Entropy
outfiles and sorted burn_query outfiles are large, mostly-redundant text, so
they are often stored with zstd. Any path ending in Ext is transparently
compressed on write and decompressed on read; every other path is plain text.
*/
package compress

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
)

const (
	// Ext is the file extension which marks a zstd-compressed file.
	Ext = ".zst"
	// Level is the zstd compression level used when writing.
	Level = 1

	bufSize = 1 << 16
)

// IsCompressed returns true if the file name marks a zstd-compressed file.
func IsCompressed(fname string) bool {
	return strings.HasSuffix(fname, Ext)
}

// TrimExt removes the compression extension from a file name, if it has one.
func TrimExt(fname string) string {
	return strings.TrimSuffix(fname, Ext)
}

// readCloser closes the decompressor and then the underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a file for reading, decompressing it if its name ends in Ext.
func Open(fname string) (io.ReadCloser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	return NewReader(f, IsCompressed(fname)), nil
}

// NewReader wraps rd so that closing the result also closes rd. If
// compressed is true, the stream is decompressed.
func NewReader(rd io.ReadCloser, compressed bool) io.ReadCloser {
	if !compressed {
		return &readCloser{bufio.NewReaderSize(rd, bufSize), []io.Closer{rd}}
	}
	zr := zstd.NewReader(rd)
	return &readCloser{bufio.NewReaderSize(zr, bufSize), []io.Closer{zr, rd}}
}

// writeCloser flushes its buffer and compressor before closing the file.
type writeCloser struct {
	buf *bufio.Writer
	zw  *zstd.Writer
	f   io.WriteCloser
}

func (wc *writeCloser) Write(p []byte) (int, error) { return wc.buf.Write(p) }

func (wc *writeCloser) Close() error {
	err := wc.buf.Flush()
	if wc.zw != nil {
		if zErr := wc.zw.Close(); err == nil {
			err = zErr
		}
	}
	if fErr := wc.f.Close(); err == nil {
		err = fErr
	}
	return err
}

// Create creates (or truncates) a file for writing, compressing it if its
// name ends in Ext. The file is only complete once Close returns nil.
func Create(fname string) (io.WriteCloser, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	return NewWriter(f, IsCompressed(fname)), nil
}

// NewWriter wraps wr in a buffered writer which is optionally compressed.
// Closing the result closes wr.
func NewWriter(wr io.WriteCloser, compressed bool) io.WriteCloser {
	if !compressed {
		return &writeCloser{buf: bufio.NewWriterSize(wr, bufSize), f: wr}
	}
	zw := zstd.NewWriterLevel(wr, Level)
	return &writeCloser{buf: bufio.NewWriterSize(zw, bufSize), zw: zw, f: wr}
}
