// Package compression adapts the individual decompression codecs behind one
// reader type. Callers pick an Algorithm; the bit-level work is done by the
// standard library (gzip, bzip2) and by the xz, zstd and lz4 modules.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Algorithm identifies a single-stream compression algorithm.
type Algorithm int

const (
	None Algorithm = iota
	Gzip
	Bzip2
	XZ
	Zstd
	LZ4
)

func (a Algorithm) String() string {
	switch a {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case XZ:
		return "xz"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return "none"
}

var (
	gzipMagic = []byte{0x1F, 0x8B}
	bz2Magic  = []byte{0x42, 0x5A, 0x68}
	xzMagic   = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// DetectAlgorithm sniffs the magic bytes at the start of data. It reports
// false when no supported algorithm matches.
func DetectAlgorithm(data []byte) (Algorithm, bool) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip, true
	case bytes.HasPrefix(data, bz2Magic):
		return Bzip2, true
	case bytes.HasPrefix(data, xzMagic):
		return XZ, true
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd, true
	case bytes.HasPrefix(data, lz4Magic):
		return LZ4, true
	}
	return None, false
}

// Reader decompresses one stream. For gzip the original filename recorded in
// the stream header, if any, is available through OriginalName.
type Reader struct {
	rc   io.ReadCloser
	name string
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.rc.Read(p)
}

func (r *Reader) Close() error {
	return r.rc.Close()
}

// OriginalName returns the filename stored in the compressed stream header,
// or "" when the algorithm does not record one.
func (r *Reader) OriginalName() string {
	return r.name
}

// NewReader returns a Reader decompressing src with the given algorithm.
// Header errors are wrapped in ErrGetReader so callers can tell "the stream
// is not valid input for this codec" apart from mid-stream read failures.
func NewReader(algorithm Algorithm, src io.Reader) (*Reader, error) {
	switch algorithm {
	case Gzip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, &ErrGetReader{err}
		}
		return &Reader{rc: zr, name: zr.Header.Name}, nil
	case Bzip2:
		return &Reader{rc: io.NopCloser(bzip2.NewReader(src))}, nil
	case XZ:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, &ErrGetReader{err}
		}
		return &Reader{rc: io.NopCloser(xr)}, nil
	case Zstd:
		zr, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, &ErrGetReader{err}
		}
		return &Reader{rc: zr.IOReadCloser()}, nil
	case LZ4:
		return &Reader{rc: io.NopCloser(lz4.NewReader(src))}, nil
	}
	return nil, fmt.Errorf("unsupported compression algorithm %q", algorithm)
}

type ErrGetReader struct {
	err error
}

func (e *ErrGetReader) Error() string {
	return e.err.Error()
}

func (e *ErrGetReader) Unwrap() error {
	return e.err
}

func IsGetReaderError(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := e.(*ErrGetReader); ok {
			return true
		}
	}
	return false
}
