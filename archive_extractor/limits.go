package archive_extractor

import (
	"io"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
)

const (
	DefaultMaxFileSize  = 100 * 1024 * 1024  // 100 MiB per entry
	DefaultMaxTotalSize = 1024 * 1024 * 1024 // 1 GiB per extraction
)

// limitTracker enforces the decompression safety limits for one extraction
// call. It keeps a cumulative byte counter, a per-entry byte counter and an
// entry counter, and fails the moment any configured limit is crossed. A
// limit of zero or below disables that check. Counters never decrease; the
// per-entry counter is reset at each record boundary via beginEntry.
//
// Charging happens at Read granularity through the wrapper readers below, so
// a hostile stream is rejected before its output is fully materialized.
type limitTracker struct {
	maxFileSize  int64
	maxTotalSize int64
	maxEntries   int

	total   int64
	entry   int64
	entries int
}

func newLimitTracker(e Extractor) *limitTracker {
	return &limitTracker{
		maxFileSize:  e.maxFileSize,
		maxTotalSize: e.maxTotalSize,
		maxEntries:   e.maxEntries,
	}
}

// beginEntry starts a new record: resets the per-entry counter and checks the
// entry count limit.
func (t *limitTracker) beginEntry() error {
	t.entries++
	t.entry = 0
	if t.maxEntries > 0 && t.entries > t.maxEntries {
		return &archiver_errors.TooManyEntriesError{Limit: t.maxEntries}
	}
	return nil
}

// charge accounts n decompressed bytes to the current entry and, when
// countTotal is set, to the cumulative total.
func (t *limitTracker) charge(n int64, countTotal bool) error {
	t.entry += n
	if countTotal {
		if err := t.chargeTotal(n); err != nil {
			return err
		}
	}
	if t.maxFileSize > 0 && t.entry > t.maxFileSize {
		return &archiver_errors.FileTooLargeError{Size: t.entry, Limit: t.maxFileSize}
	}
	return nil
}

// chargeTotal accounts n decompressed bytes to the cumulative total only.
// Used at the codec boundary of compressed-tar pipelines, where every
// decompressed byte (headers and padding included) passes exactly once.
func (t *limitTracker) chargeTotal(n int64) error {
	t.total += n
	if t.maxTotalSize > 0 && t.total > t.maxTotalSize {
		return &archiver_errors.TotalSizeTooLargeError{Size: t.total, Limit: t.maxTotalSize}
	}
	return nil
}

// checkDeclared fast-rejects an entry whose container-declared size already
// exceeds the per-file limit. Declared sizes can lie, so the charged read
// stays authoritative.
func (t *limitTracker) checkDeclared(size int64) error {
	if t.maxFileSize > 0 && size > t.maxFileSize {
		return &archiver_errors.FileTooLargeError{Size: size, Limit: t.maxFileSize}
	}
	return nil
}

// entryReader wraps an entry payload stream so that every byte read is
// charged before it reaches the caller. countTotal is false when the bytes
// were already counted by a streamReader further down the pipeline.
func (t *limitTracker) entryReader(r io.Reader, countTotal bool) io.Reader {
	return &chargingReader{r: r, tracker: t, countTotal: countTotal}
}

type chargingReader struct {
	r          io.Reader
	tracker    *limitTracker
	countTotal bool
}

func (cr *chargingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		if chargeErr := cr.tracker.charge(int64(n), cr.countTotal); chargeErr != nil {
			return n, chargeErr
		}
	}
	return n, err
}

// streamReader wraps a decompression stream so that all of its output counts
// against the cumulative limit as it is produced.
func (t *limitTracker) streamReader(r io.Reader) io.Reader {
	return &streamChargingReader{r: r, tracker: t}
}

type streamChargingReader struct {
	r       io.Reader
	tracker *limitTracker
}

func (sr *streamChargingReader) Read(p []byte) (int, error) {
	n, err := sr.r.Read(p)
	if n > 0 {
		if chargeErr := sr.tracker.chargeTotal(int64(n)); chargeErr != nil {
			return n, chargeErr
		}
	}
	return n, err
}
