// Package archiver_errors defines the error taxonomy shared by all
// extractors. Every failure is returned as a value; nothing panics.
package archiver_errors

import (
	"errors"
	"fmt"
)

// Recoverable configuration errors. The caller can retry after supplying
// the missing piece.
var (
	ErrUnknownFormat         = errors.New("unknown archive format")
	ErrMissingFormat         = errors.New("no archive format configured")
	ErrMissingSourceFilename = errors.New("source filename is not set")
)

// InvalidArchiveError reports input the selected codec or container rejected
// as structurally invalid (bad magic, truncated header, checksum mismatch).
type InvalidArchiveError struct {
	Format string
	Err    error
}

func NewInvalidArchive(format string, err error) *InvalidArchiveError {
	return &InvalidArchiveError{Format: format, Err: err}
}

func (e *InvalidArchiveError) Error() string {
	return fmt.Sprintf("invalid %s archive: %s", e.Format, e.Err.Error())
}

func (e *InvalidArchiveError) Unwrap() error {
	return e.Err
}

// FileTooLargeError reports a single entry whose decompressed size exceeded
// the per-file limit. Size holds the number of bytes observed when the limit
// was crossed, not the full entry size, since extraction aborts mid-stream.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("entry size %d exceeds the per-file limit of %d bytes", e.Size, e.Limit)
}

// TotalSizeTooLargeError reports that the cumulative decompressed size of the
// archive exceeded the total limit.
type TotalSizeTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TotalSizeTooLargeError) Error() string {
	return fmt.Sprintf("total extracted size %d exceeds the limit of %d bytes", e.Size, e.Limit)
}

// TooManyEntriesError reports an archive with more entries than the
// configured maximum.
type TooManyEntriesError struct {
	Limit int
}

func (e *TooManyEntriesError) Error() string {
	return fmt.Sprintf("archive has too many entries, limit is %d", e.Limit)
}

// UnsupportedFeatureError reports a structurally valid archive that uses a
// variant this library does not implement, such as an encrypted ZIP entry.
type UnsupportedFeatureError struct {
	Format  string
	Feature string
}

func NewUnsupportedFeature(format, feature string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Format: format, Feature: feature}
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s: unsupported feature: %s", e.Format, e.Feature)
}

// IsLimitExceeded reports whether err was caused by a safety limit: per-file
// size, total size or entry count.
func IsLimitExceeded(err error) bool {
	var fileErr *FileTooLargeError
	var totalErr *TotalSizeTooLargeError
	var entriesErr *TooManyEntriesError
	return errors.As(err, &fileErr) || errors.As(err, &totalErr) || errors.As(err, &entriesErr)
}

// IsInvalidArchive reports whether err was caused by malformed input.
func IsInvalidArchive(err error) bool {
	var invalidErr *InvalidArchiveError
	return errors.As(err, &invalidErr)
}

// IsUnsupportedFeature reports whether err was caused by an unimplemented
// format variant.
func IsUnsupportedFeature(err error) bool {
	var featureErr *UnsupportedFeatureError
	return errors.As(err, &featureErr)
}
