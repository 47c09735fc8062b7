// Package archive_extractor extracts archives and compressed files into an
// in-memory entry list. Supported formats cover multi-file containers (ZIP,
// TAR, AR, DEB, 7-Zip), compressed tar variants and single-file compression
// streams. All extraction is bounded by per-file, total-size and entry-count
// limits so that untrusted input cannot expand without bound.
package archive_extractor

import (
	"bytes"
	"context"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/compression"
)

// Extractor holds the extraction configuration. It is a plain immutable
// value: every With* method returns an updated copy, so a configured
// Extractor can be shared freely across goroutines. Each Extract call
// allocates its own limit state.
type Extractor struct {
	format         ArchiveFormat
	sourceFilename string
	maxFileSize    int64
	maxTotalSize   int64
	maxEntries     int
}

// NewExtractor returns an Extractor with the default safety limits
// (100 MiB per entry, 1 GiB total, unlimited entry count) and no format set.
func NewExtractor() Extractor {
	return Extractor{
		maxFileSize:  DefaultMaxFileSize,
		maxTotalSize: DefaultMaxTotalSize,
	}
}

// WithFormat selects the archive format used by Extract.
func (e Extractor) WithFormat(format ArchiveFormat) Extractor {
	e.format = format
	return e
}

// WithSourceFilename records the name of the file the input bytes came from.
// It is used by WithFormatFromFilename and to derive the output path of
// single-file decompression (e.g. "report.csv.bz2" extracts to "report.csv").
func (e Extractor) WithSourceFilename(name string) Extractor {
	e.sourceFilename = name
	return e
}

// WithFormatFromFilename infers the format from the configured source
// filename. It fails with ErrMissingSourceFilename when no source filename
// has been set, and with ErrUnknownFormat when the extension is not
// recognized.
func (e Extractor) WithFormatFromFilename() (Extractor, error) {
	if e.sourceFilename == "" {
		return e, archiver_errors.ErrMissingSourceFilename
	}
	format, err := FormatFromFilename(e.sourceFilename)
	if err != nil {
		return e, err
	}
	e.format = format
	return e, nil
}

// WithFormatFromBytes infers the format from the magic bytes of data.
func (e Extractor) WithFormatFromBytes(data []byte) (Extractor, error) {
	format, err := FormatFromBytes(data)
	if err != nil {
		return e, err
	}
	e.format = format
	return e, nil
}

// WithMaxFileSize bounds the decompressed size of any single entry.
// A size of zero or below disables the check.
func (e Extractor) WithMaxFileSize(size int64) Extractor {
	e.maxFileSize = size
	return e
}

// WithMaxTotalSize bounds the cumulative decompressed size of the whole
// extraction. A size of zero or below disables the check.
func (e Extractor) WithMaxTotalSize(size int64) Extractor {
	e.maxTotalSize = size
	return e
}

// WithMaxEntries bounds the number of records in the archive, directories
// included. A count of zero or below disables the check.
func (e Extractor) WithMaxEntries(count int) Extractor {
	e.maxEntries = count
	return e
}

// pipeline is the stage list of a format: an optional codec stage feeding an
// optional container stage. Every supported format has exactly one shape:
// container only, codec only, or codec then tar.
type pipeline struct {
	codec     compression.Algorithm
	container containerKind
}

type containerKind int

const (
	containerNone containerKind = iota
	containerZip
	containerTar
	containerAr
	containerSevenZip
)

var pipelines = map[ArchiveFormat]pipeline{
	Zip:      {container: containerZip},
	Tar:      {container: containerTar},
	Ar:       {container: containerAr},
	Deb:      {container: containerAr},
	SevenZip: {container: containerSevenZip},
	TarGz:    {codec: compression.Gzip, container: containerTar},
	TarBz2:   {codec: compression.Bzip2, container: containerTar},
	TarXz:    {codec: compression.XZ, container: containerTar},
	TarZst:   {codec: compression.Zstd, container: containerTar},
	TarLz4:   {codec: compression.LZ4, container: containerTar},
	Gz:       {codec: compression.Gzip},
	Bz2:      {codec: compression.Bzip2},
	Xz:       {codec: compression.XZ},
	Lz4:      {codec: compression.LZ4},
	Zst:      {codec: compression.Zstd},
}

// Extract extracts data using the configured format. It fails with
// ErrMissingFormat when no format was set or inferred.
func (e Extractor) Extract(ctx context.Context, data []byte) ([]Entry, error) {
	if e.format == formatUnset {
		return nil, archiver_errors.ErrMissingFormat
	}
	return e.ExtractWithFormat(ctx, data, e.format)
}

// ExtractWithFormat extracts data as the given format, ignoring any format
// stored in the configuration. The full result is materialized before
// returning; on any error no entries are returned.
func (e Extractor) ExtractWithFormat(ctx context.Context, data []byte, format ArchiveFormat) ([]Entry, error) {
	p, ok := pipelines[format]
	if !ok {
		return nil, archiver_errors.ErrUnknownFormat
	}
	tracker := newLimitTracker(e)

	if p.container == containerNone {
		return e.extractSingleFile(ctx, data, format, p.codec, tracker)
	}

	switch p.container {
	case containerZip:
		return zipArchiver{tracker: tracker}.extract(ctx, data)
	case containerAr:
		return arArchiver{tracker: tracker, format: format}.extract(ctx, data)
	case containerSevenZip:
		return sevenZipArchiver{tracker: tracker}.extract(ctx, data)
	}

	// Tar, possibly behind a codec stage. With a codec stage present the
	// decompressed stream is charged against the total limit as it is
	// produced, so the bomb defense holds even for tar padding the entry
	// loop never touches.
	ta := tarArchiver{tracker: tracker, format: format}
	if p.codec == compression.None {
		return ta.extract(ctx, bytes.NewReader(data))
	}
	cr, err := compression.NewReader(p.codec, bytes.NewReader(data))
	if err != nil {
		return nil, archiver_errors.NewInvalidArchive(format.String(), err)
	}
	defer cr.Close()
	ta.streamCharged = true
	return ta.extract(ctx, tracker.streamReader(cr))
}
