package archive_extractor

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/compression"
	"github.com/archly-io/go-archive-unpack/utils"
)

// defaultEntryName is the output path used when neither the stream header
// nor the source filename provides one.
const defaultEntryName = "data"

var compressionExtensions = map[ArchiveFormat]string{
	Gz:  ".gz",
	Bz2: ".bz2",
	Xz:  ".xz",
	Lz4: ".lz4",
	Zst: ".zst",
}

// extractSingleFile decompresses a single-stream format into exactly one
// file entry. The stream is consumed through the tracker, so an input that
// expands past the limits is rejected mid-stream.
func (e Extractor) extractSingleFile(ctx context.Context, data []byte, format ArchiveFormat,
	algorithm compression.Algorithm, tracker *limitTracker) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cr, err := compression.NewReader(algorithm, bytes.NewReader(data))
	if err != nil {
		return nil, archiver_errors.NewInvalidArchive(format.String(), err)
	}
	defer cr.Close()
	if err := tracker.beginEntry(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, tracker.entryReader(cr, true)); err != nil {
		if archiver_errors.IsLimitExceeded(err) {
			return nil, err
		}
		return nil, archiver_errors.NewInvalidArchive(format.String(), err)
	}
	// A gzip stream may carry the original filename in its header; that name
	// wins over anything derived from the source filename.
	path := e.singleFilePath(format)
	if name := cr.OriginalName(); name != "" {
		path = utils.NormalizePath(name)
	}
	return []Entry{{Path: path, Data: buf.Bytes()}}, nil
}

// singleFilePath derives the output path by stripping the compression
// extension matching format from the source filename. The match is
// case-insensitive but the original casing is kept. Falls back to "data"
// when there is no source filename, the extension does not match, or
// stripping would leave an empty name.
func (e Extractor) singleFilePath(format ArchiveFormat) string {
	ext := compressionExtensions[format]
	if e.sourceFilename == "" || ext == "" {
		return defaultEntryName
	}
	lower := strings.ToLower(e.sourceFilename)
	if !strings.HasSuffix(lower, ext) {
		return defaultEntryName
	}
	stripped := e.sourceFilename[:len(e.sourceFilename)-len(ext)]
	if stripped == "" {
		return defaultEntryName
	}
	return stripped
}
