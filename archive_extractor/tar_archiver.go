package archive_extractor

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/utils"
)

// tarArchiver iterates tar records from a raw or decompressed stream.
// streamCharged marks that the input reader already charges the total
// counter (compressed-tar pipelines), in which case payload reads charge
// only the per-entry counter so nothing is counted twice.
type tarArchiver struct {
	tracker       *limitTracker
	format        ArchiveFormat
	streamCharged bool
}

func (ta tarArchiver) extract(ctx context.Context, r io.Reader) ([]Entry, error) {
	tr := tar.NewReader(r)
	var entries []Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if archiver_errors.IsLimitExceeded(err) {
				return nil, err
			}
			return nil, archiver_errors.NewInvalidArchive(ta.format.String(), err)
		}
		if err := ta.tracker.beginEntry(); err != nil {
			return nil, err
		}
		name := utils.NormalizePath(hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			entries = append(entries, Entry{Path: name, IsDir: true})
		case tar.TypeReg:
			if err := ta.tracker.checkDeclared(hdr.Size); err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, ta.tracker.entryReader(tr, !ta.streamCharged)); err != nil {
				if archiver_errors.IsLimitExceeded(err) {
					return nil, err
				}
				return nil, archiver_errors.NewInvalidArchive(ta.format.String(), err)
			}
			entries = append(entries, Entry{Path: name, Data: buf.Bytes()})
		default:
			// Symlinks, devices and other special members have no place in
			// the file/directory result model.
		}
	}
	return entries, nil
}
