package archive_extractor

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/blakesmith/ar"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/utils"
)

// arArchiver handles both plain ar archives and deb packages; a deb is an ar
// archive with a conventional member layout, so the format tag only affects
// error reporting. ar has no directory concept, every member is a file.
type arArchiver struct {
	tracker *limitTracker
	format  ArchiveFormat
}

func (aa arArchiver) extract(ctx context.Context, data []byte) ([]Entry, error) {
	rdr := ar.NewReader(bytes.NewReader(data))
	var entries []Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := rdr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, archiver_errors.NewInvalidArchive(aa.format.String(), err)
		}
		if err := aa.tracker.beginEntry(); err != nil {
			return nil, err
		}
		if err := aa.tracker.checkDeclared(hdr.Size); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, aa.tracker.entryReader(rdr, true)); err != nil {
			if archiver_errors.IsLimitExceeded(err) {
				return nil, err
			}
			return nil, archiver_errors.NewInvalidArchive(aa.format.String(), err)
		}
		entries = append(entries, Entry{Path: utils.TrimArMemberName(hdr.Name), Data: buf.Bytes()})
	}
	return entries, nil
}
