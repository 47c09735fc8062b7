package archive_extractor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/mholt/archives"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/utils"
)

// sevenZipArchiver wraps the 7z extraction of mholt/archives. Encrypted
// archives and exotic coder chains are not implemented there and surface as
// UnsupportedFeatureError.
type sevenZipArchiver struct {
	tracker *limitTracker
}

func (sa sevenZipArchiver) extract(ctx context.Context, data []byte) ([]Entry, error) {
	var entries []Entry
	err := archives.SevenZip{}.Extract(ctx, bytes.NewReader(data), func(ctx context.Context, f archives.FileInfo) error {
		if err := sa.tracker.beginEntry(); err != nil {
			return err
		}
		name := utils.NormalizePath(f.NameInArchive)
		if f.IsDir() {
			entries = append(entries, Entry{Path: name, IsDir: true})
			return nil
		}
		if err := sa.tracker.checkDeclared(f.Size()); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, sa.tracker.entryReader(rc, true)); err != nil {
			return err
		}
		entries = append(entries, Entry{Path: name, Data: buf.Bytes()})
		return nil
	})
	if err != nil {
		switch {
		case archiver_errors.IsLimitExceeded(err):
			return nil, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case isSevenZipUnsupported(err):
			return nil, archiver_errors.NewUnsupportedFeature(SevenZip.String(), err.Error())
		}
		return nil, archiver_errors.NewInvalidArchive(SevenZip.String(), err)
	}
	return entries, nil
}

// bodgit/sevenzip (behind archives.SevenZip) reports encryption and unknown
// coder methods through error text only; there are no exported sentinels to
// match on.
func isSevenZipUnsupported(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "unsupported")
}
