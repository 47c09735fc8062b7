package archive_extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/utils"
)

type zipArchiver struct {
	tracker *limitTracker
}

// General purpose bit 0 of a local file header marks an encrypted entry.
const zipEncryptedFlag = 0x1

func (za zipArchiver) extract(ctx context.Context, data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, archiver_errors.NewInvalidArchive(Zip.String(), err)
	}
	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := za.tracker.beginEntry(); err != nil {
			return nil, err
		}
		name := utils.NormalizePath(f.Name)
		if f.FileInfo().IsDir() || utils.IsFolder(name) {
			entries = append(entries, Entry{Path: name, IsDir: true})
			continue
		}
		if f.Flags&zipEncryptedFlag != 0 {
			return nil, archiver_errors.NewUnsupportedFeature(Zip.String(), "encrypted entry "+name)
		}
		if err := za.tracker.checkDeclared(int64(f.UncompressedSize64)); err != nil {
			return nil, err
		}
		rc, err := f.Open()
		if err != nil {
			return nil, classifyZipError(err)
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, za.tracker.entryReader(rc, true))
		rc.Close()
		if err != nil {
			if archiver_errors.IsLimitExceeded(err) {
				return nil, err
			}
			return nil, classifyZipError(err)
		}
		entries = append(entries, Entry{Path: name, Data: buf.Bytes()})
	}
	return entries, nil
}

// zip.ErrAlgorithm means a structurally valid entry with a compression
// method archive/zip has no decompressor for; everything else is a broken
// archive.
func classifyZipError(err error) error {
	if errors.Is(err, zip.ErrAlgorithm) {
		return archiver_errors.NewUnsupportedFeature(Zip.String(), err.Error())
	}
	return archiver_errors.NewInvalidArchive(Zip.String(), err)
}
