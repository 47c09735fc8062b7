package archive_extractor

import (
	"bytes"
	"strings"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
	"github.com/archly-io/go-archive-unpack/compression"
)

// ArchiveFormat identifies a supported archive or compression format.
// The zero value means "not set".
type ArchiveFormat int

const (
	formatUnset ArchiveFormat = iota
	// Multi-file containers.
	Zip
	Tar
	Ar
	// Deb packages are ar archives; the distinct tag exists for callers that
	// care which one they asked for.
	Deb
	SevenZip
	// Compressed tar variants.
	TarGz
	TarBz2
	TarXz
	TarZst
	TarLz4
	// Single-file compression formats.
	Gz
	Bz2
	Xz
	Lz4
	Zst
)

func (f ArchiveFormat) String() string {
	switch f {
	case Zip:
		return "ZIP"
	case Tar:
		return "TAR"
	case Ar:
		return "AR"
	case Deb:
		return "DEB"
	case SevenZip:
		return "7Z"
	case TarGz:
		return "TAR.GZ"
	case TarBz2:
		return "TAR.BZ2"
	case TarXz:
		return "TAR.XZ"
	case TarZst:
		return "TAR.ZST"
	case TarLz4:
		return "TAR.LZ4"
	case Gz:
		return "GZIP"
	case Bz2:
		return "BZIP2"
	case Xz:
		return "XZ"
	case Lz4:
		return "LZ4"
	case Zst:
		return "ZSTD"
	}
	return "UNKNOWN"
}

// Multi-part extensions, matched before single extensions.
var multiPartExtensions = []struct {
	suffix string
	format ArchiveFormat
}{
	{".tar.gz", TarGz},
	{".tar.bz2", TarBz2},
	{".tar.xz", TarXz},
	{".tar.zst", TarZst},
	{".tar.lz4", TarLz4},
}

var singleExtensions = map[string]ArchiveFormat{
	"zip":  Zip,
	"tar":  Tar,
	"ar":   Ar,
	"deb":  Deb,
	"7z":   SevenZip,
	"tgz":  TarGz,
	"tbz2": TarBz2,
	"txz":  TarXz,
	"gz":   Gz,
	"bz2":  Bz2,
	"xz":   Xz,
	"lz4":  Lz4,
	"zst":  Zst,
}

// FormatFromFilename derives the archive format from a filename extension.
// Matching is case-insensitive and prefers the longest known multi-part
// extension, so "backup.tar.gz" resolves to TarGz rather than Gz.
func FormatFromFilename(name string) (ArchiveFormat, error) {
	lower := strings.ToLower(name)
	for _, multi := range multiPartExtensions {
		if strings.HasSuffix(lower, multi.suffix) {
			return multi.format, nil
		}
	}
	if dot := strings.LastIndex(lower, "."); dot >= 0 {
		if format, ok := singleExtensions[lower[dot+1:]]; ok {
			return format, nil
		}
	}
	return formatUnset, archiver_errors.ErrUnknownFormat
}

var (
	zipMagic      = []byte{'P', 'K', 0x03, 0x04}
	zipEmptyMagic = []byte{'P', 'K', 0x05, 0x06}
	sevenZipMagic = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	arMagic       = []byte("!<arch>\n")
	tarMagic      = []byte("ustar")
)

const tarMagicOffset = 257

// FormatFromBytes sniffs the format from the leading bytes of data. Only the
// outermost layer is identified: a gzip-compressed tar reports Gz, and a deb
// package reports Ar, since neither is distinguishable without decompressing
// or parsing members.
func FormatFromBytes(data []byte) (ArchiveFormat, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, zipEmptyMagic):
		return Zip, nil
	case bytes.HasPrefix(data, sevenZipMagic):
		return SevenZip, nil
	case bytes.HasPrefix(data, arMagic):
		return Ar, nil
	}
	if alg, ok := compression.DetectAlgorithm(data); ok {
		switch alg {
		case compression.Gzip:
			return Gz, nil
		case compression.Bzip2:
			return Bz2, nil
		case compression.XZ:
			return Xz, nil
		case compression.Zstd:
			return Zst, nil
		case compression.LZ4:
			return Lz4, nil
		}
	}
	if len(data) >= tarMagicOffset+len(tarMagic) &&
		bytes.Equal(data[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic) {
		return Tar, nil
	}
	return formatUnset, archiver_errors.ErrUnknownFormat
}
