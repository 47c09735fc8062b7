package archive_extractor

import (
	"archive/tar"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archly-io/go-archive-unpack/archive_extractor/archiver_errors"
)

func tarFixtureEntries() []fixtureEntry {
	return []fixtureEntry{
		{name: "README.md", data: []byte("hello tar")},
		{name: "src/", isDir: true},
		{name: "src/main.go", data: []byte("package main")},
	}
}

func assertTarFixture(t *testing.T, entries []Entry) {
	t.Helper()
	require.Len(t, entries, 3)
	assert.Equal(t, "README.md", entries[0].Path)
	assert.False(t, entries[0].IsDir)
	assert.Equal(t, []byte("hello tar"), entries[0].Data)
	assert.Equal(t, "src/", entries[1].Path)
	assert.True(t, entries[1].IsDir)
	assert.Empty(t, entries[1].Data)
	assert.Equal(t, "src/main.go", entries[2].Path)
	assert.Equal(t, []byte("package main"), entries[2].Data)
}

func TestTarArchiver(t *testing.T) {
	data := makeTar(t, tarFixtureEntries())
	entries, err := NewExtractor().ExtractWithFormat(context.Background(), data, Tar)
	require.NoError(t, err)
	assertTarFixture(t, entries)
}

func TestCompressedTarVariants(t *testing.T) {
	tarData := makeTar(t, tarFixtureEntries())
	variants := []struct {
		format   ArchiveFormat
		compress func(*testing.T, []byte) []byte
	}{
		{TarGz, func(t *testing.T, d []byte) []byte { return gzipCompress(t, "", d) }},
		{TarBz2, bzip2Compress},
		{TarXz, xzCompress},
		{TarZst, zstdCompress},
		{TarLz4, lz4Compress},
	}
	for _, v := range variants {
		t.Run(v.format.String(), func(t *testing.T) {
			entries, err := NewExtractor().ExtractWithFormat(context.Background(), v.compress(t, tarData), v.format)
			require.NoError(t, err)
			assertTarFixture(t, entries)
		})
	}
}

func TestTarMaxFileSize(t *testing.T) {
	data := makeTar(t, []fixtureEntry{{name: "big.bin", data: bytes.Repeat([]byte{0xAB}, 100)}})
	entries, err := NewExtractor().WithMaxFileSize(10).ExtractWithFormat(context.Background(), data, Tar)
	assert.True(t, archiver_errors.IsLimitExceeded(err))
	assert.Nil(t, entries)
}

func TestTarMaxTotalSize(t *testing.T) {
	// Each file is under the per-file limit; only the sum crosses the total.
	data := makeTar(t, []fixtureEntry{
		{name: "a", data: bytes.Repeat([]byte{1}, 40)},
		{name: "b", data: bytes.Repeat([]byte{2}, 40)},
		{name: "c", data: bytes.Repeat([]byte{3}, 40)},
	})
	entries, err := NewExtractor().
		WithMaxFileSize(50).
		WithMaxTotalSize(100).
		ExtractWithFormat(context.Background(), data, Tar)
	var totalErr *archiver_errors.TotalSizeTooLargeError
	require.ErrorAs(t, err, &totalErr)
	assert.Nil(t, entries)
}

func TestTarGzTotalLimitAbortsMidStream(t *testing.T) {
	// A compressed tar is charged as it decompresses; the small total limit
	// trips long before the 256 KiB payload is materialized.
	payload := bytes.Repeat([]byte{0}, 256*1024)
	data := gzipCompress(t, "", makeTar(t, []fixtureEntry{{name: "bomb.bin", data: payload}}))
	entries, err := NewExtractor().
		WithMaxTotalSize(1000).
		ExtractWithFormat(context.Background(), data, TarGz)
	assert.True(t, archiver_errors.IsLimitExceeded(err))
	assert.Nil(t, entries)
}

func TestTarGzPerFileLimit(t *testing.T) {
	payload := bytes.Repeat([]byte{0x55}, 100*1024)
	data := gzipCompress(t, "", makeTar(t, []fixtureEntry{{name: "big.bin", data: payload}}))
	var fileErr *archiver_errors.FileTooLargeError
	_, err := NewExtractor().WithMaxFileSize(1024).ExtractWithFormat(context.Background(), data, TarGz)
	require.ErrorAs(t, err, &fileErr)
}

func TestTarMaxEntries(t *testing.T) {
	data := makeTar(t, tarFixtureEntries())
	_, err := NewExtractor().WithMaxEntries(2).ExtractWithFormat(context.Background(), data, Tar)
	var entriesErr *archiver_errors.TooManyEntriesError
	require.ErrorAs(t, err, &entriesErr)
}

func TestTarSkipsSpecialMembers(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "link",
		Typeflag: tar.TypeSymlink,
		Linkname: "target",
		ModTime:  time.Unix(1700000000, 0),
	}))
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "file.txt",
		Typeflag: tar.TypeReg,
		Size:     4,
		Mode:     0o644,
		ModTime:  time.Unix(1700000000, 0),
	}))
	_, err := tw.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	entries, err := NewExtractor().ExtractWithFormat(context.Background(), buf.Bytes(), Tar)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file.txt", entries[0].Path)
}

func TestTarMalformed(t *testing.T) {
	entries, err := NewExtractor().ExtractWithFormat(context.Background(), bytes.Repeat([]byte{0x42}, 1024), Tar)
	assert.True(t, archiver_errors.IsInvalidArchive(err))
	assert.Nil(t, entries)
}

func TestTarGzMalformedCodec(t *testing.T) {
	// Valid tar bytes presented as tar.gz must fail at the codec stage.
	data := makeTar(t, tarFixtureEntries())
	_, err := NewExtractor().ExtractWithFormat(context.Background(), data, TarGz)
	assert.True(t, archiver_errors.IsInvalidArchive(err))
}
