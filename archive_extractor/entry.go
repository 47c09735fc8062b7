package archive_extractor

// Entry is one extracted item. Paths are forward-slash separated and
// container-relative; for single-file compression formats the path is derived
// from the stream header or the configured source filename. Data is empty for
// directories. Entries are returned in the order the container yields them.
type Entry struct {
	Path  string
	Data  []byte
	IsDir bool
}
