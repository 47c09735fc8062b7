package utils

import (
	"strings"
)

const (
	FolderSuffix string = "/"
)

func IsFolder(path string) bool {
	return strings.HasSuffix(path, FolderSuffix)
}

// NormalizePath rewrites platform-specific separators to forward slashes.
// Archives written on Windows occasionally store entry names with
// backslashes; entry paths returned to callers are always Unix-slashed.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// TrimArMemberName strips the padding and the GNU-style trailing slash from
// an ar member identifier. Member names in the common ar variants are either
// space-padded (BSD) or terminated with a '/' (GNU/SysV).
func TrimArMemberName(name string) string {
	return strings.TrimSuffix(strings.TrimRight(name, " "), "/")
}
