//go:build !windows

package index

import "strings"

// isHiddenName reports whether a directory entry should be skipped during
// enumeration. On Unix-like platforms a leading dot marks hidden files.
func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
