//go:build windows

package index

import "strings"

// isHiddenName reports whether a directory entry should be skipped during
// enumeration. Dot-prefixed names are treated as hidden on Windows too,
// which covers the common tool directories (.git, .cache) without a
// per-entry attribute syscall on the enumeration path.
func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
