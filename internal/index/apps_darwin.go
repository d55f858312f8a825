//go:build darwin

package index

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// platformApps enumerates .app bundles from the standard install locations.
// The display name is taken from the bundle directory stem; reading
// Info.plist display names would need a plist decoder and the stem is what
// Finder shows for almost every bundle anyway.
func platformApps(opts Options) []Entry {
	var apps []Entry
	for _, dir := range bundleDirs(opts.Home) {
		children, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, child := range children {
			name := child.Name()
			if !strings.HasSuffix(name, ".app") {
				continue
			}
			full := filepath.Join(dir, name)
			apps = append(apps, Entry{
				Name:        norm.NFC.String(strings.TrimSuffix(name, ".app")),
				Exec:        full,
				Description: full,
				Kind:        KindApp,
			})
		}
	}
	return apps
}

func bundleDirs(home string) []string {
	dirs := []string{
		"/Applications",
		"/System/Applications",
		"/System/Applications/Utilities",
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}
	return dirs
}
