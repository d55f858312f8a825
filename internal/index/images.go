package index

import (
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".svg":  {},
}

// IsImagePath reports whether the path carries one of the indexed image
// extensions.
func IsImagePath(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// enumerateImages walks the home directory collecting image files until the
// cap is reached. The cap is a hard stop on discovery order, not a ranking:
// the first MaxImages found are kept.
func enumerateImages(opts Options) []Entry {
	if opts.Home == "" {
		return nil
	}

	entries := make([]Entry, 0, 256)
	_ = filepath.WalkDir(opts.Home, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != opts.Home && isHiddenName(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if isHiddenName(d.Name()) || !IsImagePath(path) {
			return nil
		}
		entries = append(entries, Entry{
			Name:        norm.NFC.String(d.Name()),
			Exec:        path,
			Icon:        path,
			Description: path,
			Kind:        KindImage,
		})
		if len(entries) >= opts.MaxImages {
			return fs.SkipAll
		}
		return nil
	})
	return entries
}
