package index

import (
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// wellKnownFolders are the home subdirectories the folder bucket is seeded
// from. Roots that do not exist are silently skipped.
var wellKnownFolders = []string{
	"Desktop",
	"Documents",
	"Downloads",
	"Music",
	"Pictures",
	"Videos",
	"Public",
	"Projects",
}

func enumerateFolders(opts Options) []Entry {
	if opts.Home == "" {
		return nil
	}

	var entries []Entry
	for _, name := range wellKnownFolders {
		root := filepath.Join(opts.Home, name)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		entries = append(entries, folderEntry(name, root))
		entries = appendSubfolders(entries, root, opts.FolderDepth)
	}
	return entries
}

// appendSubfolders walks directories below root up to the remaining depth.
// IO errors on individual directories skip that subtree only.
func appendSubfolders(entries []Entry, root string, depth int) []Entry {
	if depth <= 0 {
		return entries
	}
	children, err := os.ReadDir(root)
	if err != nil {
		return entries
	}
	for _, child := range children {
		if !child.IsDir() || isHiddenName(child.Name()) {
			continue
		}
		full := filepath.Join(root, child.Name())
		entries = append(entries, folderEntry(child.Name(), full))
		entries = appendSubfolders(entries, full, depth-1)
	}
	return entries
}

func folderEntry(name, full string) Entry {
	return Entry{
		Name:        norm.NFC.String(name),
		Exec:        full,
		Description: full,
		Kind:        KindFolder,
	}
}
