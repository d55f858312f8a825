//go:build linux

package index

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// platformApps enumerates freedesktop desktop entries from the standard XDG
// data directories. Exec field codes (%u, %F, ...) are kept verbatim here;
// they are stripped at launch time.
func platformApps(opts Options) []Entry {
	var apps []Entry
	for _, dir := range applicationDirs(opts.Home) {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".desktop") {
				continue
			}
			entry, ok := parseDesktopFile(filepath.Join(dir, file.Name()))
			if ok {
				apps = append(apps, entry)
			}
		}
	}
	return apps
}

func applicationDirs(home string) []string {
	dirs := []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
		"/var/lib/flatpak/exports/share/applications",
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" && home != "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}
	return dirs
}

// parseDesktopFile reads the [Desktop Entry] group of a .desktop file.
// Localized keys (Name[xx]) are ignored; the unlocalized value wins.
func parseDesktopFile(path string) (Entry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, false
	}
	defer f.Close()

	var (
		inEntry  bool
		isApp    bool
		hidden   bool
		name     string
		exec     string
		icon     string
		comment  string
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Type":
			isApp = strings.TrimSpace(value) == "Application"
		case "NoDisplay", "Hidden":
			if strings.TrimSpace(value) == "true" {
				hidden = true
			}
		case "Name":
			name = strings.TrimSpace(value)
		case "Exec":
			exec = strings.TrimSpace(value)
		case "Icon":
			icon = strings.TrimSpace(value)
		case "Comment":
			comment = strings.TrimSpace(value)
		}
	}
	if scanner.Err() != nil || !isApp || hidden || name == "" || exec == "" {
		return Entry{}, false
	}

	return Entry{
		Name:        norm.NFC.String(name),
		Exec:        exec,
		Icon:        icon,
		Description: comment,
		Kind:        KindApp,
	}, true
}
