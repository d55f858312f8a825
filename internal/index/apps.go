package index

import (
	"sort"
	"strings"
)

// enumerateApps asks the platform enumerator for raw candidates, then
// deduplicates by name and sorts case-insensitively so that an empty query
// lists applications alphabetically.
func enumerateApps(opts Options) []Entry {
	return dedupeAndSort(platformApps(opts))
}

// dedupeAndSort drops nameless or execless candidates, keeps the first entry
// per name, and orders the rest alphabetically ignoring case.
func dedupeAndSort(apps []Entry) []Entry {
	seen := make(map[string]struct{}, len(apps))
	deduped := apps[:0]
	for _, app := range apps {
		if app.Name == "" || app.Exec == "" {
			continue
		}
		if _, dup := seen[app.Name]; dup {
			continue
		}
		seen[app.Name] = struct{}{}
		deduped = append(deduped, app)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return strings.ToLower(deduped[i].Name) < strings.ToLower(deduped[j].Name)
	})
	return deduped
}
