package engine

import (
	"github.com/cheru-app/cheru/internal/index"
)

// SearchApps returns the ranked application matches, at most 50. An empty
// query returns the full bucket in enumeration order. Sources never fail:
// an empty index simply yields an empty list.
func (e *Engine) SearchApps(query string) []Result {
	return e.searchBucket(query, e.store.Apps(), maxAppResults)
}

// SearchFolders returns the ranked folder matches, at most 10.
func (e *Engine) SearchFolders(query string) []Result {
	return e.searchBucket(query, e.store.Folders(), maxFolderResults)
}

// SearchImages returns the ranked image matches, at most 20.
func (e *Engine) SearchImages(query string) []Result {
	return e.searchBucket(query, e.store.Images(), maxImageResults)
}

func (e *Engine) searchBucket(query string, entries []index.Entry, limit int) []Result {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	matches := e.matcher.Rank(query, names, limit)

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, fromEntry(entries[match.Index], match.Score))
	}
	return results
}

// searchSystem matches the built-in system commands. They only surface for
// non-empty queries so an empty search field stays an application list.
func (e *Engine) searchSystem(query string) []Result {
	if query == "" {
		return nil
	}
	names := make([]string, len(e.system))
	for i, result := range e.system {
		names[i] = result.Name
	}
	matches := e.matcher.Rank(query, names, maxSystemResults)

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		result := e.system[match.Index]
		result.Score = match.Score
		results = append(results, result)
	}
	return results
}

// foldersRanked backs both the folder source and the browse resolver's
// segment resolution, so "downloads/" resolves to whatever folder search
// would rank first for "downloads".
func (e *Engine) foldersRanked(query string) []index.Entry {
	entries := e.store.Folders()
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	matches := e.matcher.Rank(query, names, maxFolderResults)

	ranked := make([]index.Entry, 0, len(matches))
	for _, match := range matches {
		ranked = append(ranked, entries[match.Index])
	}
	return ranked
}
