package engine

import (
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/cheru-app/cheru/internal/browse"
	"github.com/cheru-app/cheru/internal/calc"
)

// webSearchMinQuery and webSearchMaxResults gate the fallback: it only
// appears for queries of at least two runes that produced fewer than three
// real results.
const (
	webSearchMinQuery   = 2
	webSearchMaxResults = 3
)

// Query answers one query end to end. A query containing a separator is
// delegated entirely to the browse resolver; otherwise the sources and the
// calculator run concurrently and their outputs are merged, deduplicated and
// augmented with fallback records. Failures are isolated per source: a
// source that cannot read simply contributes nothing.
func (e *Engine) Query(query string) []Result {
	if browse.IsBrowseQuery(query) {
		return e.browseQuery(query)
	}

	var (
		wg        sync.WaitGroup
		apps      []Result
		system    []Result
		folders   []Result
		images    []Result
		calcValue string
		calcOK    bool
	)

	tasks := []func(){
		func() { apps = e.SearchApps(query) },
		func() { system = e.searchSystem(query) },
		func() { folders = e.SearchFolders(query) },
		func() { images = e.SearchImages(query) },
		func() { calcValue, calcOK = calc.Evaluate(query) },
	}
	wg.Add(len(tasks))
	for _, task := range tasks {
		task := task
		e.run(func() {
			defer wg.Done()
			task()
		})
	}
	wg.Wait()

	merged := make([]Result, 0, len(apps)+len(system)+len(folders)+len(images)+2)
	seen := make(map[string]struct{})
	for _, group := range [][]Result{apps, system, folders, images} {
		for _, result := range group {
			if _, dup := seen[result.Exec]; dup {
				continue
			}
			seen[result.Exec] = struct{}{}
			merged = append(merged, result)
		}
	}

	if calcOK {
		merged = append([]Result{calcResult(calcValue)}, merged...)
	}
	if e.wantsWebSearch(query, len(merged), calcOK) {
		merged = append(merged, webSearchResult(query, e.searchURL))
	}
	return merged
}

// wantsWebSearch applies the fallback rule to the deduplicated,
// fallback-free result count.
func (e *Engine) wantsWebSearch(query string, mergedLen int, calcOK bool) bool {
	if utf8.RuneCountInString(query) < webSearchMinQuery {
		return false
	}
	count := mergedLen
	if calcOK {
		count--
	}
	return count < webSearchMaxResults
}

func (e *Engine) browseQuery(query string) []Result {
	entries, err := e.resolver.Browse(query)
	if err != nil {
		e.log.WithError(err).WithField("query", query).Warn("browse failed")
		return nil
	}
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		results = append(results, fromEntry(entry, 0))
	}
	return results
}

// BrowseDirectory lists one directory with an explicit filter, for callers
// that already know the path. The gate's home restriction applies.
func (e *Engine) BrowseDirectory(path, filter string) ([]Result, error) {
	entries, err := e.resolver.List(path, filter)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		results = append(results, fromEntry(entry, 0))
	}
	return results, nil
}

// NextBrowseQuery rewrites a browse query after a folder in the listing was
// activated, drilling one level deeper.
func (e *Engine) NextBrowseQuery(query, folderName string) string {
	return browse.NextQuery(query, folderName)
}

// EvalExpression exposes the calculator. The boolean is false when the input
// is not an arithmetic expression.
func (e *Engine) EvalExpression(expr string) (string, bool) {
	return calc.Evaluate(expr)
}

// GroupForDisplay orders results by kind precedence (calculator first, web
// search last) while preserving matcher rank inside each group.
func GroupForDisplay(results []Result) []Result {
	grouped := make([]Result, len(results))
	copy(grouped, results)
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Kind.GroupRank() < grouped[j].Kind.GroupRank()
	})
	return grouped
}
