package engine

import (
	"net/url"

	"github.com/cheru-app/cheru/internal/index"
)

// Result is the unit returned to callers: an index entry plus its score, or
// a synthetic record for computed results. Kind is assigned once and drives
// both display grouping and launch dispatch, so a calculator value or a
// web-search URL can never be treated as a filesystem path.
type Result struct {
	Name        string     `json:"name"`
	Exec        string     `json:"exec"`
	Icon        string     `json:"icon,omitempty"`
	Description string     `json:"description,omitempty"`
	Kind        index.Kind `json:"result_type"`
	Score       float64    `json:"score"`
}

func fromEntry(entry index.Entry, score float64) Result {
	return Result{
		Name:        entry.Name,
		Exec:        entry.Exec,
		Icon:        entry.Icon,
		Description: entry.Description,
		Kind:        entry.Kind,
		Score:       score,
	}
}

// calcResult builds the synthetic calculator record shown above all other
// results.
func calcResult(value string) Result {
	return Result{
		Name: "= " + value,
		Exec: "calc:" + value,
		Kind: index.KindCalculator,
	}
}

// webSearchResult builds the fallback record pointing at the configured
// search engine.
func webSearchResult(query, searchURL string) Result {
	return Result{
		Name:        "Search the web for \"" + query + "\"",
		Exec:        searchURL + url.QueryEscape(query),
		Description: "Web search",
		Kind:        index.KindWebSearch,
	}
}
