// Package browse implements the slash-delimited drill-down grammar: the
// first path segment of a query names a top-level folder, the rest selects a
// subdirectory to list and a filter to apply to its children.
package browse

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/search"
	"github.com/cheru-app/cheru/internal/security"
)

// Separator triggers browse mode when present anywhere in a query.
const Separator = "/"

// maxListing caps how many children of one directory are returned.
const maxListing = 50

// FolderSearchFunc resolves a free-text segment to ranked folder candidates.
// It is wired to the folder source searcher so segment resolution and folder
// search can never disagree.
type FolderSearchFunc func(query string) []index.Entry

// IsBrowseQuery reports whether the query should be routed to the resolver
// instead of the global search sources.
func IsBrowseQuery(query string) bool {
	return strings.Contains(query, Separator)
}

// Resolver turns browse queries into directory listings. It owns the segment
// cache exclusively; concurrent resolutions of the same unseen segment may
// both compute, with last-writer-wins insertion.
type Resolver struct {
	mu            sync.Mutex
	bases         map[string]string
	searchFolders FolderSearchFunc
	matcher       *search.Matcher
	gate          *security.Gate
	log           *logrus.Logger
}

// NewResolver wires a resolver to its collaborators.
func NewResolver(searchFolders FolderSearchFunc, matcher *search.Matcher, gate *security.Gate, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Resolver{
		bases:         make(map[string]string),
		searchFolders: searchFolders,
		matcher:       matcher,
		gate:          gate,
		log:           log,
	}
}

// Target is the outcome of parsing a browse query: the directory to list and
// the substring to fuzzy-filter its children by.
type Target struct {
	Dir    string
	Filter string
}

// Resolve parses query into a listing target. ok is false when the query has
// no resolvable first segment; that is an empty result, not an error.
func (r *Resolver) Resolve(query string) (Target, bool) {
	segment, rest, _ := strings.Cut(query, Separator)
	if segment == "" {
		return Target{}, false
	}

	base, ok := r.resolveBase(segment)
	if !ok {
		return Target{}, false
	}
	return parseRest(base, rest), true
}

// parseRest applies the grammar to everything after the first separator:
//
//	""           -> list base, no filter
//	"sub/"       -> list base/sub, no filter
//	"sub/query"  -> list base/sub (split at the last separator), filter query
//	"query"      -> list base, filter query
func parseRest(base, rest string) Target {
	switch {
	case rest == "":
		return Target{Dir: base}
	case strings.HasSuffix(rest, Separator):
		return Target{Dir: filepath.Join(base, strings.TrimSuffix(rest, Separator))}
	case strings.Contains(rest, Separator):
		idx := strings.LastIndex(rest, Separator)
		return Target{Dir: filepath.Join(base, rest[:idx]), Filter: rest[idx+1:]}
	default:
		return Target{Dir: base, Filter: rest}
	}
}

// resolveBase maps the lowercased first segment to an absolute directory,
// consulting the cache first and the folder searcher on a miss. The cache
// grows for the process lifetime and is never invalidated; top-level folder
// names rarely change within a session.
func (r *Resolver) resolveBase(segment string) (string, bool) {
	key := strings.ToLower(segment)

	r.mu.Lock()
	base, cached := r.bases[key]
	r.mu.Unlock()
	if cached {
		return base, true
	}

	candidates := r.searchFolders(segment)
	if len(candidates) == 0 {
		return "", false
	}
	base = candidates[0].Exec

	r.mu.Lock()
	r.bases[key] = base
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"segment": key, "base": base}).Debug("browse base resolved")
	return base, true
}

// Browse resolves query and lists the target directory. A query whose first
// segment matches no folder yields an empty listing and a nil error. A
// policy denial from the gate is returned as-is so callers can distinguish
// it from a typo.
func (r *Resolver) Browse(query string) ([]index.Entry, error) {
	target, ok := r.Resolve(query)
	if !ok {
		return nil, nil
	}
	return r.List(target.Dir, target.Filter)
}

// List returns the direct children of dir, fuzzy-filtered and capped. The
// directory must pass the home restriction before it is read.
func (r *Resolver) List(dir, filter string) ([]index.Entry, error) {
	canonical, err := r.gate.CheckOpen(dir)
	if err != nil {
		return nil, err
	}

	children, err := os.ReadDir(canonical)
	if err != nil {
		return nil, err
	}

	entries := make([]index.Entry, 0, len(children))
	for _, child := range children {
		full := filepath.Join(canonical, child.Name())
		kind := index.KindFile
		if child.IsDir() {
			kind = index.KindFolder
		} else if index.IsImagePath(full) {
			kind = index.KindImage
		}
		entries = append(entries, index.Entry{
			Name:        child.Name(),
			Exec:        full,
			Description: full,
			Kind:        kind,
		})
	}

	// Directories before files, each group name-ordered, so the unfiltered
	// listing reads like a file manager.
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Kind == index.KindFolder, entries[j].Kind == index.KindFolder
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	matches := r.matcher.Rank(filter, names, maxListing)

	filtered := make([]index.Entry, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, entries[match.Index])
	}
	return filtered, nil
}

// NextQuery rewrites a browse query after the user activates a folder in the
// listing: everything up to and including the last separator is kept and the
// chosen folder name is appended with a trailing separator. Nested browsing
// works by re-running the grammar on the rewritten query rather than by
// keeping a directory tree.
func NextQuery(query, folderName string) string {
	idx := strings.LastIndex(query, Separator)
	if idx < 0 {
		return folderName + Separator
	}
	return query[:idx+1] + folderName + Separator
}
