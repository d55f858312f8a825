// Package engine ties the index, matcher, resolver and gate together behind
// the query operations the UI calls. One Engine serves a whole process; all
// of its methods are safe for concurrent use because the index is immutable
// and every query recomputes its own result slice.
package engine

import (
	"io"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/cheru-app/cheru/internal/browse"
	"github.com/cheru-app/cheru/internal/config"
	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/search"
	"github.com/cheru-app/cheru/internal/security"
)

// Result caps per source. The caps truncate ranked output; they never affect
// scoring.
const (
	maxAppResults    = 50
	maxFolderResults = 10
	maxImageResults  = 20
	maxSystemResults = 5
)

// Engine answers queries against the startup index.
type Engine struct {
	store     *index.Store
	matcher   *search.Matcher
	resolver  *browse.Resolver
	gate      *security.Gate
	pool      *ants.Pool
	system    []Result
	searchURL string
	log       *logrus.Logger
}

// New wires an engine. The gate defaults to the platform gate for the
// index's home directory when nil.
func New(store *index.Store, gate *security.Gate, cfg *config.Config, log *logrus.Logger) (*Engine, error) {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if gate == nil {
		gate = security.New(store.Home())
	}

	pool, err := ants.NewPool(runtime.NumCPU() * 2)
	if err != nil {
		return nil, err
	}

	matcher := search.NewMatcher()
	e := &Engine{
		store:     store,
		matcher:   matcher,
		gate:      gate,
		pool:      pool,
		system:    systemResults(),
		searchURL: cfg.SearchURL,
		log:       log,
	}
	e.resolver = browse.NewResolver(e.foldersRanked, matcher, gate, log)
	return e, nil
}

// Close releases the worker pool.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// IndexSize reports the number of indexed applications.
func (e *Engine) IndexSize() int {
	return e.store.AppCount()
}

// Gate exposes the security gate, for callers that validate paths directly.
func (e *Engine) Gate() *security.Gate { return e.gate }

// run schedules fn on the pool, falling back to inline execution when the
// pool cannot take it, so fn always runs exactly once.
func (e *Engine) run(fn func()) {
	if err := e.pool.Submit(fn); err != nil {
		fn()
	}
}
