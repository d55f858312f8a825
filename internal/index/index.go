package index

import (
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultFolderDepth bounds how deep the folder walker descends below
	// each well-known root.
	DefaultFolderDepth = 3
	// DefaultMaxImages stops image enumeration once this many entries have
	// been collected. First found wins; there is no ranking of candidates.
	DefaultMaxImages = 5000
)

// Options controls index construction.
type Options struct {
	Home        string
	FolderDepth int
	MaxImages   int
	Log         *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.Home == "" {
		if home, err := os.UserHomeDir(); err == nil {
			o.Home = home
		}
	}
	if o.FolderDepth <= 0 {
		o.FolderDepth = DefaultFolderDepth
	}
	if o.MaxImages <= 0 {
		o.MaxImages = DefaultMaxImages
	}
	if o.Log == nil {
		o.Log = logrus.New()
		o.Log.SetOutput(io.Discard)
	}
	return o
}

// Store holds the process-wide candidate collections. It is built exactly
// once at startup and is read-only afterwards, which makes concurrent reads
// from the searchers safe without locking. There is no refresh operation;
// new installs need a restart.
type Store struct {
	apps    []Entry
	folders []Entry
	images  []Entry
	home    string
}

// NewStore builds a store from already-enumerated buckets. Callers hand
// ownership of the slices to the store and must not mutate them afterwards.
func NewStore(home string, apps, folders, images []Entry) *Store {
	return &Store{home: home, apps: apps, folders: folders, images: images}
}

// Build enumerates all three buckets. The enumerations are independent and
// run concurrently on a small worker pool; a failure in one bucket leaves
// that bucket empty and does not affect the others.
func Build(opts Options) *Store {
	opts = opts.withDefaults()
	log := opts.Log

	store := &Store{home: opts.Home}

	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		// Degrade to sequential enumeration; the result is identical.
		store.apps = enumerateApps(opts)
		store.folders = enumerateFolders(opts)
		store.images = enumerateImages(opts)
		logCounts(log, store, 0)
		return store
	}
	defer pool.Release()

	start := time.Now()
	var wg sync.WaitGroup
	tasks := []func(){
		func() { store.apps = enumerateApps(opts) },
		func() { store.folders = enumerateFolders(opts) },
		func() { store.images = enumerateImages(opts) },
	}
	for _, task := range tasks {
		wg.Add(1)
		task := task
		if err := pool.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			task()
			wg.Done()
		}
	}
	wg.Wait()

	logCounts(log, store, time.Since(start))
	return store
}

func logCounts(log *logrus.Logger, store *Store, elapsed time.Duration) {
	log.WithFields(logrus.Fields{
		"apps":    len(store.apps),
		"folders": len(store.folders),
		"images":  len(store.images),
		"elapsed": elapsed,
	}).Info("index built")
}

// Apps returns the application bucket in enumeration order. Callers must
// treat the slice as read-only.
func (s *Store) Apps() []Entry { return s.apps }

// Folders returns the folder bucket in enumeration order.
func (s *Store) Folders() []Entry { return s.folders }

// Images returns the image bucket in enumeration order.
func (s *Store) Images() []Entry { return s.images }

// Home returns the home directory the index was built against.
func (s *Store) Home() string { return s.home }

// AppCount reports how many applications were indexed.
func (s *Store) AppCount() int { return len(s.apps) }
