package folder

import (
	"context"
	"iter"
	"sync"
	"time"
)

// ScanCache is an optional derived cache for shallow-scan classification
// results, keyed by canonical key and directory mtime. It is never
// authoritative: a miss or a cache failure just means the folder is scanned
// directly. Implemented by internal/index.
type ScanCache interface {
	// Get returns the cached path+listing classification if the stored
	// mtime stamp still matches.
	Get(ctx context.Context, key Key, mtimeNS int64) (Classification, bool)

	// Put stores the classification under the given mtime stamp.
	// Failures are swallowed by the implementation.
	Put(ctx context.Context, key Key, path string, mtimeNS int64, c Classification, listing *Listing)
}

// Session is the application context object owning the catalog, the history
// store and the current view state (filter, generation). There is no package
// level state; every component receives the session explicitly.
//
// Ownership model: all Session methods must be called from one coordinating
// goroutine. Background work (enumeration, scanning, classification) runs on
// worker goroutines internally and hands results back over channels; results
// carry the request generation and are discarded when stale.
type Session struct {
	store   *Store
	catalog *Catalog
	enum    Enumerator
	now     func() time.Time

	query    string
	category string

	// generation stamps the current view. Bumped on every refresh,
	// filter change and open event; in-flight feeds and sweeps from
	// earlier generations are discarded on arrival.
	generation uint64

	prioritySlice int
	batchSize     int
	listingCap    int
	sweepWorkers  int
}

// SessionOptions tune a session. Zero values select defaults.
type SessionOptions struct {
	PrioritySlice int
	BatchSize     int
	ListingCap    int
	SweepWorkers  int
	Now           func() time.Time
}

const defaultSweepWorkers = 4

// NewSession creates a session around a loaded store and an enumerator.
func NewSession(store *Store, enum Enumerator, opts SessionOptions) *Session {
	s := &Session{
		store:         store,
		catalog:       NewCatalog(),
		enum:          enum,
		now:           opts.Now,
		prioritySlice: opts.PrioritySlice,
		batchSize:     opts.BatchSize,
		listingCap:    opts.ListingCap,
		sweepWorkers:  opts.SweepWorkers,
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.prioritySlice <= 0 {
		s.prioritySlice = DefaultPrioritySlice
	}

	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}

	if s.listingCap <= 0 {
		s.listingCap = DefaultListingCap
	}

	if s.sweepWorkers <= 0 {
		s.sweepWorkers = defaultSweepWorkers
	}

	return s
}

// Store exposes the history store.
func (s *Session) Store() *Store {
	return s.store
}

// Catalog exposes the catalog.
func (s *Session) Catalog() *Catalog {
	return s.catalog
}

// Generation returns the current view generation.
func (s *Session) Generation() uint64 {
	return s.generation
}

// RefreshResult is the hand-off message from an enumeration worker.
type RefreshResult struct {
	Observations []Observation
	Generation   uint64
	Err          error
}

// RefreshAsync starts enumeration on a worker goroutine and returns the
// hand-off channel. The coordinating goroutine applies the result with
// ApplyRefresh; a result whose generation is no longer current is stale and
// must be dropped.
func (s *Session) RefreshAsync(ctx context.Context) <-chan RefreshResult {
	out := make(chan RefreshResult, 1)
	generation := s.generation

	go func() {
		defer close(out)

		observations, err := s.enum.Enumerate(ctx)
		out <- RefreshResult{Observations: observations, Generation: generation, Err: err}
	}()

	return out
}

// ApplyRefresh merges an enumeration result into the catalog and re-runs the
// full scored ranking. Stale results are discarded with ErrStaleResult so
// callers can distinguish "dropped" from "applied"; dropping is not a user
// visible error.
func (s *Session) ApplyRefresh(res RefreshResult) error {
	if res.Generation != s.generation {
		return ErrStaleResult
	}

	if res.Err != nil {
		return res.Err
	}

	s.catalog.Merge(res.Observations)
	Rank(s.catalog.Entries(), s.store.UsageMap(), s.now())
	s.generation++

	return nil
}

// Refresh enumerates and applies synchronously. One-shot commands use it;
// the interactive shell goes through RefreshAsync.
func (s *Session) Refresh(ctx context.Context) error {
	res, ok := <-s.RefreshAsync(ctx)
	if !ok {
		return ctx.Err()
	}

	return s.ApplyRefresh(res)
}

// SetFilter updates the text query and category filter, invalidating any
// in-flight feed.
func (s *Session) SetFilter(query, category string) {
	if s.query == query && s.category == category {
		return
	}

	s.query = query
	s.category = category
	s.generation++
}

// NotifyOpened records a successful external open of path: the history store
// updates and persists, the catalog entry's access time is bumped, and the
// cheap partition order moves the folder to the front. Full ranking is
// deferred to the next refresh.
func (s *Session) NotifyOpened(path string) error {
	if err := s.store.RecordOpen(path); err != nil {
		return err
	}

	now := s.now()

	s.catalog.Touch(Normalize(path), now)
	PartitionOpened(s.catalog.Entries(), s.store.OpenedSet())
	s.generation++

	return nil
}

// View returns the filtered entries in current order.
func (s *Session) View() []*Entry {
	return s.catalog.Select(s.viewPredicate())
}

// Feed streams the current filtered view as batches stamped with the
// current generation: a priority slice first, then contiguous batches.
func (s *Session) Feed(ctx context.Context) <-chan Batch {
	return Stream(ctx, s.View(), s.prioritySlice, s.batchSize, s.generation)
}

// ViewBatches is the synchronous counterpart of Feed: the same batch
// sequence, with the session's configured slice sizes, for consumers that
// render inline and may stop early.
func (s *Session) ViewBatches() iter.Seq[Batch] {
	return Batches(s.View(), s.prioritySlice, s.batchSize, s.generation)
}

func (s *Session) viewPredicate() func(*Entry) bool {
	text := MatchText(s.query)

	if s.category == "" {
		return text
	}

	byCategory := MatchCategory(s.category, s.store.Annotation)

	return func(e *Entry) bool {
		return text(e) && byCategory(e)
	}
}

// ClassifyOne classifies a single folder and applies the auto comment,
// honoring manual-comment pinning. The comment is never empty: with no
// matching rule the ordinary fallback tag applies. A listing failure
// silently degrades to path-only tags.
func (s *Session) ClassifyOne(ctx context.Context, path string, cache ScanCache) (Classification, bool, error) {
	c := s.classifyPath(ctx, path, cache)

	key := Normalize(path)
	if u, ok := s.store.Usage(key); ok {
		c.addUsageTags(u, s.now())
	}

	applied, err := s.store.SetAutoComment(path, c.Comment())

	return c, applied, err
}

// sweepResult is the hand-off message from a classification worker.
type sweepResult struct {
	path           string
	classification Classification
	generation     uint64
}

// ClassifySweep classifies every existing catalog entry on worker
// goroutines and applies eligible auto comments serially on the calling
// goroutine. Per-folder scan failures degrade to path-only tags and never
// abort the sweep. If the view generation moves while the sweep runs (a
// refresh or open happened), remaining results are discarded and the count
// applied so far is returned.
func (s *Session) ClassifySweep(ctx context.Context, cache ScanCache) (int, error) {
	generation := s.generation

	// The derived context also stops the feeder and workers when the apply
	// loop bails out early, so an error never strands them mid-send.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	results := make(chan sweepResult)

	var wg sync.WaitGroup

	for range s.sweepWorkers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for path := range jobs {
				res := sweepResult{
					path:           path,
					classification: s.classifyPath(ctx, path, cache),
					generation:     generation,
				}

				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)

		for _, e := range s.catalog.Entries() {
			if !e.Exists {
				continue
			}

			select {
			case jobs <- e.Path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	applied := 0

	for res := range results {
		if res.generation != s.generation {
			continue // stale, view moved on
		}

		c := res.classification

		if u, ok := s.store.Usage(Normalize(res.path)); ok {
			c.addUsageTags(u, s.now())
		}

		ok, err := s.store.SetAutoComment(res.path, c.Comment())
		if err != nil {
			cancel()

			// Unblock any worker mid-send; results closes once they
			// and the feeder have wound down.
			for range results {
				continue
			}

			return applied, err
		}

		if ok {
			applied++
		}
	}

	return applied, ctx.Err()
}

// classifyPath computes the stable (path + listing) part of a
// classification, going through the scan cache when one is wired.
func (s *Session) classifyPath(ctx context.Context, path string, cache ScanCache) Classification {
	mtimeNS, err := DirMtime(path)
	if err != nil {
		// Folder vanished or unreadable: path-only tags.
		return ClassifyStatic(path, nil)
	}

	if cache != nil {
		if c, ok := cache.Get(ctx, Normalize(path), mtimeNS); ok {
			return c
		}
	}

	listing, err := ScanDir(path, s.listingCap)
	if err != nil {
		return ClassifyStatic(path, nil)
	}

	c := ClassifyStatic(path, listing)

	if cache != nil {
		cache.Put(ctx, Normalize(path), path, mtimeNS, c, listing)
	}

	return c
}
