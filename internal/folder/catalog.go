package folder

import (
	"iter"
	"strings"
	"time"
)

// Catalog is the deduplicated, queryable collection of entries. It holds one
// Entry per canonical key and preserves an explicit order (enumeration order
// after a merge, ranked order after Rank/PartitionOpened run over Entries).
//
// The catalog is owned by the coordinating goroutine; background workers
// never mutate it directly.
type Catalog struct {
	entries []*Entry
	byKey   map[Key]*Entry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[Key]*Entry)}
}

// Merge replaces the entire catalog content with one entry per unique
// canonical key. Observations are processed in enumeration order; on a key
// collision the observation with the later observed time wins, while the
// entry keeps its first-occurrence position in the order.
func (c *Catalog) Merge(observations []Observation) {
	c.entries = c.entries[:0]
	c.byKey = make(map[Key]*Entry, len(observations))

	for _, obs := range observations {
		key := Normalize(obs.Path)
		if key == "" {
			continue
		}

		existing, ok := c.byKey[key]
		if !ok {
			e := &Entry{
				Path:       obs.Path,
				Key:        key,
				AccessTime: obs.ObservedAt,
				Exists:     obs.Exists,
			}
			c.byKey[key] = e
			c.entries = append(c.entries, e)

			continue
		}

		if obs.ObservedAt.After(existing.AccessTime) {
			existing.Path = obs.Path
			existing.AccessTime = obs.ObservedAt
			existing.Exists = obs.Exists
		}
	}
}

// Touch sets the matching entry's access time to now. Touching an unknown
// key is a no-op: a touch never creates an entry. Reports whether an entry
// was touched; the caller is responsible for re-ranking afterward.
func (c *Catalog) Touch(key Key, now time.Time) bool {
	e, ok := c.byKey[key]
	if !ok {
		return false
	}

	e.AccessTime = now

	return true
}

// Get returns the entry for key, if present.
func (c *Catalog) Get(key Key) (*Entry, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns the live ordered slice. Rank and PartitionOpened reorder
// it in place; callers must not grow or shrink it.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Filter returns a lazy, restartable, order-preserving sequence of the
// entries matching pred. Each range over the sequence re-walks the current
// catalog order, so a re-rank between iterations is picked up.
func (c *Catalog) Filter(pred func(*Entry) bool) iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range c.entries {
			if pred != nil && !pred(e) {
				continue
			}

			if !yield(e) {
				return
			}
		}
	}
}

// Select collects the filtered entries into a fresh slice, preserving order.
func (c *Catalog) Select(pred func(*Entry) bool) []*Entry {
	var out []*Entry

	for e := range c.Filter(pred) {
		out = append(out, e)
	}

	return out
}

// MatchText returns a predicate for case-insensitive substring search on the
// native path, the empty query matching everything.
func MatchText(query string) func(*Entry) bool {
	query = strings.ToLower(query)

	return func(e *Entry) bool {
		if query == "" {
			return true
		}

		return strings.Contains(strings.ToLower(e.Path), query)
	}
}

// MatchCategory returns a predicate selecting entries whose annotation
// carries the wanted category. Entries without an auto comment never match.
func MatchCategory(category string, annotations func(Key) (*Annotation, bool)) func(*Entry) bool {
	return func(e *Entry) bool {
		ann, ok := annotations(e.Key)
		if !ok || !ann.Auto {
			return false
		}

		got, _, ok := cutCategory(ann.Comment)

		return ok && got == category
	}
}
