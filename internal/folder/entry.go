// Package folder implements the recent-folders engine: normalization,
// deduplication, priority ranking, usage history, auto-tagging and the
// batched presenter feed.
package folder

import "time"

// Observation is one raw recent-item record produced by an Enumerator.
// Consumed once by the catalog merge; never stored.
type Observation struct {
	Path       string
	ObservedAt time.Time
	Exists     bool
}

// Entry is one folder in the catalog. There is exactly one Entry per unique
// Key after a merge pass. Entries are mutated in place on open events so the
// presenter feed can reuse object identity across re-renders; the whole set
// is replaced only on a full refresh.
type Entry struct {
	// Path is the native path string as first observed, used for display
	// and for handing to the OS.
	Path string

	// Key is the canonical identity (Normalize(Path)).
	Key Key

	// AccessTime is the latest observed access, bumped to "now" on open.
	AccessTime time.Time

	// Exists is false for stale recent pointers. Such entries stay listed,
	// flagged, rather than silently removed.
	Exists bool
}

// Usage is the persisted open statistics for one folder.
type Usage struct {
	Count       int
	FirstOpened time.Time
	LastOpened  time.Time
}

// Annotation is a persisted user comment plus the tags derived from it.
// Auto is not stored separately: a comment starting with "[" is
// auto-generated by convention, and that convention is preserved exactly so
// existing store files round-trip.
type Annotation struct {
	Comment string
	Auto    bool
	Tags    []string
}

// autoCommentPrefix marks auto-generated comments. A manual comment that
// happens to start with "[" is indistinguishable from an auto one and stays
// eligible for overwrite by the next classification sweep; the history store
// tests pin this edge case.
const autoCommentPrefix = "["

// parseAnnotation builds an Annotation from a raw persisted comment.
// Auto comments have the shape "[category] tag | tag"; their tags are
// recovered so filters can use them without re-running classification.
func parseAnnotation(comment string) Annotation {
	a := Annotation{Comment: comment}

	if !isAutoComment(comment) {
		return a
	}

	a.Auto = true

	_, rest, ok := cutCategory(comment)
	if !ok || rest == "" {
		return a
	}

	for _, tag := range splitTags(rest) {
		a.Tags = append(a.Tags, tag)
	}

	return a
}

func isAutoComment(comment string) bool {
	return len(comment) > 0 && comment[:1] == autoCommentPrefix
}
