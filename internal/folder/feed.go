package folder

import (
	"context"
	"iter"
)

// Feed defaults. The priority slice puts the most relevant entries on screen
// immediately while slower enumeration and classification work continues.
const (
	DefaultBatchSize     = 20
	DefaultPrioritySlice = 10
)

// Batch is one contiguous slice of a ranked, filtered entry sequence,
// emitted for progressive rendering.
type Batch struct {
	// Entries alias the catalog's entries; the batch itself owns nothing.
	Entries []*Entry

	// Offset is the index of the first entry within the full sequence.
	Offset int

	// Priority marks the initial top-K slice.
	Priority bool

	// Generation stamps which request produced this batch. Consumers
	// discard batches whose generation is no longer current.
	Generation uint64
}

// Batches produces the lazy, restartable, finite batch sequence for entries:
// first a priority slice of the first prioritySlice entries, then contiguous
// batches of batchSize. Re-ranging restarts from the beginning. The sequence
// only reads entries; it has no side effects on catalog or store, so an
// interrupted consumer can simply stop.
func Batches(entries []*Entry, prioritySlice, batchSize int, generation uint64) iter.Seq[Batch] {
	if prioritySlice <= 0 {
		prioritySlice = DefaultPrioritySlice
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return func(yield func(Batch) bool) {
		if len(entries) == 0 {
			return
		}

		head := min(prioritySlice, len(entries))

		if !yield(Batch{Entries: entries[:head], Priority: true, Generation: generation}) {
			return
		}

		for offset := head; offset < len(entries); offset += batchSize {
			end := min(offset+batchSize, len(entries))

			b := Batch{Entries: entries[offset:end], Offset: offset, Generation: generation}
			if !yield(b) {
				return
			}
		}
	}
}

// Stream emits the same batch sequence asynchronously over a channel, for
// consumers that render at their own cadence. The channel closes when all
// batches are delivered or ctx is cancelled; cancellation has no side
// effects on the underlying catalog or store.
func Stream(ctx context.Context, entries []*Entry, prioritySlice, batchSize int, generation uint64) <-chan Batch {
	out := make(chan Batch)

	go func() {
		defer close(out)

		for b := range Batches(entries, prioritySlice, batchSize, generation) {
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
