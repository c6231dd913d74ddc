package folder

import (
	"math"
	"sort"
	"time"
)

// Score weights. Each recorded open is worth more than any recency gap that
// can realistically occur between passively observed access times, so open
// count dominates ordering (one open ≈ 1000 seconds of recency).
const (
	countBonusWeight = 1000
	frequencyWeight  = 500

	secondsPerDay = 86400
)

// Score computes the composite priority score for one entry.
//
// Base is the access time as epoch seconds. With usage history: the count
// bonus is count*1000; an explicit open event is more authoritative than a
// passively observed access time, so a newer last_opened replaces the base;
// the frequency bonus is (count/days-since-first)*500 with the divisor
// lower-bounded at one day, or count*500 at exactly zero elapsed time.
func Score(e *Entry, usage map[Key]*Usage, now time.Time) float64 {
	base := float64(e.AccessTime.Unix())

	u, ok := usage[e.Key]
	if !ok {
		return base
	}

	countBonus := float64(u.Count) * countBonusWeight

	if lastOpened := float64(u.LastOpened.Unix()); lastOpened > base {
		base = lastOpened
	}

	daysSinceFirst := now.Sub(u.FirstOpened).Seconds() / secondsPerDay

	var frequencyBonus float64
	if daysSinceFirst > 0 {
		frequencyBonus = float64(u.Count) / math.Max(daysSinceFirst, 1) * frequencyWeight
	} else {
		frequencyBonus = float64(u.Count) * frequencyWeight
	}

	return base + countBonus + frequencyBonus
}

// Rank sorts entries descending by score, in place. The sort is stable:
// entries with identical scores retain their relative input order, which
// deduplication tie-breaking and the tests rely on.
func Rank(entries []*Entry, usage map[Key]*Usage, now time.Time) {
	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = Score(e, usage, now)
	}

	indices := make([]int, len(entries))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})

	ranked := make([]*Entry, len(entries))
	for i, idx := range indices {
		ranked[i] = entries[idx]
	}

	copy(entries, ranked)
}

// PartitionOpened applies the cheap approximate order used immediately after
// a single open event: ever-opened entries before never-opened ones, each
// partition by access time descending, stable. Any full reload must re-run
// Rank instead.
func PartitionOpened(entries []*Entry, opened map[Key]bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		oi, oj := opened[entries[i].Key], opened[entries[j].Key]
		if oi != oj {
			return oi
		}

		return entries[i].AccessTime.After(entries[j].AccessTime)
	})
}
