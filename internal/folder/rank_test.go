package folder

import (
	"testing"
	"time"
)

func TestScore(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name  string
		entry *Entry
		usage map[Key]*Usage
		want  float64
	}{
		{
			name:  "no usage is bare access time",
			entry: &Entry{Key: "/a", AccessTime: time.Unix(1_699_990_000, 0)},
			usage: nil,
			want:  1_699_990_000,
		},
		{
			name:  "count bonus and two day frequency",
			entry: &Entry{Key: "/a", AccessTime: time.Unix(1_699_990_000, 0)},
			usage: map[Key]*Usage{"/a": {
				Count:       3,
				FirstOpened: now.Add(-2 * 24 * time.Hour),
				LastOpened:  time.Unix(1_699_999_000, 0),
			}},
			// last_opened replaces the older base; 3*1000 count bonus;
			// 3/2*500 frequency bonus.
			want: 1_699_999_000 + 3000 + 750,
		},
		{
			name:  "last opened older than access keeps base",
			entry: &Entry{Key: "/a", AccessTime: time.Unix(1_699_999_000, 0)},
			usage: map[Key]*Usage{"/a": {
				Count:       1,
				FirstOpened: now.Add(-1 * 24 * time.Hour),
				LastOpened:  time.Unix(1_699_990_000, 0),
			}},
			want: 1_699_999_000 + 1000 + 500,
		},
		{
			name:  "frequency divisor floors at one day",
			entry: &Entry{Key: "/a", AccessTime: time.Unix(1_699_990_000, 0)},
			usage: map[Key]*Usage{"/a": {
				Count:       4,
				FirstOpened: now.Add(-12 * time.Hour),
				LastOpened:  time.Unix(1_699_990_000, 0),
			}},
			// Half a day since first open still divides by one full day.
			want: 1_699_990_000 + 4000 + 2000,
		},
		{
			name:  "zero elapsed time gives full frequency bonus",
			entry: &Entry{Key: "/a", AccessTime: time.Unix(1_699_990_000, 0)},
			usage: map[Key]*Usage{"/a": {
				Count:       2,
				FirstOpened: now,
				LastOpened:  now,
			}},
			want: 1_700_000_000 + 2000 + 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Score(tt.entry, tt.usage, now); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreOpenOutranksRecency(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	// A folder opened once beats a folder merely seen a few minutes later.
	seen := &Entry{Key: "/seen", AccessTime: now.Add(-5 * time.Minute)}
	opened := &Entry{Key: "/opened", AccessTime: now.Add(-10 * time.Minute)}
	usage := map[Key]*Usage{"/opened": {Count: 1, FirstOpened: now.Add(-10 * time.Minute), LastOpened: now.Add(-10 * time.Minute)}}

	if Score(opened, usage, now) <= Score(seen, usage, now) {
		t.Errorf("one open should outrank a %v recency gap", 5*time.Minute)
	}
}

func TestRankSortsDescendingAndStable(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	a := &Entry{Path: "/a", Key: "/a", AccessTime: time.Unix(1_699_000_000, 0)}
	b := &Entry{Path: "/b", Key: "/b", AccessTime: time.Unix(1_699_500_000, 0)}
	c := &Entry{Path: "/c", Key: "/c", AccessTime: time.Unix(1_699_000_000, 0)} // ties with a
	d := &Entry{Path: "/d", Key: "/d", AccessTime: time.Unix(1_698_000_000, 0)}

	entries := []*Entry{a, b, c, d}
	usage := map[Key]*Usage{
		"/d": {Count: 5, FirstOpened: now.Add(-48 * time.Hour), LastOpened: now.Add(-time.Hour)},
	}

	Rank(entries, usage, now)

	want := []*Entry{d, b, a, c} // d wins on usage; a before c on equal score
	for i, e := range want {
		if entries[i] != e {
			t.Fatalf("rank position %d = %s, want %s", i, entries[i].Path, e.Path)
		}
	}
}

func TestPartitionOpened(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	a := &Entry{Path: "/a", Key: "/a", AccessTime: now.Add(-1 * time.Hour)}
	b := &Entry{Path: "/b", Key: "/b", AccessTime: now.Add(-2 * time.Hour)}
	c := &Entry{Path: "/c", Key: "/c", AccessTime: now.Add(-3 * time.Hour)}
	d := &Entry{Path: "/d", Key: "/d", AccessTime: now.Add(-30 * time.Minute)}

	entries := []*Entry{a, b, c, d}
	opened := map[Key]bool{"/b": true, "/c": true}

	PartitionOpened(entries, opened)

	// Opened entries first, each partition newest access first.
	want := []*Entry{b, c, d, a}
	for i, e := range want {
		if entries[i] != e {
			t.Fatalf("partition position %d = %s, want %s", i, entries[i].Path, e.Path)
		}
	}
}
