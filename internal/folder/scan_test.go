package folder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTestFile(t *testing.T, path string, size int) {
	t.Helper()

	if err := os.WriteFile(path, make([]byte, size), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirDirsFirstSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, sub := range []string{"zeta", "Alpha"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o750); err != nil {
			t.Fatal(err)
		}
	}

	writeTestFile(t, filepath.Join(dir, "notes.txt"), 10)
	writeTestFile(t, filepath.Join(dir, "Main.go"), 20)

	listing, err := ScanDir(dir, 0)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}

	want := []string{"Alpha", "zeta", "Main.go", "notes.txt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if listing.Truncated || listing.Total != 4 {
		t.Errorf("Total=%d Truncated=%v, want 4 false", listing.Total, listing.Truncated)
	}

	if listing.Entries[0].IsDir != true || listing.Entries[2].Size != 20 {
		t.Errorf("entry metadata wrong: %+v", listing.Entries)
	}
}

func TestScanDirTruncates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeTestFile(t, filepath.Join(dir, name), 1)
	}

	listing, err := ScanDir(dir, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(listing.Entries) != 2 || !listing.Truncated || listing.Total != 4 {
		t.Errorf("got %d entries, Truncated=%v, Total=%d; want 2 true 4",
			len(listing.Entries), listing.Truncated, listing.Total)
	}

	// The directory survives truncation; files get what's left.
	if !listing.Entries[0].IsDir {
		t.Errorf("directories must come before files even when truncated: %+v", listing.Entries)
	}
}

func TestScanDirMissing(t *testing.T) {
	t.Parallel()

	if _, err := ScanDir(filepath.Join(t.TempDir(), "gone"), 0); err == nil {
		t.Error("scanning a missing dir must fail")
	}
}

func TestDirMtimeRejectsFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeTestFile(t, file, 1)

	if _, err := DirMtime(dir); err != nil {
		t.Errorf("DirMtime on dir: %v", err)
	}

	if _, err := DirMtime(file); err == nil {
		t.Error("DirMtime on a file must fail")
	}
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{2048, "2 KB"},
		{3 << 20, "3.0 MB"},
		{1536 << 20, "1.5 GB"},
	}

	for _, tt := range tests {
		if got := HumanSize(tt.n); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestScanEntryDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entry    ScanEntry
		wantType string
		wantSize string
	}{
		{"dir", ScanEntry{Name: "src", IsDir: true}, "dir", "-"},
		{"extension upper", ScanEntry{Name: "main.go", Size: 512}, "GO", "512 B"},
		{"no extension", ScanEntry{Name: "Makefile", Size: 100}, "file", "100 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.entry.DisplayType(); got != tt.wantType {
				t.Errorf("DisplayType() = %q, want %q", got, tt.wantType)
			}

			if got := tt.entry.DisplaySize(); got != tt.wantSize {
				t.Errorf("DisplaySize() = %q, want %q", got, tt.wantSize)
			}
		})
	}
}
