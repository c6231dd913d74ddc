package folder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanEntry is one item of a shallow directory listing, for preview and
// classification.
type ScanEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Listing is a bounded shallow listing of one folder. Truncated is set when
// the real entry count exceeds the bound; Total always reflects the real
// count.
type Listing struct {
	Entries   []ScanEntry
	Total     int
	Truncated bool
}

// DefaultListingCap bounds listing size for preview.
const DefaultListingCap = 300

// ScanDir lists up to limit entries of dir: directories first, then files,
// each group sorted case-insensitively. Entries that cannot be stat'd are
// skipped. Listing failures (permission denied, vanished folder) surface as
// an error; callers treat them as transient and fall back to path-only
// classification.
func ScanDir(dir string, limit int) (*Listing, error) {
	if limit <= 0 {
		limit = DefaultListingCap
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var dirs, files []ScanEntry

	for _, de := range dirEntries {
		if de.IsDir() {
			dirs = append(dirs, ScanEntry{Name: de.Name(), IsDir: true})

			continue
		}

		var size int64
		if info, infoErr := de.Info(); infoErr == nil {
			size = info.Size()
		}

		files = append(files, ScanEntry{Name: de.Name(), Size: size})
	}

	sortByName(dirs)
	sortByName(files)

	listing := &Listing{Total: len(dirEntries)}

	listing.Entries = dirs
	if len(listing.Entries) > limit {
		listing.Entries = listing.Entries[:limit]
	}

	if remaining := limit - len(listing.Entries); remaining > 0 {
		if len(files) > remaining {
			files = files[:remaining]
		}

		listing.Entries = append(listing.Entries, files...)
	}

	listing.Truncated = listing.Total > len(listing.Entries)

	return listing, nil
}

// DirMtime returns the directory's modification time in nanoseconds, used as
// the scan-cache invalidation stamp.
func DirMtime(dir string) (int64, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", dir, err)
	}

	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	return info.ModTime().UnixNano(), nil
}

func sortByName(entries []ScanEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// Size bucket bounds for HumanSize.
const (
	sizeKB = 1 << 10
	sizeMB = 1 << 20
	sizeGB = 1 << 30
)

// HumanSize formats a byte count the way the preview displays it.
// Directories show "-" (use DisplaySize).
func HumanSize(n int64) string {
	switch {
	case n < sizeKB:
		return fmt.Sprintf("%d B", n)
	case n < sizeMB:
		return fmt.Sprintf("%.0f KB", float64(n)/sizeKB)
	case n < sizeGB:
		return fmt.Sprintf("%.1f MB", float64(n)/sizeMB)
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/sizeGB)
	}
}

// DisplaySize renders the size column for one listing entry.
func (e ScanEntry) DisplaySize() string {
	if e.IsDir {
		return "-"
	}

	return HumanSize(e.Size)
}

// DisplayType renders the type column: the uppercased extension for files,
// a folder marker for directories.
func (e ScanEntry) DisplayType() string {
	if e.IsDir {
		return "dir"
	}

	ext := filepath.Ext(e.Name)
	if ext == "" {
		return "file"
	}

	return strings.ToUpper(ext[1:])
}
