package folder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Enumerator produces the raw recent-item observations. The OS-specific
// mechanics (shortcut parsing, registry probing) live behind this interface;
// the engine only requires the Observation shape with existence-verified
// directories.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Observation, error)
}

// RecentDir enumerates a directory of recent-item pointers, the portable
// analog of the Windows Recent folder: each symlink's modification time is
// taken as the access time; non-symlink entries carry no target and are
// skipped. Targets that are files map to their parent directory; unreadable
// targets are skipped silently.
type RecentDir struct {
	Dir string
}

// Enumerate reads the recent directory once. A missing recent directory is
// not an error; it yields no observations.
func (r RecentDir) Enumerate(ctx context.Context) ([]Observation, error) {
	dirEntries, err := os.ReadDir(r.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading recent dir %s: %w", r.Dir, err)
	}

	observations := make([]Observation, 0, len(dirEntries))

	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		obs, ok := r.observe(de)
		if ok {
			observations = append(observations, obs)
		}
	}

	return observations, nil
}

// observe turns one recent-dir entry into an observation, or reports false
// for entries that don't resolve to a directory.
func (r RecentDir) observe(de os.DirEntry) (Observation, bool) {
	linkPath := filepath.Join(r.Dir, de.Name())

	info, err := de.Info()
	if err != nil {
		return Observation{}, false
	}

	if info.Mode()&os.ModeSymlink == 0 {
		// Only symlinks are pointers; plain entries of the recent dir
		// carry no target.
		return Observation{}, false
	}

	target, err := os.Readlink(linkPath)
	if err != nil {
		return Observation{}, false
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(r.Dir, target)
	}

	targetInfo, err := os.Stat(target)
	if err != nil {
		// Stale pointer: keep the observation so the entry shows up
		// flagged instead of vanishing.
		return Observation{Path: target, ObservedAt: info.ModTime(), Exists: false}, true
	}

	if !targetInfo.IsDir() {
		// Files map to their parent directory.
		parent := filepath.Dir(target)

		parentInfo, parentErr := os.Stat(parent)
		if parentErr != nil || !parentInfo.IsDir() {
			return Observation{}, false
		}

		target = parent
	}

	return Observation{Path: target, ObservedAt: info.ModTime(), Exists: true}, true
}
