package folder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// Store is the single source of truth for usage statistics and annotations.
// It owns persistence: every mutating call saves synchronously. Edit
// frequency is low, so a full serialization per open is acceptable at this
// scale (hundreds to low thousands of entries).
//
// A Store is not safe for concurrent use. The session serializes all access
// through the coordinating goroutine; one-shot CLI commands are single
// threaded anyway.
type Store struct {
	path string
	now  func() time.Time

	usage       map[Key]*Usage
	annotations map[Key]*Annotation

	// native remembers the platform-native path string first seen for a
	// key, so saves do not rewrite the user-visible keys of an existing
	// store file.
	native map[Key]string

	// LoadNotice is a human-readable note set when the persisted file was
	// unreadable or malformed and the store fell back to empty state.
	// Data loss is acceptable there; a crash is not.
	LoadNotice string
}

// storeFile is the persisted layout. Keys are platform-native path strings,
// re-canonicalized on load for matching. Timestamps are epoch seconds;
// decoded as float64 because older writers stored fractional seconds.
type storeFile struct {
	OpenHistory    map[string]usageRecord `json:"open_history"`
	FolderComments map[string]string      `json:"folder_comments"`
	LastSaved      float64                `json:"last_saved"`
}

type usageRecord struct {
	Count       int     `json:"count"`
	FirstOpened float64 `json:"first_opened"`
	LastOpened  float64 `json:"last_opened"`
}

// LoadStore reads the history file at path. A missing file is not an error:
// the store starts empty. Malformed content also yields an empty store, with
// the corruption surfaced via LoadNotice instead of a failure.
func LoadStore(path string) *Store {
	s := &Store{
		path:        path,
		now:         time.Now,
		usage:       make(map[Key]*Usage),
		annotations: make(map[Key]*Annotation),
		native:      make(map[Key]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.LoadNotice = fmt.Sprintf("cannot read history file %s: %v (starting empty)", path, err)
		}

		return s
	}

	var file storeFile

	if err := json.Unmarshal(data, &file); err != nil {
		s.LoadNotice = fmt.Sprintf("history file %s is malformed: %v (starting empty)", path, err)

		return s
	}

	for nativePath, rec := range file.OpenHistory {
		key := Normalize(nativePath)

		s.usage[key] = &Usage{
			Count:       rec.Count,
			FirstOpened: fromEpoch(rec.FirstOpened),
			LastOpened:  fromEpoch(rec.LastOpened),
		}
		s.rememberNative(key, nativePath)
	}

	for nativePath, comment := range file.FolderComments {
		key := Normalize(nativePath)

		ann := parseAnnotation(comment)
		s.annotations[key] = &ann
		s.rememberNative(key, nativePath)
	}

	return s
}

// RecordOpen registers one open event for path: first open creates the usage
// record, later opens increment the count and bump last_opened. Persists.
func (s *Store) RecordOpen(nativePath string) error {
	key := Normalize(nativePath)
	now := s.now()

	if u, ok := s.usage[key]; ok {
		u.Count++
		u.LastOpened = now
	} else {
		s.usage[key] = &Usage{Count: 1, FirstOpened: now, LastOpened: now}
	}

	s.rememberNative(key, nativePath)

	return s.Save()
}

// SetComment stores text verbatim as the comment for path. A trimmed-empty
// text deletes the annotation. Persists.
func (s *Store) SetComment(nativePath, text string) error {
	key := Normalize(nativePath)

	if strings.TrimSpace(text) == "" {
		delete(s.annotations, key)

		return s.Save()
	}

	ann := parseAnnotation(text)
	s.annotations[key] = &ann
	s.rememberNative(key, nativePath)

	return s.Save()
}

// SetAutoComment applies an auto-generated comment, but only while the
// existing comment is still auto-generated or absent. A manual comment pins
// the annotation until the user clears it. Reports whether it applied.
func (s *Store) SetAutoComment(nativePath, comment string) (bool, error) {
	key := Normalize(nativePath)

	if existing, ok := s.annotations[key]; ok && !existing.Auto {
		return false, nil
	}

	ann := parseAnnotation(comment)
	s.annotations[key] = &ann
	s.rememberNative(key, nativePath)

	return true, s.Save()
}

// Usage returns the usage record for key, if any.
func (s *Store) Usage(key Key) (*Usage, bool) {
	u, ok := s.usage[key]
	return u, ok
}

// UsageMap exposes the full usage map for ranking. Callers must not mutate.
func (s *Store) UsageMap() map[Key]*Usage {
	return s.usage
}

// Annotation returns the annotation for key, if any.
func (s *Store) Annotation(key Key) (*Annotation, bool) {
	a, ok := s.annotations[key]
	return a, ok
}

// Opened reports whether key has ever been opened. The opened set is by
// definition the set of usage keys.
func (s *Store) Opened(key Key) bool {
	_, ok := s.usage[key]
	return ok
}

// OpenedSet returns the set of keys with a usage record.
func (s *Store) OpenedSet() map[Key]bool {
	set := make(map[Key]bool, len(s.usage))

	for key := range s.usage {
		set[key] = true
	}

	return set
}

// Len returns the number of usage records.
func (s *Store) Len() int {
	return len(s.usage)
}

// Save serializes the store atomically (write-temp-then-rename) under an
// exclusive lock, so a crash mid-write never corrupts the previous file and
// two rf processes never interleave writes.
func (s *Store) Save() error {
	file := storeFile{
		OpenHistory:    make(map[string]usageRecord, len(s.usage)),
		FolderComments: make(map[string]string, len(s.annotations)),
		LastSaved:      toEpoch(s.now()),
	}

	for key, u := range s.usage {
		file.OpenHistory[s.nativeKey(key)] = usageRecord{
			Count:       u.Count,
			FirstOpened: toEpoch(u.FirstOpened),
			LastOpened:  toEpoch(u.LastOpened),
		}
	}

	for key, ann := range s.annotations {
		file.FolderComments[s.nativeKey(key)] = ann.Comment
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	return WithLock(s.path, func() error {
		if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("writing history: %w", err)
		}

		return nil
	})
}

// SetNowFunc overrides the clock, for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

func (s *Store) rememberNative(key Key, nativePath string) {
	if _, ok := s.native[key]; !ok {
		s.native[key] = nativePath
	}
}

// nativeKey returns the persisted key for a canonical key: the native path
// first seen for it, falling back to the canonical form itself.
func (s *Store) nativeKey(key Key) string {
	if native, ok := s.native[key]; ok {
		return native
	}

	return string(key)
}

func toEpoch(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func fromEpoch(sec float64) time.Time {
	return time.UnixMilli(int64(sec * 1000))
}
