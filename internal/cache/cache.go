// Package cache persists narration generation results across runs so
// unchanged narration text is never resynthesized.
//
// The store is a single JSON manifest mapping narration unit IDs to their
// content hash, audio path, duration, and cue points. It is read fully at
// startup and written fully at shutdown; single-writer usage is assumed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgnsrekt/flowtts/internal/align"
)

// Entry records everything needed to reuse a narration unit's audio.
type Entry struct {
	Hash      string           `json:"hash"`
	File      string           `json:"file"`
	Text      string           `json:"text"`
	Duration  float64          `json:"duration"`
	Role      string           `json:"role"`
	Step      int              `json:"step"`
	Type      string           `json:"type"`
	CuePoints []align.CuePoint `json:"cue_points,omitempty"`
}

// Manifest maps narration unit IDs to their cached entries.
type Manifest map[string]Entry

// Store reads and writes the manifest file.
type Store struct {
	Path string
}

// NewStore creates a store backed by the manifest at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the whole manifest. A missing file is not an error; it yields
// an empty manifest.
func (s *Store) Load() (Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("unable to read cache file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unable to parse cache file: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// Save writes the whole manifest. The write goes to a temp file first and
// is renamed into place so a crash never leaves a truncated manifest.
func (s *Store) Save(m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("unable to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode cache: %w", err)
	}

	tempPath := s.Path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("unable to write cache file: %w", err)
	}
	if err := os.Rename(tempPath, s.Path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("unable to replace cache file: %w", err)
	}
	return nil
}

// HashText returns the content hash used for cache freshness checks.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether an entry can be reused for narration text with the
// given hash. The referenced audio file must still exist, and when the
// unit has interactive actions the entry must already carry cue points.
func Fresh(e Entry, textHash string, needCuePoints bool) bool {
	if e.Hash != textHash {
		return false
	}
	if _, err := os.Stat(e.File); err != nil {
		return false
	}
	if needCuePoints && len(e.CuePoints) == 0 {
		return false
	}
	return true
}
