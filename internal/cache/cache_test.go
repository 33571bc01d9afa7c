package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dgnsrekt/flowtts/internal/align"
)

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "step-1.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingManifest(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), ".narration-cache.json"))

	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing manifest should not fail: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty manifest, got %d entries", len(m))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), ".narration-cache.json"))

	want := Manifest{
		"checkout/step-1": {
			Hash:     HashText("The user taps the Pay Now button."),
			File:     "e2e/audio/checkout/checkout-step-1.wav",
			Text:     "The user taps the Pay Now button.",
			Duration: 4.25,
			Role:     "customer",
			Step:     1,
			Type:     "step",
			CuePoints: []align.CuePoint{
				{Time: 1.1, ActionIndex: 0, Phrase: "taps the pay now", Selector: "text=Pay Now", Kind: "click"},
			},
		},
		"checkout/intro": {
			Hash:     HashText("Welcome."),
			File:     "e2e/audio/checkout/checkout-intro.wav",
			Text:     "Welcome.",
			Duration: 1.5,
			Role:     "UNKNOWN",
			Step:     0,
			Type:     "intro",
		},
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", want, got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), ".narration-cache.json"))

	if err := store.Save(Manifest{"a": {Hash: "1"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(Manifest{"b": {Hash: "2"}}); err != nil {
		t.Fatal(err)
	}

	m, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m["a"]; ok {
		t.Error("old manifest contents survived an overwrite")
	}
	if _, ok := m["b"]; !ok {
		t.Error("new manifest contents missing after overwrite")
	}
}

func TestHashText(t *testing.T) {
	if HashText("hello") != HashText("hello") {
		t.Error("identical text must hash identically")
	}
	if HashText("hello") == HashText("Hello") {
		t.Error("different text must hash differently")
	}
	if len(HashText("")) != 64 {
		t.Error("expected a sha256 hex digest")
	}
}

func TestFresh(t *testing.T) {
	audio := tempAudioFile(t)
	hash := HashText("narration text")
	cues := []align.CuePoint{{Time: 1, ActionIndex: 0}}

	tests := []struct {
		name     string
		entry    Entry
		hash     string
		needCues bool
		want     bool
	}{
		{
			name:  "fresh without cue requirement",
			entry: Entry{Hash: hash, File: audio},
			hash:  hash,
			want:  true,
		},
		{
			name:     "fresh with cue points present",
			entry:    Entry{Hash: hash, File: audio, CuePoints: cues},
			hash:     hash,
			needCues: true,
			want:     true,
		},
		{
			name:  "stale hash",
			entry: Entry{Hash: HashText("old text"), File: audio},
			hash:  hash,
			want:  false,
		},
		{
			name:  "audio file missing",
			entry: Entry{Hash: hash, File: filepath.Join(t.TempDir(), "gone.wav")},
			hash:  hash,
			want:  false,
		},
		{
			name:     "cue points required but absent",
			entry:    Entry{Hash: hash, File: audio},
			hash:     hash,
			needCues: true,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fresh(tt.entry, tt.hash, tt.needCues); got != tt.want {
				t.Errorf("Fresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
