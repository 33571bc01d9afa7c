// Package align estimates cue points: timestamps within narration audio at
// which the narrated UI actions should visually occur.
//
// The model is deliberately simple. Speech is assumed to proceed at a
// uniform characters-per-second rate, so a phrase found at byte offset p in
// the narration text is spoken at roughly p/rate seconds. Actions whose
// selector text never shows up in the narration are spread across the
// middle of the audio instead. The result is a heuristic schedule, not a
// transcription alignment.
package align

import (
	"sort"
	"strings"

	"github.com/dgnsrekt/flowtts/internal/flow"
)

// EstimatedPhrase marks cue points produced by the positional fallback
// rather than a real narration match.
const EstimatedPhrase = "(estimated)"

// confirmationPhrases are tried first when the selector text suggests a
// confirmation tap ("again"/"confirm"). Hardcoded vocabulary for how the
// narration scripts describe second taps; extend here, not inline.
var confirmationPhrases = []string{
	"confirms with a second tap",
	"confirms the action",
	"taps again",
	"second tap",
}

// clickTemplates generate candidate phrases for click actions, most
// specific first. %s is the bare selector text.
var clickTemplates = []string{
	"taps the %s",
	"clicks the %s",
	"taps %s",
	"clicks %s",
	"click the %s",
	"tap the %s",
}

// CuePoint binds one action to an estimated moment in the audio. Results
// are sorted by time, so ActionIndex, not slice position, identifies the
// action.
type CuePoint struct {
	Time        float64 `json:"time"`
	ActionIndex int     `json:"action_index"`
	Phrase      string  `json:"phrase"`
	Selector    string  `json:"selector"`
	Kind        string  `json:"kind"`
}

// Align estimates one cue point per interactive (click/fill) action in the
// narration audio. It never fails: with empty text or a non-positive
// duration there is nothing to infer and the result is empty. Identical
// inputs always produce identical output.
func Align(text string, duration float64, actions []flow.Action) []CuePoint {
	if text == "" || duration <= 0 {
		return nil
	}

	rate := float64(len(text)) / duration
	lower := strings.ToLower(text)

	interactive := 0
	for _, a := range actions {
		if a.Interactive() {
			interactive++
		}
	}

	var cues []CuePoint
	claimed := make(map[int]struct{})

	for idx, action := range actions {
		if !action.Interactive() {
			continue
		}

		phrase, pos := findPhrase(lower, candidates(action), claimed)
		if pos >= 0 {
			claimed[pos] = struct{}{}
			cues = append(cues, CuePoint{
				Time:        float64(pos) / rate,
				ActionIndex: idx,
				Phrase:      phrase,
				Selector:    action.Selector,
				Kind:        strings.ToLower(action.Type),
			})
			continue
		}

		// Positional fallback: the first unmatched action lands ~30% in,
		// later ones spread across the following ~50% of the audio.
		position := float64(len(cues)) / float64(max(interactive, 1))
		cues = append(cues, CuePoint{
			Time:        duration*0.3 + position*duration*0.5,
			ActionIndex: idx,
			Phrase:      EstimatedPhrase,
			Selector:    action.Selector,
			Kind:        strings.ToLower(action.Type),
		})
	}

	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Time < cues[j].Time
	})

	return cues
}

// SelectorText derives the bare descriptive phrase from a selector by
// stripping a leading text= marker and surrounding quotes.
func SelectorText(selector string) string {
	s := strings.TrimPrefix(selector, "text=")
	return strings.Trim(s, `"'`)
}

// candidates builds the ordered phrase list for an action, most specific
// first. Fill actions generate none and always take the fallback.
func candidates(action flow.Action) []string {
	selText := strings.ToLower(SelectorText(action.Selector))

	var phrases []string
	if strings.Contains(selText, "again") || strings.Contains(selText, "confirm") {
		phrases = append(phrases, confirmationPhrases...)
	}

	if strings.ToLower(action.Type) == flow.ActionClick {
		for _, tmpl := range clickTemplates {
			phrases = append(phrases, strings.Replace(tmpl, "%s", selText, 1))
		}
		phrases = append(phrases, selText)
	}

	return phrases
}

// findPhrase searches the lowercased narration for each candidate in
// priority order and returns the first phrase found at a position no
// earlier action has claimed. Occurrences of the same phrase are scanned
// forward past claimed positions before the next candidate is tried.
// Returns ("", -1) when nothing usable is found.
func findPhrase(lower string, phrases []string, claimed map[int]struct{}) (string, int) {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		offset := 0
		for {
			i := strings.Index(lower[offset:], phrase)
			if i < 0 {
				break
			}
			pos := offset + i
			if _, taken := claimed[pos]; !taken {
				return phrase, pos
			}
			offset = pos + 1
		}
	}
	return "", -1
}
