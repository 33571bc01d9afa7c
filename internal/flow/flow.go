// Package flow models YAML e2e flow specifications and loads them from disk.
package flow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// RoleUnknown is used for steps that don't declare an acting role.
const RoleUnknown = "UNKNOWN"

// Action kinds that the cue-point aligner binds to narration text.
const (
	ActionClick = "click"
	ActionFill  = "fill"
)

// ErrMissingFlowID indicates a spec document without a flow.id field.
var ErrMissingFlowID = errors.New("spec is missing required flow.id field")

// Document is the root of a flow spec file.
type Document struct {
	Flow  Flow   `yaml:"flow"`
	Steps []Step `yaml:"steps"`
}

// Flow identifies a scenario and carries its optional intro narration.
type Flow struct {
	ID        string `yaml:"id"`
	Narration string `yaml:"narration"`
}

// Step is one stage of a flow: optionally narrated, with ordered actions.
type Step struct {
	Narration string   `yaml:"narration"`
	Role      string   `yaml:"role"`
	Actions   []Action `yaml:"actions"`
}

// Action is a single simulated UI interaction.
type Action struct {
	Type      string `yaml:"type"`
	Selector  string `yaml:"selector"`
	Narration string `yaml:"narration"`
}

// Interactive reports whether the action participates in cue-point
// alignment. Only clicks and fills do; everything else is preserved but
// never bound to a timestamp.
func (a Action) Interactive() bool {
	switch strings.ToLower(a.Type) {
	case ActionClick, ActionFill:
		return true
	}
	return false
}

// Load reads and validates a flow spec document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read spec: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse spec %s: %w", filepath.Base(path), err)
	}

	if doc.Flow.ID == "" {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrMissingFlowID)
	}

	// Steps without a declared role get the sentinel.
	for i := range doc.Steps {
		if doc.Steps[i].Role == "" {
			doc.Steps[i].Role = RoleUnknown
		}
	}

	return &doc, nil
}

// LoadSpec loads a spec by name from the specs directory. Both .yaml and
// .yml extensions are tried, .yaml first.
func LoadSpec(dir, name string) (*Document, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return nil, fmt.Errorf("spec not found: %s", filepath.Join(dir, name+".yaml"))
}

// ListSpecs returns the sorted names of all spec files in dir.
func ListSpecs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read specs directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}

	sort.Strings(names)
	return names, nil
}

// Suggest returns up to three spec names that fuzzy-match the given name,
// for "did you mean" error messages.
func Suggest(name string, available []string) []string {
	matches := fuzzy.Find(name, available)
	var suggestions []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}
