// Package narration flattens flow specs into independently synthesizable
// narration units.
package narration

import (
	"fmt"

	"github.com/dgnsrekt/flowtts/internal/flow"
)

// Kind classifies where in the flow a narration unit came from.
type Kind string

const (
	// KindIntro is flow-level narration spoken before any step.
	KindIntro Kind = "intro"
	// KindStep is step-level narration describing the step's actions.
	KindStep Kind = "step"
	// KindAction is narration attached to a single action.
	KindAction Kind = "action"
)

// Unit is one synthesizable chunk of narration. Step-level units carry the
// step's full action list so cue points can be aligned against it;
// action-level units carry only their own action.
type Unit struct {
	ID      string
	Text    string
	Step    int
	Kind    Kind
	Role    string
	Actions []flow.Action
}

// Interactive returns how many of the unit's actions participate in
// cue-point alignment.
func (u Unit) Interactive() int {
	n := 0
	for _, a := range u.Actions {
		if a.Interactive() {
			n++
		}
	}
	return n
}

// Extract flattens a spec document into its ordered narration units: the
// flow intro first, then per step the step narration followed by any
// action-level narrations. Steps and actions without narration contribute
// no unit.
func Extract(doc *flow.Document) []Unit {
	var units []Unit
	flowID := doc.Flow.ID

	if doc.Flow.Narration != "" {
		units = append(units, Unit{
			ID:   flowID + "/intro",
			Text: doc.Flow.Narration,
			Step: 0,
			Kind: KindIntro,
			Role: flow.RoleUnknown,
		})
	}

	for i, step := range doc.Steps {
		num := i + 1

		if step.Narration != "" {
			units = append(units, Unit{
				ID:      fmt.Sprintf("%s/step-%d", flowID, num),
				Text:    step.Narration,
				Step:    num,
				Kind:    KindStep,
				Role:    step.Role,
				Actions: step.Actions,
			})
		}

		for j, action := range step.Actions {
			if action.Narration == "" {
				continue
			}
			units = append(units, Unit{
				ID:      fmt.Sprintf("%s/step-%d-action-%d", flowID, num, j+1),
				Text:    action.Narration,
				Step:    num,
				Kind:    KindAction,
				Role:    step.Role,
				Actions: []flow.Action{action},
			})
		}
	}

	return units
}
