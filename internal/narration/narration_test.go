package narration

import (
	"testing"

	"github.com/dgnsrekt/flowtts/internal/flow"
)

func sampleDoc() *flow.Document {
	return &flow.Document{
		Flow: flow.Flow{
			ID:        "behavior-verification",
			Narration: "Welcome to the behavior verification flow.",
		},
		Steps: []flow.Step{
			{
				Narration: "The user taps the Upsell Wine button.",
				Role:      "guest",
				Actions: []flow.Action{
					{Type: "click", Selector: "text=Upsell Wine"},
					{Type: "wait", Selector: ".spinner"},
				},
			},
			{
				// No step narration, but the second action narrates itself.
				Role: flow.RoleUnknown,
				Actions: []flow.Action{
					{Type: "fill", Selector: "input.email"},
					{Type: "click", Selector: "text=Submit", Narration: "And we submit the form."},
				},
			},
			{
				// Nothing narrated here: contributes no units.
				Role:    "admin",
				Actions: []flow.Action{{Type: "click", Selector: "text=Close"}},
			},
		},
	}
}

func TestExtractOrderAndIDs(t *testing.T) {
	units := Extract(sampleDoc())

	wantIDs := []string{
		"behavior-verification/intro",
		"behavior-verification/step-1",
		"behavior-verification/step-2-action-2",
	}
	if len(units) != len(wantIDs) {
		t.Fatalf("expected %d units, got %d", len(wantIDs), len(units))
	}
	for i, want := range wantIDs {
		if units[i].ID != want {
			t.Errorf("unit %d: expected ID %q, got %q", i, want, units[i].ID)
		}
	}
}

func TestExtractKindsAndSteps(t *testing.T) {
	units := Extract(sampleDoc())

	tests := []struct {
		idx  int
		kind Kind
		step int
		role string
	}{
		{0, KindIntro, 0, flow.RoleUnknown},
		{1, KindStep, 1, "guest"},
		{2, KindAction, 2, flow.RoleUnknown},
	}
	for _, tt := range tests {
		u := units[tt.idx]
		if u.Kind != tt.kind {
			t.Errorf("unit %d: expected kind %q, got %q", tt.idx, tt.kind, u.Kind)
		}
		if u.Step != tt.step {
			t.Errorf("unit %d: expected step %d, got %d", tt.idx, tt.step, u.Step)
		}
		if u.Role != tt.role {
			t.Errorf("unit %d: expected role %q, got %q", tt.idx, tt.role, u.Role)
		}
	}
}

func TestExtractActionAssociations(t *testing.T) {
	units := Extract(sampleDoc())

	// The step unit carries the step's whole action list.
	if got := len(units[1].Actions); got != 2 {
		t.Errorf("expected step unit to carry 2 actions, got %d", got)
	}
	if units[1].Interactive() != 1 {
		t.Errorf("expected 1 interactive action on step unit, got %d", units[1].Interactive())
	}

	// An action unit carries only its own action.
	if got := len(units[2].Actions); got != 1 {
		t.Fatalf("expected action unit to carry 1 action, got %d", got)
	}
	if units[2].Actions[0].Selector != "text=Submit" {
		t.Errorf("action unit carries the wrong action: %q", units[2].Actions[0].Selector)
	}
}

func TestExtractNoNarrations(t *testing.T) {
	doc := &flow.Document{
		Flow: flow.Flow{ID: "silent-flow"},
		Steps: []flow.Step{
			{Actions: []flow.Action{{Type: "click", Selector: "text=Go"}}},
		},
	}
	if units := Extract(doc); len(units) != 0 {
		t.Errorf("expected no units for a silent flow, got %d", len(units))
	}
}
