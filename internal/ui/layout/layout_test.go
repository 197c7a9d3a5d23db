package layout

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) {
		t.Error("79 columns should be too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestRenderFooter_DropsDescriptionsWhenNarrow(t *testing.T) {
	hints := []KeyHint{{Key: "Enter", Description: "Select"}, {Key: "Esc", Description: "Back"}}
	if f := RenderFooter(hints, 100); !strings.Contains(f, "Select") {
		t.Errorf("wide footer missing description: %q", f)
	}
	if f := RenderFooter(hints, 20); strings.Contains(f, "Select") || !strings.Contains(f, "Esc") {
		t.Errorf("narrow footer should keep only keys: %q", f)
	}
}

func TestSpread_KeepsGaps(t *testing.T) {
	got := spread("L", "C", "R", 3)
	if got != "L C R" {
		t.Errorf("spread = %q", got)
	}
}

func TestHintsFor_SkipsDisabled(t *testing.T) {
	flag := key.NewBinding(key.WithKeys("f"), key.WithHelp("F", "Flag"))
	next := key.NewBinding(key.WithKeys("n"), key.WithHelp("N", "Next"))
	next.SetEnabled(false)

	hints := HintsFor(flag, next)
	if len(hints) != 1 {
		t.Fatalf("expected 1 hint, got %d", len(hints))
	}
	if hints[0].Key != "F" || hints[0].Description != "Flag" {
		t.Errorf("unexpected hint %+v", hints[0])
	}
}

func TestRenderHeader_ShowsEstimate(t *testing.T) {
	h := RenderHeader("Home", Status{OverallProgress: 25, EstimatedScore: 28, HasEstimate: true}, 100)
	if !strings.Contains(h, "Est. 28/36") {
		t.Errorf("header missing estimate: %q", h)
	}
	if !strings.Contains(h, "25% plan") {
		t.Errorf("header missing plan progress: %q", h)
	}

	h = RenderHeader("Home", Status{}, 100)
	if !strings.Contains(h, "Est. --/36") {
		t.Errorf("header should show placeholder estimate: %q", h)
	}
}
