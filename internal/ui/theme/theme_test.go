package theme

import "testing"

func TestApply(t *testing.T) {
	t.Cleanup(func() { Apply(true) })

	Apply(false)
	if IsDark() {
		t.Error("expected light palette")
	}
	if Primary != LightPalette.Primary {
		t.Errorf("Primary = %v, want %v", Primary, LightPalette.Primary)
	}

	Apply(true)
	if !IsDark() {
		t.Error("expected dark palette")
	}
	if Text != DarkPalette.Text {
		t.Errorf("Text = %v, want %v", Text, DarkPalette.Text)
	}
}
