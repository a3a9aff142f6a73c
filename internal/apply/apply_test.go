package apply

import (
	"testing"

	"displaycontrol/internal/enginerr"
	"displaycontrol/internal/modes"
)

func TestApplyDisplayModeRejectsUnsupportedRefresh(t *testing.T) {
	// Scenario 4 from the spec: catalog has 1920x1080 at {60,120} but
	// not 75; apply_mode must fail before any OS call.
	cat := modes.Catalog{Modes: []modes.Mode{
		{Width: 1920, Height: 1080, RefreshRate: 60},
		{Width: 1920, Height: 1080, RefreshRate: 120},
	}}

	err := ApplyDisplayMode(`\\.\DISPLAY1`, cat, ModeRequest{Width: 1920, Height: 1080, RefreshRate: 75})
	if err == nil {
		t.Fatalf("expected ConfigurationFailed, got nil")
	}
	ee, ok := err.(*enginerr.EngineError)
	if !ok {
		t.Fatalf("error type = %T, want *enginerr.EngineError", err)
	}
	if ee.Kind != enginerr.KindConfigurationFailed {
		t.Fatalf("Kind = %v, want KindConfigurationFailed", ee.Kind)
	}
}
