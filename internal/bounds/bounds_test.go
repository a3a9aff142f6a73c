package bounds

import (
	"testing"

	"displaycontrol/internal/ccdapi"
)

func TestOverlapsDisjoint(t *testing.T) {
	a := ccdapi.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}
	b := ccdapi.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}
	if Overlaps(a, b) {
		t.Fatalf("adjacent (touching, not overlapping) rects reported as overlapping")
	}
}

func TestOverlapsIntersecting(t *testing.T) {
	a := ccdapi.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}
	b := ccdapi.Rect{Left: 1000, Top: 0, Right: 2000, Bottom: 1080}
	if !Overlaps(a, b) {
		t.Fatalf("overlapping rects reported as disjoint")
	}
}

func TestMonitorWidthHeight(t *testing.T) {
	m := Monitor{Rect: ccdapi.Rect{Left: 100, Top: 50, Right: 1920, Bottom: 1130}}
	if m.Width() != 1820 {
		t.Fatalf("Width() = %d, want 1820", m.Width())
	}
	if m.Height() != 1080 {
		t.Fatalf("Height() = %d, want 1080", m.Height())
	}
}
