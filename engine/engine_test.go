package engine

import (
	"testing"

	"displaycontrol/internal/bounds"
	"displaycontrol/internal/ccdapi"
)

func TestInsertSortedUniqueDeduplicatesAndSorts(t *testing.T) {
	rates := []uint32{60}
	rates = insertSortedUnique(rates, 120)
	rates = insertSortedUnique(rates, 60) // duplicate, must be a no-op
	rates = insertSortedUnique(rates, 75)

	want := []uint32{60, 75, 120}
	if len(rates) != len(want) {
		t.Fatalf("rates = %v, want %v", rates, want)
	}
	for i, r := range want {
		if rates[i] != r {
			t.Fatalf("rates = %v, want %v", rates, want)
		}
	}
}

func TestRightmostEnabledEdgeExcludesNamedAdapter(t *testing.T) {
	boundsMap := map[string]bounds.Monitor{
		`\\.\DISPLAY1`: {Rect: ccdapi.Rect{Left: 0, Right: 1920, Top: 0, Bottom: 1080}},
		`\\.\DISPLAY2`: {Rect: ccdapi.Rect{Left: 1920, Right: 3840, Top: 0, Bottom: 1080}},
	}

	if edge := rightmostEnabledEdge(boundsMap, ""); edge != 3840 {
		t.Fatalf("rightmostEnabledEdge = %d, want 3840", edge)
	}
	if edge := rightmostEnabledEdge(boundsMap, `\\.\DISPLAY2`); edge != 1920 {
		t.Fatalf("rightmostEnabledEdge excluding DISPLAY2 = %d, want 1920", edge)
	}
}

func TestRightmostEnabledEdgeEmptyIsZero(t *testing.T) {
	if edge := rightmostEnabledEdge(map[string]bounds.Monitor{}, ""); edge != 0 {
		t.Fatalf("rightmostEnabledEdge on empty map = %d, want 0", edge)
	}
}
