package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactDisplayPositionsEmpty(t *testing.T) {
	out, err := CompactDisplayPositions(nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestCompactDisplayPositionsPrimaryCentered(t *testing.T) {
	list := []PositionedDisplay{
		{LogicalID: "Display1", Position: Point{X: -1920, Y: 0}, Width: 1920, Height: 1080, IsPrimary: true},
		{LogicalID: "Display2", Position: Point{X: 0, Y: 0}, Width: 1920, Height: 1080},
		{LogicalID: "Display3", Position: Point{X: 1920, Y: 0}, Width: 1920, Height: 1080},
	}

	out, err := CompactDisplayPositions(list)
	assert.NoError(t, err)

	byID := map[string]PositionedDisplay{}
	for _, d := range out {
		byID[d.LogicalID] = d
	}
	assert.Equal(t, Point{X: 0, Y: 0}, byID["Display1"].Position)
}

func TestSetPrimaryRepositioningScenario(t *testing.T) {
	// Scenario 3 from the spec: A is current primary at (-1920,0), B at
	// (0,0), C at (1920,0); after set_primary("C") expect
	// A=(-3840,0), B=(-1920,0), C=(0,0).
	list := []PositionedDisplay{
		{LogicalID: "A", Position: Point{X: -1920, Y: 0}, Width: 1920, Height: 1080, IsPrimary: true},
		{LogicalID: "B", Position: Point{X: 0, Y: 0}, Width: 1920, Height: 1080},
		{LogicalID: "C", Position: Point{X: 1920, Y: 0}, Width: 1920, Height: 1080},
	}
	for i := range list {
		list[i].IsPrimary = list[i].LogicalID == "C"
	}

	out, err := CompactDisplayPositions(list)
	assert.NoError(t, err)

	byID := map[string]Point{}
	for _, d := range out {
		byID[d.LogicalID] = d.Position
	}
	assert.Equal(t, Point{X: -3840, Y: 0}, byID["A"])
	assert.Equal(t, Point{X: -1920, Y: 0}, byID["B"])
	assert.Equal(t, Point{X: 0, Y: 0}, byID["C"])

	for i, a := range out {
		for _, b := range out[i+1:] {
			assert.False(t, Overlaps(a, b), "displays %s and %s overlap", a.LogicalID, b.LogicalID)
		}
	}
}

func TestCompactDisplayPositionsRangeShift(t *testing.T) {
	// Scenario 5 from the spec: "If D1 were {+34000, 0} (width 1920 ->
	// right edge 35920 > 32767), the shift is -3153 pixels, restoring
	// the rightmost edge to 32767." D1 is primary and already sits at
	// its own origin (0,0), so the primary-centered translation is a
	// no-op and the post-translation edge genuinely violates the range
	// -- unlike a primary placed away from zero, which the translation
	// alone would have already pulled back in range.
	list := []PositionedDisplay{
		{LogicalID: "D1", Position: Point{X: 0, Y: 0}, Width: 1920, Height: 2160, IsPrimary: true},
		{LogicalID: "D2", Position: Point{X: 34000, Y: 0}, Width: 1920, Height: 1080},
	}

	out, err := CompactDisplayPositions(list)
	assert.NoError(t, err)

	byID := map[string]PositionedDisplay{}
	for _, d := range out {
		byID[d.LogicalID] = d
	}
	assert.Equal(t, int32(-3153), byID["D1"].Position.X)
	assert.Equal(t, int32(34000-3153), byID["D2"].Position.X)
	rightEdge := byID["D2"].Position.X + byID["D2"].Width
	assert.Equal(t, int32(32767), rightEdge)
	assert.GreaterOrEqual(t, byID["D1"].Position.X, int32(-32768))
}

func TestRangeShiftUnsatisfiableWhenSpanExceedsRange(t *testing.T) {
	// A span wider than the full [-32768, 32767] range can never be
	// brought in bounds by a single uniform shift.
	_, ok := rangeShift(-32768, 70000)
	assert.False(t, ok)
}

func TestCompactDisplayPositionsUnshiftedWhenInRange(t *testing.T) {
	list := []PositionedDisplay{
		{LogicalID: "D1", Position: Point{X: -35000, Y: 0}, Width: 3840, Height: 2160, IsPrimary: true},
		{LogicalID: "D2", Position: Point{X: -31160, Y: 0}, Width: 1920, Height: 1080},
	}

	out, err := CompactDisplayPositions(list)
	assert.NoError(t, err)

	byID := map[string]Point{}
	for _, d := range out {
		byID[d.LogicalID] = d.Position
	}
	assert.Equal(t, Point{X: 0, Y: 0}, byID["D1"])
	assert.Equal(t, Point{X: 3840, Y: 0}, byID["D2"])
}

func TestCompactDisplayPositionsNoOverlapPreservation(t *testing.T) {
	list := []PositionedDisplay{
		{LogicalID: "A", Position: Point{X: 0, Y: 0}, Width: 1920, Height: 1080, IsPrimary: true},
		{LogicalID: "B", Position: Point{X: 1920, Y: 0}, Width: 1920, Height: 1080},
	}
	out, err := CompactDisplayPositions(list)
	assert.NoError(t, err)
	assert.False(t, Overlaps(out[0], out[1]))
}
