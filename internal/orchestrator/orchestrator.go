// Package orchestrator implements primary designation and atomic
// multi-display position application: primary-centered compaction,
// coordinate-range enforcement, and the single topology apply that
// commits every display's position together.
package orchestrator

import (
	"fmt"

	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/enginelog"
	"displaycontrol/internal/topology"
)

var log = enginelog.L("orchestrator")

const (
	minCoordinate = -32768
	maxCoordinate = 32767
)

// Point is a signed virtual-desktop coordinate pair.
type Point struct {
	X, Y int32
}

// PositionedDisplay is one display's placement input to compaction and
// atomic apply.
type PositionedDisplay struct {
	LogicalID     string
	AdapterName   string
	Position      Point
	Width, Height int32
	IsPrimary     bool

	// path/mode indices resolved by the caller (engine facade), used
	// only by applyCompactedPositions to know where to write the
	// new position back into the snapshot.
	pathIndex int
	modeIndex int
}

// ErrRangeUnsatisfiable is returned by compaction when no single shift
// can bring every display within [-32768, 32767] on an axis.
var ErrRangeUnsatisfiable = fmt.Errorf("orchestrator: no shift satisfies the coordinate range on all displays")

// CompactDisplayPositions translates a set of display positions so the
// primary (or, absent one, the first element) lands at (0,0), then
// shifts the whole set by the minimal offset needed to bring every
// display within the signed 16-bit virtual-desktop coordinate range.
func CompactDisplayPositions(list []PositionedDisplay) ([]PositionedDisplay, error) {
	if len(list) == 0 {
		return nil, nil
	}

	out := make([]PositionedDisplay, len(list))
	copy(out, list)

	originIdx := -1
	for i, d := range out {
		if d.IsPrimary {
			originIdx = i
			break
		}
	}
	if originIdx == -1 {
		originIdx = 0
	}
	origin := out[originIdx].Position

	for i := range out {
		out[i].Position.X -= origin.X
		out[i].Position.Y -= origin.Y
	}

	shiftX, ok := rangeShift(minX(out), maxXEdge(out))
	if !ok {
		return nil, ErrRangeUnsatisfiable
	}
	shiftY, ok := rangeShift(minY(out), maxYEdge(out))
	if !ok {
		return nil, ErrRangeUnsatisfiable
	}

	for i := range out {
		out[i].Position.X += shiftX
		out[i].Position.Y += shiftY
	}

	return out, nil
}

// rangeShift finds the smallest-magnitude shift s such that
// lo+s >= minCoordinate and hi+s <= maxCoordinate, or reports false
// if no such shift exists.
func rangeShift(lo, hi int32) (int32, bool) {
	shiftLow := int64(minCoordinate) - int64(lo)  // minimal shift to satisfy the lower bound
	shiftHigh := int64(maxCoordinate) - int64(hi) // maximal shift to satisfy the upper bound
	if shiftLow > shiftHigh {
		return 0, false
	}
	shift := int64(0)
	switch {
	case shift < shiftLow:
		shift = shiftLow
	case shift > shiftHigh:
		shift = shiftHigh
	}
	return int32(shift), true
}

func minX(list []PositionedDisplay) int32 {
	m := list[0].Position.X
	for _, d := range list[1:] {
		if d.Position.X < m {
			m = d.Position.X
		}
	}
	return m
}

func maxXEdge(list []PositionedDisplay) int32 {
	m := list[0].Position.X + list[0].Width
	for _, d := range list[1:] {
		if edge := d.Position.X + d.Width; edge > m {
			m = edge
		}
	}
	return m
}

func minY(list []PositionedDisplay) int32 {
	m := list[0].Position.Y
	for _, d := range list[1:] {
		if d.Position.Y < m {
			m = d.Position.Y
		}
	}
	return m
}

func maxYEdge(list []PositionedDisplay) int32 {
	m := list[0].Position.Y + list[0].Height
	for _, d := range list[1:] {
		if edge := d.Position.Y + d.Height; edge > m {
			m = edge
		}
	}
	return m
}

// Overlaps reports whether two positioned displays' rectangles
// intersect with non-zero area.
func Overlaps(a, b PositionedDisplay) bool {
	if a.Position.X >= b.Position.X+b.Width || b.Position.X >= a.Position.X+a.Width {
		return false
	}
	if a.Position.Y >= b.Position.Y+b.Height || b.Position.Y >= a.Position.Y+a.Height {
		return false
	}
	return true
}

// ApplyMultipleDisplayPositions compacts list and commits every
// display's source-mode position in a single SetDisplayConfig call,
// so clients observe either all positions applied or none.
func ApplyMultipleDisplayPositions(snap topology.Snapshot, list []PositionedDisplay) error {
	compacted, err := CompactDisplayPositions(list)
	if err != nil {
		return err
	}
	return applyCompactedPositions(snap, compacted)
}

// applyCompactedPositions writes an already-compacted list's positions
// into the snapshot and commits it. Separated from
// ApplyMultipleDisplayPositions so callers that compact up front (like
// SetPrimaryDisplay, which needs the compacted result to report back)
// don't pay for a second, redundant compaction pass.
func applyCompactedPositions(snap topology.Snapshot, compacted []PositionedDisplay) error {
	paths := make([]ccdapi.DisplayConfigPathInfo, len(snap.Paths))
	copy(paths, snap.Paths)
	modes := make([]ccdapi.DisplayConfigModeInfo, len(snap.Modes))
	copy(modes, snap.Modes)

	for _, d := range compacted {
		if d.pathIndex < 0 || d.pathIndex >= len(paths) {
			log.Warn("position apply skipped unresolved path", enginelog.KeyComponent, d.LogicalID)
			continue
		}
		sourceIdx := paths[d.pathIndex].SourceInfo.ModeInfoIdx
		if sourceIdx == 0xFFFFFFFF || int(sourceIdx) >= len(modes) {
			continue
		}
		sm := modes[sourceIdx].GetSourceMode()
		newSM := *sm
		newSM.Position = ccdapi.PointL{X: d.Position.X, Y: d.Position.Y}
		modes[sourceIdx].SetSourceMode(&newSM)
	}

	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsUseSuppliedDisplayConfig | ccdapi.SdcFlagsSaveToDatabase
	return topology.ApplyRaw(paths, modes, flags)
}

// WithPathIndex attaches the snapshot path index a caller resolved for
// this display, so ApplyMultipleDisplayPositions knows where to write
// the new position.
func (d PositionedDisplay) WithPathIndex(idx int) PositionedDisplay {
	d.pathIndex = idx
	return d
}

// SetPrimaryDisplay flips is_primary so only targetID carries it,
// recompacts every enabled display's position around the new origin,
// and applies atomically.
func SetPrimaryDisplay(snap topology.Snapshot, all []PositionedDisplay, targetLogicalID string) ([]PositionedDisplay, error) {
	updated := make([]PositionedDisplay, len(all))
	for i, d := range all {
		d.IsPrimary = d.LogicalID == targetLogicalID
		updated[i] = d
	}

	compacted, err := CompactDisplayPositions(updated)
	if err != nil {
		return nil, err
	}

	if err := applyCompactedPositions(snap, compacted); err != nil {
		return nil, err
	}
	return compacted, nil
}

// BatchResult is the outcome of a best-effort batch operation: it never
// short-circuits on a single item's failure.
type BatchResult struct {
	Successes []string
	Failures  map[string]error
}

// NewBatchResult returns an empty result ready for accumulation.
func NewBatchResult() *BatchResult {
	return &BatchResult{Failures: make(map[string]error)}
}

// Record appends one item's outcome.
func (r *BatchResult) Record(logicalID string, err error) {
	if err != nil {
		r.Failures[logicalID] = err
		return
	}
	r.Successes = append(r.Successes, logicalID)
}
