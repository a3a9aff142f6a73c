package engine

import (
	"time"

	"displaycontrol/internal/apply"
	"displaycontrol/internal/bounds"
	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/displayid"
	"displaycontrol/internal/enginelog"
	"displaycontrol/internal/enginerr"
	"displaycontrol/internal/identity"
	"displaycontrol/internal/modes"
	"displaycontrol/internal/orchestrator"
)

// Mode names a target resolution/refresh pair, independent of the
// orientation it is applied with.
type Mode struct {
	Width, Height uint32
	RefreshHz     uint32
}

// ApplyMode changes a logical display's resolution, refresh rate, and
// orientation in one call: test-then-commit through the legacy
// change-settings surface, pre-flight-checked against the mode catalog.
func (e *Engine) ApplyMode(logicalID string, mode Mode, orientation ccdapi.DisplayOrientation) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.resolve()
	if err != nil {
		return err
	}
	m, err := r.mappingFor(logicalID)
	if err != nil {
		return err
	}
	adapterName, _, ok := adapterDeviceName(m)
	if !ok || adapterName == "" {
		return enginerr.NewInvalidPath("could not resolve adapter device name for " + logicalID)
	}
	cat, err := modes.Enumerate(adapterName)
	if err != nil {
		return enginerr.NewUnknown("modes.Enumerate", err)
	}
	return apply.ApplyDisplayMode(adapterName, cat, apply.ModeRequest{
		Width: mode.Width, Height: mode.Height, RefreshRate: mode.RefreshHz, Orientation: orientation,
	})
}

// SetOrientation changes only a logical display's orientation, leaving
// its current mode otherwise intact.
func (e *Engine) SetOrientation(logicalID string, orientation ccdapi.DisplayOrientation) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.resolve()
	if err != nil {
		return err
	}
	m, err := r.mappingFor(logicalID)
	if err != nil {
		return err
	}
	adapterName, _, ok := adapterDeviceName(m)
	if !ok || adapterName == "" {
		return enginerr.NewInvalidPath("could not resolve adapter device name for " + logicalID)
	}
	return apply.SetDisplayOrientation(adapterName, orientation)
}

// PositionInput is one display's target virtual-desktop position.
type PositionInput struct {
	LogicalID string
	X, Y      int32
}

// PositionInfo extends PositionInput with an explicit rectangle for
// displays the engine cannot currently resolve live dimensions for
// (e.g. one being positioned as part of the same batch that enables
// it) -- the caller-supplied width/height take precedence over a live
// bounds/topology lookup when both are present.
type PositionInfo struct {
	LogicalID     string
	X, Y          int32
	Width, Height uint32
	IsPrimary     bool
}

// SetPosition moves a single logical display, delegated to the same
// atomic multi-position pipeline the orchestrator uses for multi-display
// moves. Every other currently-active display is gathered at its live
// position alongside the target (the same pattern SetPrimary uses) so
// compaction's primary-centered translation has the rest of the set to
// shift around instead of the target's own requested position becoming
// the compaction origin -- a one-element list's "first display" and
// "primary" are the same element, which collapses any requested
// coordinate to (0,0).
func (e *Engine) SetPosition(logicalID string, x, y int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.resolve()
	if err != nil {
		return err
	}
	target, err := r.mappingFor(logicalID)
	if err != nil {
		return err
	}
	boundsMap := bounds.Query()

	all := gatherActivePositioned(r, boundsMap)
	targetID := displayid.Format(target.LogicalNumber)
	found := false
	for i := range all {
		if all[i].LogicalID == targetID {
			all[i].Position = orchestrator.Point{X: x, Y: y}
			found = true
			break
		}
	}
	if !found {
		return enginerr.NewInvalidPath("set_position: target display is not currently active")
	}

	return orchestrator.ApplyMultipleDisplayPositions(r.snap, all)
}

// gatherActivePositioned builds one PositionedDisplay per currently
// enabled display, using live bounds data where available and falling
// back to the topology snapshot's source-mode record otherwise. Shared
// by SetPosition and SetPrimary, which both need the full active set's
// live positions before compacting around a new origin.
func gatherActivePositioned(r resolved, boundsMap map[string]bounds.Monitor) []orchestrator.PositionedDisplay {
	var all []orchestrator.PositionedDisplay
	for _, m := range r.mappings {
		if !m.Active {
			continue
		}
		adapterName, dev, _ := adapterDeviceName(m)
		b, hasBounds := boundsMap[adapterName]
		width, height := int32(0), int32(0)
		var x, y int32
		isPrimary := dev.StateFlags&ccdapi.DisplayDevicePrimaryDevice != 0
		if hasBounds {
			width, height = b.Width(), b.Height()
			x, y = b.Rect.Left, b.Rect.Top
			isPrimary = isPrimary || b.Primary
		} else if m.PathIndex >= 0 && m.PathIndex < len(r.snap.Paths) {
			if sm, ok := r.snap.SourceMode(r.snap.Paths[m.PathIndex]); ok {
				width, height = int32(sm.Width), int32(sm.Height)
				x, y = sm.Position.X, sm.Position.Y
			}
		}
		all = append(all, orchestrator.PositionedDisplay{
			LogicalID:   displayid.Format(m.LogicalNumber),
			AdapterName: adapterName,
			Position:    orchestrator.Point{X: x, Y: y},
			Width:       width,
			Height:      height,
			IsPrimary:   isPrimary,
		}.WithPathIndex(m.PathIndex))
	}
	return all
}

// ApplyPositions atomically repositions every named display, resolving
// their current width/height/primary status live.
func (e *Engine) ApplyPositions(positions []PositionInput) error {
	infos := make([]PositionInfo, len(positions))
	for i, p := range positions {
		infos[i] = PositionInfo{LogicalID: p.LogicalID, X: p.X, Y: p.Y}
	}
	return e.ApplyPositionsWithInfo(infos)
}

// ApplyPositionsWithInfo atomically repositions every named display,
// using a caller-supplied rectangle where given and falling back to a
// live lookup otherwise. Unknown logical ids are skipped with a warning,
// per the orchestrator's join-then-compact contract.
func (e *Engine) ApplyPositionsWithInfo(positions []PositionInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.resolve()
	if err != nil {
		return err
	}
	boundsMap := bounds.Query()

	list := make([]orchestrator.PositionedDisplay, 0, len(positions))
	for _, p := range positions {
		m, err := r.mappingFor(p.LogicalID)
		if err != nil {
			log.Warn("apply_positions: skipping unresolved logical id", enginelog.KeyError, err.Error())
			continue
		}
		width, height := int32(p.Width), int32(p.Height)
		isPrimary := p.IsPrimary
		if adapterName, dev, ok := adapterDeviceName(m); ok {
			if b, found := boundsMap[adapterName]; found {
				if width == 0 {
					width = b.Width()
				}
				if height == 0 {
					height = b.Height()
				}
				isPrimary = isPrimary || b.Primary
			} else {
				isPrimary = isPrimary || dev.StateFlags&ccdapi.DisplayDevicePrimaryDevice != 0
			}
		}
		if width == 0 || height == 0 {
			if m.PathIndex >= 0 && m.PathIndex < len(r.snap.Paths) {
				if sm, ok := r.snap.SourceMode(r.snap.Paths[m.PathIndex]); ok {
					if width == 0 {
						width = int32(sm.Width)
					}
					if height == 0 {
						height = int32(sm.Height)
					}
				}
			}
		}

		list = append(list, orchestrator.PositionedDisplay{
			LogicalID:   displayid.Format(m.LogicalNumber),
			AdapterName: mustAdapterName(m),
			Position:    orchestrator.Point{X: p.X, Y: p.Y},
			Width:       width,
			Height:      height,
			IsPrimary:   isPrimary,
		}.WithPathIndex(m.PathIndex))
	}

	if len(list) == 0 {
		return enginerr.NewInvalidPath("apply_positions: no requested logical id resolved")
	}

	return orchestrator.ApplyMultipleDisplayPositions(r.snap, list)
}

func mustAdapterName(m identity.Mapping) string {
	name, _, _ := adapterDeviceName(m)
	return name
}

// SetPrimary designates logicalID as the primary display: every enabled
// display's is_primary flag is flipped, positions are recompacted
// around the new origin, and the result is applied atomically. This is
// the only primary-designation path the engine exposes -- a bare
// "primary flag only" mutation would leave other displays overlapping
// the new origin.
func (e *Engine) SetPrimary(logicalID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.resolve()
	if err != nil {
		return err
	}
	target, err := r.mappingFor(logicalID)
	if err != nil {
		return err
	}
	boundsMap := bounds.Query()

	all := gatherActivePositioned(r, boundsMap)
	_, err = orchestrator.SetPrimaryDisplay(r.snap, all, displayid.Format(target.LogicalNumber))
	return err
}

// TestMode applies mode+orientation, holds for TestModeHoldDuration (a
// fixed 15 s; it is not read from config), then reverts to whatever
// mode was active beforehand -- running the revert even if the initial
// apply reported an error. No revert is attempted when the previous
// mode could not be read. onComplete, if non-nil, is invoked with the
// apply error (nil on success) before the hold begins.
const TestModeHoldDuration = 15 * time.Second

func (e *Engine) TestMode(logicalID string, mode Mode, orientation ccdapi.DisplayOrientation, onComplete func(error)) error {
	e.mu.Lock()
	r, err := e.resolve()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	m, err := r.mappingFor(logicalID)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	adapterName, _, ok := adapterDeviceName(m)
	if !ok || adapterName == "" {
		e.mu.Unlock()
		return enginerr.NewInvalidPath("could not resolve adapter device name for " + logicalID)
	}
	previous, hadPrevious := modes.CurrentDevMode(adapterName)
	e.mu.Unlock()

	applyErr := e.ApplyMode(logicalID, mode, orientation)
	if onComplete != nil {
		onComplete(applyErr)
	}

	time.Sleep(TestModeHoldDuration)

	if !hadPrevious {
		return applyErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	revertErr := revertDevMode(adapterName, previous)
	if revertErr != nil {
		log.Error("test_mode: revert failed", enginelog.KeyError, revertErr.Error())
		return revertErr
	}
	return applyErr
}

func revertDevMode(adapterName string, dm ccdapi.DevMode) error {
	dm.Fields = ccdapi.DmPelsWidthBit | ccdapi.DmPelsHeightBit | ccdapi.DmDisplayFrequencyBit | ccdapi.DmDisplayFlagsBit | ccdapi.DmDisplayOrientation
	result := ccdapi.ChangeDisplaySettings(adapterName, &dm, ccdapi.CdsUpdateRegistry)
	if result != ccdapi.DispChangeSuccessful && result != ccdapi.DispChangeRestart {
		return enginerr.Translate(result, "test mode revert")
	}
	return nil
}

// BatchSetEnabled applies set_enabled to every entry, best-effort:
// one failure never prevents the remaining entries from being tried.
func (e *Engine) BatchSetEnabled(entries map[string]bool) *orchestrator.BatchResult {
	result := orchestrator.NewBatchResult()
	for id, enabled := range entries {
		result.Record(id, e.SetEnabled(id, enabled))
	}
	return result
}

// ModeOrientation bundles a target mode and orientation for one entry
// of a BatchApplyModes call.
type ModeOrientation struct {
	Mode        Mode
	Orientation ccdapi.DisplayOrientation
}

// BatchApplyModes applies apply_mode to every entry, best-effort.
func (e *Engine) BatchApplyModes(entries map[string]ModeOrientation) *orchestrator.BatchResult {
	result := orchestrator.NewBatchResult()
	for id, req := range entries {
		result.Record(id, e.ApplyMode(id, req.Mode, req.Orientation))
	}
	return result
}

// BatchApplyOrientations applies set_orientation to every entry, best-effort.
func (e *Engine) BatchApplyOrientations(entries map[string]ccdapi.DisplayOrientation) *orchestrator.BatchResult {
	result := orchestrator.NewBatchResult()
	for id, orientation := range entries {
		result.Record(id, e.SetOrientation(id, orientation))
	}
	return result
}
