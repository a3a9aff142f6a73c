// Package enable implements the multi-strategy enablement state
// machine: nine ordered strategies, three-source post-application
// consensus validation, and opt-in performance tracking driving
// adaptive reordering.
package enable

import (
	"fmt"
	"strings"
	"time"

	"displaycontrol/internal/bounds"
	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/displayid"
	"displaycontrol/internal/enginerr"
	"displaycontrol/internal/pathfinder"
	"displaycontrol/internal/statecache"
	"displaycontrol/internal/topology"
)

// AllStrategiesExhaustedError is the terminal error returned when
// every strategy in the attempted order either failed outright or
// applied without validation converging.
type AllStrategiesExhaustedError struct {
	LastErrorPerStrategy map[Name]error
}

func (e *AllStrategiesExhaustedError) Error() string {
	parts := make([]string, 0, len(e.LastErrorPerStrategy))
	for name, err := range e.LastErrorPerStrategy {
		parts = append(parts, fmt.Sprintf("%s: %v", name, err))
	}
	return "enable: all strategies exhausted: " + strings.Join(parts, "; ")
}

// Machine sequences strategies for one logical display, recording
// outcomes in its Tracker and validating each application via
// consensus before declaring success.
type Machine struct {
	Tracker              *Tracker
	StrictBoundsOverride bool
	ConsensusMinSources  int
}

// NewMachine returns a state machine backed by tracker, applying the
// business-logic override (CCD-active-but-bounds-silent treated as
// inactive) when strictBoundsOverride is true.
func NewMachine(tracker *Tracker, strictBoundsOverride bool) *Machine {
	return &Machine{Tracker: tracker, StrictBoundsOverride: strictBoundsOverride, ConsensusMinSources: 2}
}

// Enable tries strategies in the tracker's recommended order (or
// DefaultOrder when no telemetry exists) until one both applies
// cleanly and validates, or every strategy is exhausted.
func (m *Machine) Enable(req Request) error {
	order := m.Tracker.RecommendedOrder()
	lastErrors := make(map[Name]error)

	for i, name := range order {
		strat, ok := resolveStrategy(name)
		if !ok {
			continue
		}

		start := time.Now()
		err := strat.Enable(req)
		duration := time.Since(start)

		if err == nil {
			ok, reason := m.validateEnabled(req)
			if ok {
				m.Tracker.Record(Result{
					Strategy: name, Operation: "enable", LogicalID: displayid.Format(req.LogicalNumber),
					Success: true, Duration: duration, AttemptIndex: i, Timestamp: start,
				})
				return nil
			}
			err = enginerr.NewValidationTimeout(fmt.Sprintf("%s applied but validation did not converge: %s", name, reason))
		}

		lastErrors[name] = err
		m.Tracker.Record(Result{
			Strategy: name, Operation: "enable", LogicalID: displayid.Format(req.LogicalNumber),
			Success: false, Duration: duration, Error: err.Error(), AttemptIndex: i, Timestamp: start,
		})
	}

	return &AllStrategiesExhaustedError{LastErrorPerStrategy: lastErrors}
}

// validateEnabled polls the three consensus signals and reports whether
// at least ConsensusMinSources of them resolved and a majority agree
// the display is enabled.
func (m *Machine) validateEnabled(req Request) (bool, string) {
	var signals []bool
	var reasons []string

	boundsMap := bounds.Query()
	if _, ok := boundsMap[req.AdapterDeviceName]; ok {
		signals = append(signals, true)
	} else if m.StrictBoundsOverride {
		signals = append(signals, false)
		reasons = append(reasons, "bounds has no record for this device")
	}

	if attached, known := adapterAttached(req.AdapterDeviceName); known {
		signals = append(signals, attached)
		if !attached {
			reasons = append(reasons, "adapter enumeration does not report ATTACHED_TO_DESKTOP")
		}
	}

	if snap, err := topology.Query(ccdapi.QueryDisplayFlagsAllPaths); err == nil {
		active := false
		if p, err := pathfinder.Find(snap, req.Mappings, req.LogicalNumber); err == nil {
			active = p.Flags&ccdapi.DisplayConfigPathActive != 0 && p.TargetInfo.TargetAvailable != 0
		}
		signals = append(signals, active)
		if !active {
			reasons = append(reasons, "topology reports no active path for this logical display")
		}
	}

	if len(signals) == 0 {
		return false, "no consensus signal resolved"
	}
	if len(signals) < m.ConsensusMinSources {
		reasons = append(reasons, fmt.Sprintf("only %d of the required %d consensus sources resolved", len(signals), m.ConsensusMinSources))
		return false, strings.Join(reasons, "; ")
	}

	agree := 0
	for _, s := range signals {
		if s {
			agree++
		}
	}
	majority := agree*2 >= len(signals)
	if !majority {
		return false, strings.Join(reasons, "; ")
	}
	return true, ""
}

// adapterAttached scans adapter enumeration for the named device and
// reports whether it carries ATTACHED_TO_DESKTOP.
func adapterAttached(adapterDeviceName string) (attached bool, known bool) {
	for i := uint32(0); ; i++ {
		dev, ok := ccdapi.EnumDisplayDevices("", i, 0)
		if !ok {
			return false, false
		}
		name := utf16FixedToString(dev.DeviceName[:])
		if name == adapterDeviceName {
			return dev.StateFlags&ccdapi.DisplayDeviceAttachedToDesktop != 0, true
		}
	}
}

func utf16FixedToString(s []uint16) string {
	for i, v := range s {
		if v == 0 {
			s = s[:i]
			break
		}
	}
	runes := make([]rune, len(s))
	for i, v := range s {
		runes[i] = rune(v)
	}
	return string(runes)
}

// Disable mirrors Enable: it captures the display's current state into
// the state cache, then deactivates its path (removing it from the
// active set, or zeroing its flags as a fallback), applying with
// supplied-config flags. The legacy null-devmode change-settings call
// is the last resort.
func (m *Machine) Disable(req Request) error {
	snap, err := topology.Query(ccdapi.QueryDisplayFlagsAllPaths)
	if err != nil {
		return enginerr.NewUnknown("topology.Query", err)
	}

	path, err := pathfinder.Find(snap, req.Mappings, req.LogicalNumber)
	if err != nil {
		return enginerr.NewInvalidPath(err.Error())
	}
	idx := pathfinder.IndexOf(snap, path)
	if idx < 0 {
		return enginerr.NewInvalidPath("disable: resolved path not present in snapshot")
	}

	if sm, ok := snap.SourceMode(path); ok {
		req.StateCache.Save(req.LogicalNumber, statecache.Entry{
			Width: sm.Width, Height: sm.Height,
			RefreshRate: path.TargetInfo.RefreshRate.Numerator,
			Orientation: path.TargetInfo.Rotation,
			PositionX:   sm.Position.X, PositionY: sm.Position.Y,
		})
	}

	start := time.Now()
	remaining := make([]ccdapi.DisplayConfigPathInfo, 0, len(snap.Paths)-1)
	for i, p := range snap.Paths {
		if i == idx {
			continue
		}
		remaining = append(remaining, p)
	}

	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsUseSuppliedDisplayConfig | ccdapi.SdcFlagsAllowChanges | ccdapi.SdcFlagsSaveToDatabase
	applyErr := topology.ApplyRaw(remaining, snap.Modes, flags)
	if applyErr != nil {
		// Fallback: zero the path's flags in place rather than removing it.
		paths := make([]ccdapi.DisplayConfigPathInfo, len(snap.Paths))
		copy(paths, snap.Paths)
		paths[idx].Flags = 0
		applyErr = topology.ApplyRaw(paths, snap.Modes, flags)
	}
	if applyErr != nil {
		// Last resort: legacy null-devmode change-settings call.
		result := ccdapi.ChangeDisplaySettings(req.AdapterDeviceName, nil, ccdapi.CdsUpdateRegistry)
		if result != ccdapi.DispChangeSuccessful && result != ccdapi.DispChangeRestart {
			applyErr = enginerr.Translate(result, "disable legacy fallback")
		} else {
			applyErr = nil
		}
	}

	result := Result{
		Strategy: "disable", Operation: "disable", LogicalID: displayid.Format(req.LogicalNumber),
		Success: applyErr == nil, Duration: time.Since(start), Timestamp: start,
	}
	if applyErr != nil {
		result.Error = applyErr.Error()
	}
	m.Tracker.Record(result)
	return applyErr
}
