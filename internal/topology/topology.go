// Package topology wraps the CCD path/mode buffer-size and query call
// pair behind a single typed call, and provides the atomic apply used by
// every higher-level mutation (enable strategies, mode/position/primary
// changes).
package topology

import (
	"errors"
	"fmt"

	"displaycontrol/internal/ccdapi"
)

// Snapshot is the full CCD path/mode array pair returned by one query.
// Path/mode buffers are created per call and must not be retained across
// later calls: a fresh Snapshot always reflects a fresh OS query.
type Snapshot struct {
	Paths []ccdapi.DisplayConfigPathInfo
	Modes []ccdapi.DisplayConfigModeInfo
}

var (
	// ErrNoPaths is returned by Validated when the OS reports zero paths.
	ErrNoPaths = errors.New("topology: no paths returned")
	// ErrInvalidPathData is returned by Validated when every path has a
	// zero source id and zero target id (the array looks uninitialized).
	ErrInvalidPathData = errors.New("topology: path array has no valid source/target ids")
)

// Query performs the two-call GetDisplayConfigBufferSizes + QueryDisplayConfig
// pattern for the given query flag (QueryDisplayFlagsAllPaths or
// QueryDisplayFlagsOnlyActivePaths).
func Query(flags uint32) (Snapshot, error) {
	numPaths, numModes, err := ccdapi.GetDisplayConfigBufferSizes(flags)
	if err != nil {
		return Snapshot{}, fmt.Errorf("topology: GetDisplayConfigBufferSizes: %w", err)
	}

	paths := make([]ccdapi.DisplayConfigPathInfo, numPaths)
	modes := make([]ccdapi.DisplayConfigModeInfo, numModes)

	numPaths, numModes, err = ccdapi.QueryDisplayConfig(flags, paths, modes)
	if err != nil {
		return Snapshot{}, fmt.Errorf("topology: QueryDisplayConfig: %w", err)
	}

	return Snapshot{
		Paths: paths[:numPaths],
		Modes: modes[:numModes],
	}, nil
}

// Validated wraps Query with the additional invariant checks spec'd for
// the higher-level components: a query that returns no paths, or whose
// path array carries no non-zero source/target id, is treated as a
// failure rather than an empty-but-valid topology.
func Validated(flags uint32) (Snapshot, error) {
	snap, err := Query(flags)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snap.Paths) == 0 {
		return Snapshot{}, ErrNoPaths
	}
	hasValidID := false
	for _, p := range snap.Paths {
		if p.SourceInfo.Id != 0 || p.TargetInfo.Id != 0 {
			hasValidID = true
			break
		}
	}
	if !hasValidID {
		return Snapshot{}, ErrInvalidPathData
	}
	return snap, nil
}

// Apply commits a path/mode array with the given SDC flags, retrying
// once with SdcFlagsAllowChanges added if the first attempt fails and
// AllowChanges was not already set. The enable strategies do not use
// it: they call ApplyRaw once with their own flags.
func Apply(snap Snapshot, flags uint32) error {
	err := ccdapi.SetDisplayConfig(snap.Paths, snap.Modes, flags)
	if err == nil {
		return nil
	}
	if flags&ccdapi.SdcFlagsAllowChanges != 0 {
		return fmt.Errorf("topology: SetDisplayConfig: %w", err)
	}

	retryFlags := flags | ccdapi.SdcFlagsAllowChanges
	if err := ccdapi.SetDisplayConfig(snap.Paths, snap.Modes, retryFlags); err != nil {
		return fmt.Errorf("topology: SetDisplayConfig (with AllowChanges): %w", err)
	}
	return nil
}

// ApplyRaw commits an explicit path/mode array without the retry, used
// when a strategy needs precise control over whether AllowChanges is set.
func ApplyRaw(paths []ccdapi.DisplayConfigPathInfo, modes []ccdapi.DisplayConfigModeInfo, flags uint32) error {
	if err := ccdapi.SetDisplayConfig(paths, modes, flags); err != nil {
		return fmt.Errorf("topology: SetDisplayConfig: %w", err)
	}
	return nil
}

// ActivePaths returns only the paths with the ACTIVE flag set.
func (s Snapshot) ActivePaths() []ccdapi.DisplayConfigPathInfo {
	var out []ccdapi.DisplayConfigPathInfo
	for _, p := range s.Paths {
		if p.Flags&ccdapi.DisplayConfigPathActive != 0 {
			out = append(out, p)
		}
	}
	return out
}

// SourceMode returns the source-mode record for a path, if its
// SourceInfo.ModeInfoIdx indexes a valid source-mode entry.
func (s Snapshot) SourceMode(path ccdapi.DisplayConfigPathInfo) (*ccdapi.DisplayConfigSourceMode, bool) {
	idx := path.SourceInfo.ModeInfoIdx
	if idx == 0xFFFFFFFF || int(idx) >= len(s.Modes) {
		return nil, false
	}
	mode := &s.Modes[idx]
	if mode.InfoType != ccdapi.ModeInfoTypeSource {
		return nil, false
	}
	return mode.GetSourceMode(), true
}
