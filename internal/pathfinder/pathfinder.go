// Package pathfinder locates the CCD path entry addressing a given
// logical display inside a Snapshot, trying progressively looser
// strategies. Windows is not required to keep a path's array index
// stable across calls, so callers must re-resolve a path on every
// mutation rather than caching an index.
package pathfinder

import (
	"errors"

	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/identity"
	"displaycontrol/internal/topology"
)

// ErrNoPaths is returned when the snapshot carries no paths at all.
var ErrNoPaths = errors.New("pathfinder: snapshot has no paths")

// Find locates the path for a logical display number among snap's
// active paths, trying strategies in order of specificity:
//  1. UID-to-target correlation (via the identity mapping table)
//  2. source id equals logicalNumber-1 (the common layout)
//  3. target id equals logicalNumber-1
//  4. direct index into the active-path slice, falling back to the
//     full (unfiltered) path slice
//  5. wrapped index: (logicalNumber-1) mod path_count into the full
//     path slice -- a last resort that always succeeds when the
//     snapshot carries at least one path
//
// The first strategy to produce a match wins; later strategies are not
// consulted once one succeeds.
func Find(snap topology.Snapshot, mappings []identity.Mapping, logicalNumber int) (ccdapi.DisplayConfigPathInfo, error) {
	if len(snap.Paths) == 0 {
		return ccdapi.DisplayConfigPathInfo{}, ErrNoPaths
	}

	active := snap.ActivePaths()

	if mapping, ok := identity.ByLogicalNumber(mappings, logicalNumber); ok {
		for _, p := range active {
			if p.TargetInfo.AdapterId == mapping.AdapterID && p.TargetInfo.Id == mapping.TargetID {
				return p, nil
			}
		}
	}

	wantID := uint32(logicalNumber - 1)
	for _, p := range active {
		if p.SourceInfo.Id == wantID {
			return p, nil
		}
	}
	for _, p := range active {
		if p.TargetInfo.Id == wantID {
			return p, nil
		}
	}

	if logicalNumber >= 1 && logicalNumber <= len(active) {
		return active[logicalNumber-1], nil
	}
	if logicalNumber >= 1 && logicalNumber <= len(snap.Paths) {
		return snap.Paths[logicalNumber-1], nil
	}

	return snap.Paths[wrappedIndex(logicalNumber, len(snap.Paths))], nil
}

// FindInactive is Find's counterpart for re-enabling a display: it
// searches the full (not active-only) path slice, since a disabled
// display's path is present but lacks the ACTIVE flag.
func FindInactive(snap topology.Snapshot, mappings []identity.Mapping, logicalNumber int) (ccdapi.DisplayConfigPathInfo, int, error) {
	if len(snap.Paths) == 0 {
		return ccdapi.DisplayConfigPathInfo{}, -1, ErrNoPaths
	}

	if mapping, ok := identity.ByLogicalNumber(mappings, logicalNumber); ok {
		for i, p := range snap.Paths {
			if p.TargetInfo.AdapterId == mapping.AdapterID && p.TargetInfo.Id == mapping.TargetID {
				return p, i, nil
			}
		}
	}

	wantID := uint32(logicalNumber - 1)
	for i, p := range snap.Paths {
		if p.SourceInfo.Id == wantID {
			return p, i, nil
		}
	}
	for i, p := range snap.Paths {
		if p.TargetInfo.Id == wantID {
			return p, i, nil
		}
	}

	if logicalNumber >= 1 && logicalNumber <= len(snap.Paths) {
		idx := logicalNumber - 1
		return snap.Paths[idx], idx, nil
	}

	idx := wrappedIndex(logicalNumber, len(snap.Paths))
	return snap.Paths[idx], idx, nil
}

// wrappedIndex maps logicalNumber into [0, pathCount) by wrapping,
// per spec layer 5: (logicalNumber-1) mod path_count. pathCount must
// be > 0; callers check len(snap.Paths) == 0 up front.
func wrappedIndex(logicalNumber, pathCount int) int {
	idx := (logicalNumber - 1) % pathCount
	if idx < 0 {
		idx += pathCount
	}
	return idx
}

// IndexOf returns the index of a path (matched by adapter+source+target
// id) within snap.Paths, or -1 if not present. Used by callers that
// must mutate snap.Paths in place after Find returned a copy.
func IndexOf(snap topology.Snapshot, path ccdapi.DisplayConfigPathInfo) int {
	for i, p := range snap.Paths {
		if p.SourceInfo.AdapterId == path.SourceInfo.AdapterId &&
			p.SourceInfo.Id == path.SourceInfo.Id &&
			p.TargetInfo.Id == path.TargetInfo.Id {
			return i
		}
	}
	return -1
}
