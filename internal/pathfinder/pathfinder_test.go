package pathfinder

import (
	"testing"

	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/identity"
	"displaycontrol/internal/topology"
)

func activePath(sourceID, targetID uint32) ccdapi.DisplayConfigPathInfo {
	return ccdapi.DisplayConfigPathInfo{
		SourceInfo: ccdapi.DisplayConfigPathSourceInfo{Id: sourceID},
		TargetInfo: ccdapi.DisplayConfigPathTargetInfo{Id: targetID},
		Flags:      ccdapi.DisplayConfigPathActive,
	}
}

func TestFindNoPaths(t *testing.T) {
	if _, err := Find(topology.Snapshot{}, nil, 1); err != ErrNoPaths {
		t.Fatalf("Find on empty snapshot: got %v, want ErrNoPaths", err)
	}
}

func TestFindBySourceID(t *testing.T) {
	snap := topology.Snapshot{Paths: []ccdapi.DisplayConfigPathInfo{
		activePath(0, 0),
		activePath(1, 1),
	}}
	p, err := Find(snap, nil, 2)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p.SourceInfo.Id != 1 {
		t.Fatalf("Find(2).SourceInfo.Id = %d, want 1", p.SourceInfo.Id)
	}
}

func TestFindByIdentityUID(t *testing.T) {
	adapter := ccdapi.LUID{LowPart: 7}
	snap := topology.Snapshot{Paths: []ccdapi.DisplayConfigPathInfo{
		{
			SourceInfo: ccdapi.DisplayConfigPathSourceInfo{Id: 9},
			TargetInfo: ccdapi.DisplayConfigPathTargetInfo{AdapterId: adapter, Id: 3},
			Flags:      ccdapi.DisplayConfigPathActive,
		},
	}}
	mappings := []identity.Mapping{
		{LogicalNumber: 1, AdapterID: adapter, TargetID: 3, UID: 42, Matched: true},
	}
	p, err := Find(snap, mappings, 1)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p.SourceInfo.Id != 9 {
		t.Fatalf("Find via identity returned source id %d, want 9", p.SourceInfo.Id)
	}
}

func TestFindFallsBackToDirectIndex(t *testing.T) {
	snap := topology.Snapshot{Paths: []ccdapi.DisplayConfigPathInfo{
		activePath(100, 200),
		activePath(101, 201),
		activePath(102, 202),
	}}
	p, err := Find(snap, nil, 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p.SourceInfo.Id != 102 {
		t.Fatalf("Find(3) direct-index fallback = %d, want 102", p.SourceInfo.Id)
	}
}

func TestFindWrappedIndexIsLastResort(t *testing.T) {
	snap := topology.Snapshot{Paths: []ccdapi.DisplayConfigPathInfo{
		activePath(10, 20),
		activePath(11, 21),
		activePath(12, 22),
	}}
	// logicalNumber=5 misses identity, source-id, target-id, and both
	// direct-index variants (5 > len(paths)=3); only the wrapped index
	// (5-1)%3=1 resolves it, to paths[1].
	p, err := Find(snap, nil, 5)
	if err != nil {
		t.Fatalf("Find(5) via wrapped index: %v", err)
	}
	if p.SourceInfo.Id != 11 {
		t.Fatalf("Find(5) wrapped-index fallback = %d, want 11", p.SourceInfo.Id)
	}

	if _, err := Find(snap, nil, 99); err != nil {
		t.Fatalf("Find(99) should always succeed via wrapped index when paths exist, got %v", err)
	}
}

func TestFindInactiveSearchesFullSlice(t *testing.T) {
	inactive := ccdapi.DisplayConfigPathInfo{
		SourceInfo: ccdapi.DisplayConfigPathSourceInfo{Id: 1},
		TargetInfo: ccdapi.DisplayConfigPathTargetInfo{Id: 1},
		Flags:      0, // not active
	}
	snap := topology.Snapshot{Paths: []ccdapi.DisplayConfigPathInfo{
		activePath(0, 0),
		inactive,
	}}
	p, idx, err := FindInactive(snap, nil, 2)
	if err != nil {
		t.Fatalf("FindInactive: %v", err)
	}
	if idx != 1 {
		t.Fatalf("FindInactive idx = %d, want 1", idx)
	}
	if p.Flags&ccdapi.DisplayConfigPathActive != 0 {
		t.Fatalf("FindInactive returned an active path")
	}
}

func TestIndexOf(t *testing.T) {
	snap := topology.Snapshot{Paths: []ccdapi.DisplayConfigPathInfo{
		activePath(0, 0),
		activePath(1, 1),
	}}
	if idx := IndexOf(snap, snap.Paths[1]); idx != 1 {
		t.Fatalf("IndexOf = %d, want 1", idx)
	}
	missing := activePath(9, 9)
	if idx := IndexOf(snap, missing); idx != -1 {
		t.Fatalf("IndexOf(missing) = %d, want -1", idx)
	}
}
