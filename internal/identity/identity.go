// Package identity correlates CCD targets (adapter id, source id, target
// id) with the hardware database records from internal/hwinventory,
// producing a stable, dense logical numbering for the displays attached
// to the system. Logical numbers are assigned in ascending UID order so
// that the same physical monitor receives the same logical number
// across runs, independent of enumeration or cable-reattachment order.
package identity

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/hwinventory"
	"displaycontrol/internal/topology"
)

// Mapping ties one logical display number to the CCD path addressing it
// and, where correlation succeeded, to its hardware database record.
type Mapping struct {
	LogicalNumber int
	AdapterID     ccdapi.LUID
	SourceID      uint32
	TargetID      uint32
	UID           uint32
	DevicePath    string
	FriendlyName  string
	InstanceID    string
	Manufacturer  string
	Product       string
	Serial        string
	EdidIdentifier string // the EISA-ID-like segment of DevicePath, e.g. "ACI27BB"
	Matched       bool // true if a hwinventory.Record was found for this UID
	Active        bool   // true if the path backing this mapping carries the ACTIVE flag
	Rotation      uint32 // path.TargetInfo.Rotation (DMDO_* encoding) at resolve time
	PathIndex     int    // index of the backing path within the Snapshot this mapping was built from
}

// ErrIdentityResolutionFailed is returned only when not a single path
// (active or inactive) could be resolved into a mapping -- partial correlation (some
// displays matched, some not) is not an error.
var ErrIdentityResolutionFailed = errors.New("identity: could not resolve any display identity")

var uidPattern = regexp.MustCompile(`UID(\d+)`)

// Resolve builds the logical-number table for every CCD path in snap --
// both active (enabled) and inactive (disabled-but-connected) targets --
// correlating each target against the supplied hardware inventory by
// UID. Callers that want a query limited to QueryDisplayFlagsAllPaths
// get both enabled and disabled displays back from list_displays; a
// caller that only passed active paths simply sees fewer mappings.
func Resolve(snap topology.Snapshot, hwRecords []hwinventory.Record) ([]Mapping, error) {
	byUID := make(map[uint32]hwinventory.Record, len(hwRecords))
	for _, r := range hwRecords {
		if r.UID != 0 {
			byUID[r.UID] = r
		}
	}

	type candidate struct {
		mapping Mapping
	}
	var candidates []candidate
	seenTarget := make(map[uint32]bool)

	for pathIdx, path := range snap.Paths {
		if path.TargetInfo.Id == 0 && path.SourceInfo.Id == 0 {
			continue
		}
		if seenTarget[path.TargetInfo.Id] && path.TargetInfo.Id != 0 {
			continue
		}
		seenTarget[path.TargetInfo.Id] = true
		name, err := ccdapi.GetTargetDeviceName(path.TargetInfo.AdapterId, path.TargetInfo.Id)
		m := Mapping{
			AdapterID: path.TargetInfo.AdapterId,
			SourceID:  path.SourceInfo.Id,
			TargetID:  path.TargetInfo.Id,
			Active:    path.Flags&ccdapi.DisplayConfigPathActive != 0,
			Rotation:  path.TargetInfo.Rotation,
			PathIndex: pathIdx,
		}
		if err == nil {
			m.DevicePath = name.DevicePath()
			m.FriendlyName = name.FriendlyName()
			m.UID = extractUID(m.DevicePath)
			m.EdidIdentifier = extractEdidIdentifier(m.DevicePath)
		}

		if rec, ok := byUID[m.UID]; ok && m.UID != 0 {
			m.Matched = true
			m.InstanceID = rec.InstanceID
			m.Manufacturer = rec.Manufacturer
			m.Product = rec.Product
			m.Serial = rec.Serial
			if m.FriendlyName == "" {
				m.FriendlyName = rec.FriendlyName
			}
		}

		candidates = append(candidates, candidate{mapping: m})
	}

	if len(candidates) == 0 {
		return nil, ErrIdentityResolutionFailed
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].mapping.UID < candidates[j].mapping.UID
	})

	mappings := make([]Mapping, len(candidates))
	for i, c := range candidates {
		c.mapping.LogicalNumber = i + 1
		mappings[i] = c.mapping
	}
	return mappings, nil
}

// ByLogicalNumber returns the mapping for a logical number, or false if
// it is out of range.
func ByLogicalNumber(mappings []Mapping, n int) (Mapping, bool) {
	for _, m := range mappings {
		if m.LogicalNumber == n {
			return m, true
		}
	}
	return Mapping{}, false
}

// edidSegmentPattern pulls the EISA-ID-like segment out of a monitor
// device path, e.g. "\\?\DISPLAY#ACI27BB#5&1a2b3c4d&0&UID176389#{...}"
// yields "ACI27BB".
var edidSegmentPattern = regexp.MustCompile(`DISPLAY#([A-Z0-9]+)#`)

func extractEdidIdentifier(devicePath string) string {
	m := edidSegmentPattern.FindStringSubmatch(devicePath)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractUID(devicePath string) uint32 {
	m := uidPattern.FindStringSubmatch(devicePath)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// String renders a mapping for logs/diagnostics.
func (m Mapping) String() string {
	if m.Matched {
		return fmt.Sprintf("Display%d(uid=%d,%s)", m.LogicalNumber, m.UID, m.FriendlyName)
	}
	return fmt.Sprintf("Display%d(uid=%d,unmatched)", m.LogicalNumber, m.UID)
}
