// Package diff is the engine's one piece of the observer feed: a pure
// function comparing two successive list_displays snapshots and
// producing change-notification events. The poller that calls this on
// a schedule, and everything downstream of the events it emits, is an
// external collaborator -- this package only detects, never observes
// on its own.
package diff

import (
	"sort"
	"time"

	"displaycontrol/internal/display"
)

// ChangeType classifies one detected difference between a display's
// previous and current state.
type ChangeType int

const (
	Removed ChangeType = iota
	Added
	StateChanged
	ConfigurationChanged
)

func (c ChangeType) String() string {
	switch c {
	case Removed:
		return "Removed"
	case Added:
		return "Added"
	case StateChanged:
		return "StateChanged"
	case ConfigurationChanged:
		return "ConfigurationChanged"
	default:
		return "Unknown"
	}
}

// priority orders change types for output: Added precedes StateChanged
// precedes ConfigurationChanged; Removed (the most disruptive change)
// sorts first of all.
func (c ChangeType) priority() int {
	switch c {
	case Removed:
		return 0
	case Added:
		return 1
	case StateChanged:
		return 2
	case ConfigurationChanged:
		return 3
	default:
		return 4
	}
}

// Event is one change-notification payload.
type Event struct {
	Previous   *display.LogicalDisplay
	Current    *display.LogicalDisplay
	ChangeType ChangeType
	Timestamp  time.Time
}

// Detect compares a previous and current list_displays result and
// returns the set of changes, sorted by priority (Removed, Added,
// StateChanged, ConfigurationChanged) then by logical number.
func Detect(previous, current []display.LogicalDisplay, timestamp time.Time) []Event {
	prevByID := make(map[string]display.LogicalDisplay, len(previous))
	for _, d := range previous {
		prevByID[d.LogicalID] = d
	}
	currByID := make(map[string]display.LogicalDisplay, len(current))
	for _, d := range current {
		currByID[d.LogicalID] = d
	}

	var events []Event

	for id, prev := range prevByID {
		if _, ok := currByID[id]; !ok {
			p := prev
			events = append(events, Event{Previous: &p, ChangeType: Removed, Timestamp: timestamp})
		}
	}

	for id, curr := range currByID {
		prev, existed := prevByID[id]
		c := curr
		if !existed {
			events = append(events, Event{Current: &c, ChangeType: Added, Timestamp: timestamp})
			continue
		}
		if ct, changed := classify(prev, curr); changed {
			p := prev
			events = append(events, Event{Previous: &p, Current: &c, ChangeType: ct, Timestamp: timestamp})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].ChangeType.priority() != events[j].ChangeType.priority() {
			return events[i].ChangeType.priority() < events[j].ChangeType.priority()
		}
		return logicalNumberOf(events[i]) < logicalNumberOf(events[j])
	})

	return events
}

func logicalNumberOf(e Event) int {
	if e.Current != nil {
		return e.Current.LogicalNumber
	}
	if e.Previous != nil {
		return e.Previous.LogicalNumber
	}
	return 0
}

// classify decides whether a matched pair differs only in runtime
// state (enabled/primary/attached/position/orientation) or in its
// configured mode (resolution/refresh/bits-per-pixel) -- the latter
// wins when both differ, since it is the lower-priority (later-sorted)
// classification.
func classify(prev, curr display.LogicalDisplay) (ChangeType, bool) {
	configChanged := prev.Width != curr.Width || prev.Height != curr.Height ||
		prev.RefreshHz != curr.RefreshHz || prev.BitsPerPixel != curr.BitsPerPixel

	stateChanged := prev.IsEnabled != curr.IsEnabled || prev.IsPrimary != curr.IsPrimary ||
		prev.IsAttached != curr.IsAttached || prev.PositionX != curr.PositionX ||
		prev.PositionY != curr.PositionY || prev.Orientation != curr.Orientation

	switch {
	case configChanged:
		return ConfigurationChanged, true
	case stateChanged:
		return StateChanged, true
	default:
		return 0, false
	}
}
