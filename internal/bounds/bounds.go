// Package bounds reports the virtual-desktop rectangle each active
// monitor occupies, keyed by device name, via EnumDisplayMonitors and
// GetMonitorInfo.
package bounds

import "displaycontrol/internal/ccdapi"

// Monitor is one monitor's virtual-desktop placement.
type Monitor struct {
	DeviceName string
	Rect       ccdapi.Rect
	Primary    bool
}

// Query enumerates every monitor the OS currently reports and returns
// their virtual-desktop bounds, keyed by device name (e.g. `\\.\DISPLAY1`).
func Query() map[string]Monitor {
	out := make(map[string]Monitor)
	for _, rec := range ccdapi.EnumDisplayMonitors() {
		info, ok := ccdapi.GetMonitorInfo(rec.Handle)
		if !ok {
			continue
		}
		name := info.DeviceName()
		out[name] = Monitor{
			DeviceName: name,
			Rect:       info.Monitor,
			Primary:    info.IsPrimary(),
		}
	}
	return out
}

// Width returns the rectangle's horizontal extent.
func (m Monitor) Width() int32 { return m.Rect.Right - m.Rect.Left }

// Height returns the rectangle's vertical extent.
func (m Monitor) Height() int32 { return m.Rect.Bottom - m.Rect.Top }

// Overlaps reports whether two monitor rectangles intersect with
// non-zero area.
func Overlaps(a, b ccdapi.Rect) bool {
	if a.Left >= b.Right || b.Left >= a.Right {
		return false
	}
	if a.Top >= b.Bottom || b.Top >= a.Bottom {
		return false
	}
	return true
}
