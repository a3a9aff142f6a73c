// Package modes enumerates the display modes (resolution + refresh
// rate) a given adapter device supports via the legacy
// EnumDisplaySettingsEx surface, and resolves the mode currently in
// effect.
package modes

import (
	"fmt"

	"displaycontrol/internal/ccdapi"
)

// Mode is one deduplicated resolution/refresh-rate pair a device
// reported support for.
type Mode struct {
	Width       uint32
	Height      uint32
	RefreshRate uint32
	BitsPerPel  uint32
}

// Catalog is the set of modes a device supports, plus whichever one is
// currently active.
type Catalog struct {
	Modes   []Mode
	Current Mode
}

// ErrUnsupportedMode is returned by Lookup when no catalog entry
// matches the requested resolution/refresh combination.
type ErrUnsupportedMode struct {
	Width, Height, RefreshRate uint32
}

func (e ErrUnsupportedMode) Error() string {
	return fmt.Sprintf("modes: %dx%d@%dHz is not a supported mode for this device", e.Width, e.Height, e.RefreshRate)
}

// Enumerate walks EnumDisplaySettingsEx for adapterDeviceName (e.g.
// `\\.\DISPLAY1`) from index 0 until the OS reports no more modes,
// filtering degenerate entries (zero width, height, or refresh) and
// deduplicating by (width, height, refresh).
func Enumerate(adapterDeviceName string) (Catalog, error) {
	seen := make(map[Mode]struct{})
	var out []Mode

	for i := uint32(0); ; i++ {
		dm, ok := ccdapi.EnumDisplaySettings(adapterDeviceName, i)
		if !ok {
			break
		}
		m := Mode{Width: dm.PelsWidth, Height: dm.PelsHeight, RefreshRate: dm.DisplayFrequency, BitsPerPel: dm.BitsPerPel}
		if m.Width == 0 || m.Height == 0 || m.RefreshRate == 0 {
			continue
		}
		key := Mode{Width: m.Width, Height: m.Height, RefreshRate: m.RefreshRate}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}

	cat := Catalog{Modes: out}
	if dm, ok := ccdapi.EnumDisplaySettings(adapterDeviceName, ccdapi.EnumCurrentSettings); ok {
		cat.Current = Mode{Width: dm.PelsWidth, Height: dm.PelsHeight, RefreshRate: dm.DisplayFrequency, BitsPerPel: dm.BitsPerPel}
	}
	return cat, nil
}

// Lookup finds the exact catalog entry for a resolution/refresh pair.
// Refresh of 0 matches the first entry for that resolution regardless
// of refresh rate, mirroring ChangeDisplaySettingsEx's own "don't care"
// convention for an unset DM_DISPLAYFREQUENCY field.
func (c Catalog) Lookup(width, height, refresh uint32) (Mode, error) {
	for _, m := range c.Modes {
		if m.Width != width || m.Height != height {
			continue
		}
		if refresh == 0 || m.RefreshRate == refresh {
			return m, nil
		}
	}
	return Mode{}, ErrUnsupportedMode{Width: width, Height: height, RefreshRate: refresh}
}

// Supports reports whether the catalog has an exact entry for the
// given resolution/refresh pair.
func (c Catalog) Supports(width, height, refresh uint32) bool {
	_, err := c.Lookup(width, height, refresh)
	return err == nil
}

// LookupDevMode re-walks EnumDisplaySettingsEx for the raw OS devmode
// record matching a resolution/refresh pair exactly, so a caller that
// needs the full OS-owned record (timings, driver-private fields) can
// use it verbatim instead of synthesizing one field-by-field.
func LookupDevMode(adapterDeviceName string, width, height, refresh uint32) (ccdapi.DevMode, bool) {
	for i := uint32(0); ; i++ {
		dm, ok := ccdapi.EnumDisplaySettings(adapterDeviceName, i)
		if !ok {
			return ccdapi.DevMode{}, false
		}
		if dm.PelsWidth == width && dm.PelsHeight == height && (refresh == 0 || dm.DisplayFrequency == refresh) {
			return dm, true
		}
	}
}

// CurrentDevMode fetches the raw OS devmode record currently in
// effect for adapterDeviceName.
func CurrentDevMode(adapterDeviceName string) (ccdapi.DevMode, bool) {
	return ccdapi.EnumDisplaySettings(adapterDeviceName, ccdapi.EnumCurrentSettings)
}
