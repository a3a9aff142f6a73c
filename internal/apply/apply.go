// Package apply implements single-display mode and orientation changes
// via the legacy test-then-commit ChangeDisplaySettingsEx call.
// Position changes are not handled here: they require the full active
// display set to compact correctly around a primary, so they go
// through the orchestrator package's atomic multi-position pipeline
// even for a single display -- see engine.Engine.SetPosition.
package apply

import (
	"fmt"

	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/enginerr"
	"displaycontrol/internal/modes"
)

// ModeRequest is a target resolution/refresh/orientation for a single
// adapter device.
type ModeRequest struct {
	Width, Height uint32
	RefreshRate   uint32
	Orientation   ccdapi.DisplayOrientation
}

// ApplyDisplayMode resolves adapterDeviceName's current devmode, verifies
// the requested mode is in the catalog, builds the field-masked devmode
// to commit, and runs the OS call with TEST then UPDATEREGISTRY.
// DISP_CHANGE_RESTART is accepted as success.
func ApplyDisplayMode(adapterDeviceName string, cat modes.Catalog, req ModeRequest) error {
	if _, err := cat.Lookup(req.Width, req.Height, req.RefreshRate); err != nil {
		return enginerr.NewConfigurationFailed("mode", fmt.Sprintf("%dx%d@%dHz", req.Width, req.Height, req.RefreshRate), "not in mode catalog")
	}

	current, ok := modes.CurrentDevMode(adapterDeviceName)
	if !ok {
		return enginerr.NewInvalidPath(fmt.Sprintf("could not read current devmode for %s", adapterDeviceName))
	}

	dm := current
	resolutionChanges := current.PelsWidth != req.Width || current.PelsHeight != req.Height || current.DisplayFrequency != req.RefreshRate

	if exact, ok := modes.LookupDevMode(adapterDeviceName, req.Width, req.Height, req.RefreshRate); ok {
		dm = exact
	} else if resolutionChanges {
		dm.PelsWidth = req.Width
		dm.PelsHeight = req.Height
		dm.DisplayFrequency = req.RefreshRate
	}
	dm.DisplayOrientation = uint32(req.Orientation)

	mask := ccdapi.DmDisplayOrientation
	if resolutionChanges {
		mask |= ccdapi.DmPelsWidthBit | ccdapi.DmPelsHeightBit | ccdapi.DmDisplayFrequencyBit | ccdapi.DmDisplayFlagsBit
	}
	dm.Fields = mask

	return commitDevMode(adapterDeviceName, &dm)
}

// SetDisplayOrientation changes only the orientation of the mode
// currently in effect for adapterDeviceName.
func SetDisplayOrientation(adapterDeviceName string, orientation ccdapi.DisplayOrientation) error {
	current, ok := modes.CurrentDevMode(adapterDeviceName)
	if !ok {
		return enginerr.NewInvalidPath(fmt.Sprintf("could not read current devmode for %s", adapterDeviceName))
	}
	current.DisplayOrientation = uint32(orientation)
	current.Fields = ccdapi.DmDisplayOrientation
	return commitDevMode(adapterDeviceName, &current)
}

// commitDevMode runs the TEST-then-commit two-step against the legacy
// change-settings surface, mapping the raw result code through the
// engine's error taxonomy and accepting RESTART as success.
func commitDevMode(adapterDeviceName string, dm *ccdapi.DevMode) error {
	if result := ccdapi.ChangeDisplaySettings(adapterDeviceName, dm, ccdapi.CdsTest); result != ccdapi.DispChangeSuccessful {
		return enginerr.Translate(result, "mode test")
	}
	result := ccdapi.ChangeDisplaySettings(adapterDeviceName, dm, ccdapi.CdsUpdateRegistry)
	if result == ccdapi.DispChangeSuccessful || result == ccdapi.DispChangeRestart {
		return nil
	}
	return enginerr.Translate(result, "mode commit")
}
