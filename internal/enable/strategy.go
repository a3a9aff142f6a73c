package enable

import (
	"context"
	"os/exec"
	"time"

	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/enginerr"
	"displaycontrol/internal/identity"
	"displaycontrol/internal/modes"
	"displaycontrol/internal/pathfinder"
	"displaycontrol/internal/statecache"
	"displaycontrol/internal/topology"
)

// Name is one of the nine tagged strategies, tried in priority order
// until one both applies cleanly and validates.
type Name string

const (
	CcdTargeted          Name = "CcdTargeted"
	CcdModePopulation    Name = "CcdModePopulation"
	CcdMinimalPaths      Name = "CcdMinimalPaths"
	CcdDirectPath        Name = "CcdDirectPath"
	CcdTopologyExtend    Name = "CcdTopologyExtend"
	DevmodeDirect        Name = "DevmodeDirect"
	DevmodeWithReset     Name = "DevmodeWithReset"
	HardwareReset        Name = "HardwareReset"
	DisplaySwitchFallback Name = "DisplaySwitchFallback"
)

// DefaultOrder is the static priority order used when no performance
// telemetry has yet been recorded.
var DefaultOrder = []Name{
	CcdTargeted,
	CcdModePopulation,
	CcdMinimalPaths,
	CcdDirectPath,
	CcdTopologyExtend,
	DevmodeDirect,
	DevmodeWithReset,
	HardwareReset,
	DisplaySwitchFallback,
}

// Request carries everything a strategy needs to attempt enabling one
// logical display.
type Request struct {
	LogicalNumber     int
	Mappings          []identity.Mapping
	ModeCatalog       modes.Catalog
	AdapterDeviceName string
	StateCache        *statecache.Cache
	RightOfX          int32 // rightmost edge among currently enabled displays
}

// Strategy is a tagged-union member: a uniform enable attempt the state
// machine can try, record, and move past.
type Strategy interface {
	Name() Name
	Enable(req Request) error
}

// strategiesByName is the registry of every known strategy, built once.
var strategiesByName = map[Name]Strategy{
	CcdTargeted:           ccdTargetedStrategy{},
	CcdModePopulation:     ccdModePopulationStrategy{},
	CcdMinimalPaths:       ccdMinimalPathsStrategy{},
	CcdDirectPath:         ccdDirectPathStrategy{},
	CcdTopologyExtend:     ccdTopologyExtendStrategy{},
	DevmodeDirect:         devmodeDirectStrategy{},
	DevmodeWithReset:      devmodeWithResetStrategy{},
	HardwareReset:         hardwareResetStrategy{},
	DisplaySwitchFallback: displaySwitchFallbackStrategy{},
}

func resolveStrategy(n Name) (Strategy, bool) {
	s, ok := strategiesByName[n]
	return s, ok
}

// --- CcdTargeted ---

type ccdTargetedStrategy struct{}

func (ccdTargetedStrategy) Name() Name { return CcdTargeted }

func (ccdTargetedStrategy) Enable(req Request) error {
	snap, err := topology.Query(ccdapi.QueryDisplayFlagsAllPaths)
	if err != nil {
		return enginerr.NewUnknown("topology.Query", err)
	}
	_, idx, err := pathfinder.FindInactive(snap, req.Mappings, req.LogicalNumber)
	if err != nil {
		return enginerr.NewInvalidPath(err.Error())
	}

	paths := make([]ccdapi.DisplayConfigPathInfo, len(snap.Paths))
	copy(paths, snap.Paths)
	paths[idx].Flags |= ccdapi.DisplayConfigPathActive
	paths[idx].TargetInfo.TargetAvailable = 1

	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsUseSuppliedDisplayConfig | ccdapi.SdcFlagsAllowChanges | ccdapi.SdcFlagsSaveToDatabase
	return topology.ApplyRaw(paths, snap.Modes, flags)
}

// --- CcdModePopulation ---

type ccdModePopulationStrategy struct{}

func (ccdModePopulationStrategy) Name() Name { return CcdModePopulation }

func (ccdModePopulationStrategy) Enable(req Request) error {
	snap, err := topology.Query(ccdapi.QueryDisplayFlagsAllPaths)
	if err != nil {
		return enginerr.NewUnknown("topology.Query", err)
	}
	path, idx, err := pathfinder.FindInactive(snap, req.Mappings, req.LogicalNumber)
	if err != nil {
		return enginerr.NewInvalidPath(err.Error())
	}

	best := bestCatalogPick(req.ModeCatalog)

	paths := make([]ccdapi.DisplayConfigPathInfo, len(snap.Paths))
	copy(paths, snap.Paths)
	modeArr := make([]ccdapi.DisplayConfigModeInfo, len(snap.Modes), len(snap.Modes)+2)
	copy(modeArr, snap.Modes)

	sourceMode := ccdapi.DisplayConfigModeInfo{InfoType: ccdapi.ModeInfoTypeSource, AdapterId: path.SourceInfo.AdapterId, Id: path.SourceInfo.Id}
	sourceMode.SetSourceMode(&ccdapi.DisplayConfigSourceMode{Width: best.Width, Height: best.Height, PixelFormat: 1})
	modeArr = append(modeArr, sourceMode)
	sourceIdx := uint32(len(modeArr) - 1)

	targetMode := ccdapi.DisplayConfigModeInfo{InfoType: ccdapi.ModeInfoTypeTarget, AdapterId: path.TargetInfo.AdapterId, Id: path.TargetInfo.Id}
	targetMode.SetTargetMode(&ccdapi.DisplayConfigTargetMode{TargetVideoSignalInfo: ccdapi.DisplayConfigVideoSignalInfo{
		ActiveSize: ccdapi.DisplayConfig2DRegion{Cx: best.Width, Cy: best.Height},
		TotalSize:  ccdapi.DisplayConfig2DRegion{Cx: best.Width, Cy: best.Height},
		VSyncFreq:  ccdapi.DisplayConfigRational{Numerator: best.RefreshRate, Denominator: 1},
	}})
	modeArr = append(modeArr, targetMode)
	targetIdx := uint32(len(modeArr) - 1)

	paths[idx].Flags |= ccdapi.DisplayConfigPathActive
	paths[idx].TargetInfo.TargetAvailable = 1
	paths[idx].SourceInfo.ModeInfoIdx = sourceIdx
	paths[idx].TargetInfo.ModeInfoIdx = targetIdx

	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsUseSuppliedDisplayConfig | ccdapi.SdcFlagsAllowChanges | ccdapi.SdcFlagsSaveToDatabase
	return topology.ApplyRaw(paths, modeArr, flags)
}

// --- CcdMinimalPaths ---

type ccdMinimalPathsStrategy struct{}

func (ccdMinimalPathsStrategy) Name() Name { return CcdMinimalPaths }

func (ccdMinimalPathsStrategy) Enable(req Request) error {
	snap, err := topology.Query(ccdapi.QueryDisplayFlagsAllPaths)
	if err != nil {
		return enginerr.NewUnknown("topology.Query", err)
	}
	path, _, err := pathfinder.FindInactive(snap, req.Mappings, req.LogicalNumber)
	if err != nil {
		return enginerr.NewInvalidPath(err.Error())
	}
	path.Flags |= ccdapi.DisplayConfigPathActive
	path.TargetInfo.TargetAvailable = 1

	minimal := append(snap.ActivePaths(), path)

	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsUseSuppliedDisplayConfig | ccdapi.SdcFlagsAllowChanges | ccdapi.SdcFlagsSaveToDatabase
	return topology.ApplyRaw(minimal, snap.Modes, flags)
}

// --- CcdDirectPath ---

type ccdDirectPathStrategy struct{}

func (ccdDirectPathStrategy) Name() Name { return CcdDirectPath }

func (ccdDirectPathStrategy) Enable(req Request) error {
	snap, err := topology.Query(ccdapi.QueryDisplayFlagsAllPaths)
	if err != nil {
		return enginerr.NewUnknown("topology.Query", err)
	}
	_, idx, err := pathfinder.FindInactive(snap, req.Mappings, req.LogicalNumber)
	if err != nil {
		return enginerr.NewInvalidPath(err.Error())
	}

	paths := make([]ccdapi.DisplayConfigPathInfo, len(snap.Paths))
	copy(paths, snap.Paths)
	paths[idx].Flags |= ccdapi.DisplayConfigPathActive

	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsUseSuppliedDisplayConfig | ccdapi.SdcFlagsAllowChanges | ccdapi.SdcFlagsSaveToDatabase
	return topology.ApplyRaw(paths, snap.Modes, flags)
}

// --- CcdTopologyExtend ---

type ccdTopologyExtendStrategy struct{}

func (ccdTopologyExtendStrategy) Name() Name { return CcdTopologyExtend }

func (ccdTopologyExtendStrategy) Enable(req Request) error {
	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsTopologyExtend | ccdapi.SdcFlagsAllowChanges
	return topology.ApplyRaw(nil, nil, flags)
}

// --- DevmodeDirect ---

type devmodeDirectStrategy struct{}

func (devmodeDirectStrategy) Name() Name { return DevmodeDirect }

// preferredResolutions is the landing-pick order when no cached state
// and no stronger signal picks the target resolution.
var preferredResolutions = []modes.Mode{
	{Width: 3840, Height: 2160, RefreshRate: 60},
	{Width: 1920, Height: 1080, RefreshRate: 60},
}

func bestCatalogPick(cat modes.Catalog) modes.Mode {
	for _, pref := range preferredResolutions {
		if cat.Supports(pref.Width, pref.Height, pref.RefreshRate) {
			return pref
		}
	}
	if len(cat.Modes) > 0 {
		return cat.Modes[0]
	}
	return modes.Mode{Width: 1920, Height: 1080, RefreshRate: 60}
}

func (devmodeDirectStrategy) Enable(req Request) error {
	var dm ccdapi.DevMode

	if cached, ok := req.StateCache.Get(req.LogicalNumber); ok {
		dm.PelsWidth = cached.Width
		dm.PelsHeight = cached.Height
		dm.DisplayFrequency = cached.RefreshRate
		dm.DisplayOrientation = cached.Orientation
		dm.PositionX = cached.PositionX
		dm.PositionY = cached.PositionY
	} else {
		best := bestCatalogPick(req.ModeCatalog)
		dm.PelsWidth = best.Width
		dm.PelsHeight = best.Height
		dm.DisplayFrequency = best.RefreshRate
		dm.PositionX = req.RightOfX
		dm.PositionY = 0
	}
	dm.Fields = ccdapi.DmPelsWidthBit | ccdapi.DmPelsHeightBit | ccdapi.DmDisplayFrequencyBit | ccdapi.DmDisplayFlagsBit | ccdapi.DmPositionBit

	result := ccdapi.ChangeDisplaySettings(req.AdapterDeviceName, &dm, ccdapi.CdsUpdateRegistry)
	if result != ccdapi.DispChangeSuccessful && result != ccdapi.DispChangeRestart {
		return enginerr.Translate(result, "devmode direct")
	}
	return nil
}

// --- DevmodeWithReset ---

type devmodeWithResetStrategy struct{}

func (devmodeWithResetStrategy) Name() Name { return DevmodeWithReset }

func (devmodeWithResetStrategy) Enable(req Request) error {
	best := bestCatalogPick(req.ModeCatalog)
	dm := ccdapi.DevMode{
		PelsWidth:        best.Width,
		PelsHeight:       best.Height,
		DisplayFrequency: best.RefreshRate,
		Fields:           ccdapi.DmPelsWidthBit | ccdapi.DmPelsHeightBit | ccdapi.DmDisplayFrequencyBit | ccdapi.DmDisplayFlagsBit,
	}

	if result := ccdapi.ChangeDisplaySettings(req.AdapterDeviceName, &dm, ccdapi.CdsTest); result != ccdapi.DispChangeSuccessful {
		return enginerr.Translate(result, "devmode with reset test")
	}
	if result := ccdapi.ChangeDisplaySettings(req.AdapterDeviceName, &dm, ccdapi.CdsUpdateRegistry|ccdapi.CdsNoReset); result != ccdapi.DispChangeSuccessful && result != ccdapi.DispChangeRestart {
		return enginerr.Translate(result, "devmode with reset commit")
	}

	result := ccdapi.ChangeDisplaySettings("", nil, 0)
	if result != ccdapi.DispChangeSuccessful {
		return enginerr.Translate(result, "devmode with reset global reset")
	}
	return nil
}

// --- HardwareReset ---

type hardwareResetStrategy struct{}

func (hardwareResetStrategy) Name() Name { return HardwareReset }

// settleDelay is how long HardwareReset waits for the adapter to settle
// after forcing mode re-enumeration.
var settleDelay = 2 * time.Second

func (hardwareResetStrategy) Enable(req Request) error {
	flags := ccdapi.SdcFlagsApply | ccdapi.SdcFlagsForceModeEnumeration | ccdapi.SdcFlagsAllowChanges
	if err := topology.ApplyRaw(nil, nil, flags); err != nil {
		return enginerr.NewUnknown("topology.ApplyRaw", err)
	}
	time.Sleep(settleDelay)
	return nil
}

// --- DisplaySwitchFallback ---

type displaySwitchFallbackStrategy struct{}

func (displaySwitchFallbackStrategy) Name() Name { return DisplaySwitchFallback }

var fallbackSettleDelay = 3 * time.Second

func (displaySwitchFallbackStrategy) Enable(req Request) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "DisplaySwitch.exe", "/extend")
	if err := cmd.Run(); err != nil {
		return enginerr.NewUnknown("DisplaySwitch.exe", err)
	}

	time.Sleep(fallbackSettleDelay)
	return nil
}
