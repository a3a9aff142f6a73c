// Package engine is the façade wiring the Display Control Engine's
// internal components (A-K) to the external operations named in the
// specification's client-facing surface: list/enable/apply-mode/
// orientation/position/primary, batch helpers, test mode, and
// performance diagnostics. It owns the single mutex serializing every
// mutating call against the Windows display API, which is not safely
// reentrant.
package engine

import (
	"fmt"
	"sort"
	"sync"

	"displaycontrol/internal/bounds"
	"displaycontrol/internal/ccdapi"
	"displaycontrol/internal/config"
	"displaycontrol/internal/display"
	"displaycontrol/internal/displayid"
	"displaycontrol/internal/enable"
	"displaycontrol/internal/enginelog"
	"displaycontrol/internal/enginerr"
	"displaycontrol/internal/hwinventory"
	"displaycontrol/internal/identity"
	"displaycontrol/internal/modes"
	"displaycontrol/internal/statecache"
	"displaycontrol/internal/topology"
)

var log = enginelog.L("engine")

// Engine is the caller-owned handle every client operation hangs off.
// Mutating operations (enable/disable/apply/position/primary) serialize
// through mu; ListDisplays only takes a read lock since the OS query
// calls are themselves safe to run concurrently with each other (just
// not with a topology mutation in flight). The performance diagnostics
// take no lock: the tracker is safe for concurrent use on its own.
type Engine struct {
	mu         sync.RWMutex
	cfg        *config.Config
	stateCache *statecache.Cache
	tracker    *enable.Tracker
	machine    *enable.Machine
}

// New returns an Engine configured per cfg, or config.Default() if cfg
// is nil.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	tracker := enable.NewTracker(cfg.PerformanceHistoryLimit)
	machine := enable.NewMachine(tracker, cfg.StrictBoundsOverride)
	machine.ConsensusMinSources = cfg.ConsensusMinSources
	return &Engine{
		cfg:        cfg,
		stateCache: statecache.New(),
		tracker:    tracker,
		machine:    machine,
	}
}

// resolved is the per-call working set built once per operation: the
// hardware-correlated mappings and the topology snapshot they were
// resolved from, kept together since path indices in a Mapping are
// only valid against the snapshot that produced them.
type resolved struct {
	snap     topology.Snapshot
	mappings []identity.Mapping
}

// resolve re-queries hardware inventory, topology, and identity
// correlation fresh. Adapter device names are volatile across
// re-plug/enumeration, so every operation re-resolves rather than
// caching across calls (per the device-name/logical-id duality design
// note).
func (e *Engine) resolve() (resolved, error) {
	hwRecords, err := hwinventory.Query()
	if err != nil {
		return resolved{}, err
	}
	snap, err := topology.Validated(ccdapi.QueryDisplayFlagsAllPaths)
	if err != nil {
		return resolved{}, enginerr.NewUnknown("topology.Validated", err)
	}
	mappings, err := identity.Resolve(snap, hwRecords)
	if err != nil {
		return resolved{}, enginerr.NewUnknown("identity.Resolve", err)
	}
	return resolved{snap: snap, mappings: mappings}, nil
}

// mappingFor parses a logical id and finds its mapping within r.
func (r resolved) mappingFor(logicalID string) (identity.Mapping, error) {
	n, err := displayid.Parse(logicalID)
	if err != nil {
		return identity.Mapping{}, enginerr.NewInvalidPath(err.Error())
	}
	m, ok := identity.ByLogicalNumber(r.mappings, n)
	if !ok {
		return identity.Mapping{}, enginerr.NewInvalidPath(fmt.Sprintf("no display resolves to %s", logicalID))
	}
	return m, nil
}

// adapterDeviceName re-resolves the volatile adapter name addressing
// m's source id. EnumDisplayDevices' index ordering lines up with CCD
// source ids for the common single- and multi-adapter layouts this
// engine targets; see the design note on device-name/logical-id
// duality.
func adapterDeviceName(m identity.Mapping) (string, ccdapi.DisplayDevice, bool) {
	dev, ok := ccdapi.EnumDisplayDevices("", m.SourceID, 0)
	if !ok {
		return "", ccdapi.DisplayDevice{}, false
	}
	return dev.Name(), dev, true
}

// buildLogicalDisplay assembles the client-facing record for one
// mapping, preferring live bounds/adapter-enumeration data and falling
// back to the topology snapshot's source-mode record when a display is
// disabled (and so absent from both bounds and ATTACHED_TO_DESKTOP).
func buildLogicalDisplay(r resolved, m identity.Mapping, boundsMap map[string]bounds.Monitor) display.LogicalDisplay {
	adapterName, dev, haveAdapter := adapterDeviceName(m)

	var cat modes.Catalog
	if adapterName != "" {
		if c, err := modes.Enumerate(adapterName); err == nil {
			cat = c
		}
	}

	ld := display.LogicalDisplay{
		LogicalNumber:  m.LogicalNumber,
		LogicalID:      displayid.Format(m.LogicalNumber),
		FriendlyName:   m.FriendlyName,
		Manufacturer:   m.Manufacturer,
		Product:        m.Product,
		Serial:         m.Serial,
		EdidIdentifier: m.EdidIdentifier,
		HardwareUID:    m.UID,
		IsEnabled:      m.Active,
		Orientation:    ccdapi.DisplayOrientation(m.Rotation),
	}

	if haveAdapter {
		ld.IsAttached = dev.IsAttachedToDesktop()
		ld.IsPrimary = dev.StateFlags&ccdapi.DisplayDevicePrimaryDevice != 0
	}

	if b, ok := boundsMap[adapterName]; ok && adapterName != "" {
		ld.PositionX, ld.PositionY = b.Rect.Left, b.Rect.Top
		ld.Width, ld.Height = uint32(b.Width()), uint32(b.Height())
		ld.IsPrimary = ld.IsPrimary || b.Primary
	} else if m.PathIndex >= 0 && m.PathIndex < len(r.snap.Paths) {
		if sm, ok := r.snap.SourceMode(r.snap.Paths[m.PathIndex]); ok {
			ld.PositionX, ld.PositionY = sm.Position.X, sm.Position.Y
			ld.Width, ld.Height = sm.Width, sm.Height
		}
	}

	if ld.Width == 0 && cat.Current.Width != 0 {
		ld.Width, ld.Height = cat.Current.Width, cat.Current.Height
	}
	ld.RefreshHz = int(cat.Current.RefreshRate)
	ld.BitsPerPixel = cat.Current.BitsPerPel

	ld.Capabilities = display.Capabilities{
		CurrentWidth:       cat.Current.Width,
		CurrentHeight:      cat.Current.Height,
		CurrentRefreshHz:   cat.Current.RefreshRate,
		GroupedResolutions: make(map[string][]uint32),
	}
	for _, mode := range cat.Modes {
		ld.Capabilities.AvailableModes = append(ld.Capabilities.AvailableModes, display.ModeDescriptor{
			Width: mode.Width, Height: mode.Height, RefreshRate: mode.RefreshRate,
		})
		key := fmt.Sprintf("%dx%d", mode.Width, mode.Height)
		ld.Capabilities.GroupedResolutions[key] = insertSortedUnique(ld.Capabilities.GroupedResolutions[key], mode.RefreshRate)
	}

	return ld
}

func insertSortedUnique(rates []uint32, rate uint32) []uint32 {
	for _, r := range rates {
		if r == rate {
			return rates
		}
	}
	rates = append(rates, rate)
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })
	return rates
}

// ListDisplays returns every logical display the engine currently
// correlates, both enabled and disabled.
func (e *Engine) ListDisplays() ([]display.LogicalDisplay, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, err := e.resolve()
	if err != nil {
		return nil, err
	}
	boundsMap := bounds.Query()

	out := make([]display.LogicalDisplay, 0, len(r.mappings))
	for _, m := range r.mappings {
		out = append(out, buildLogicalDisplay(r, m, boundsMap))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogicalNumber < out[j].LogicalNumber })
	return out, nil
}

// EnablePerformanceTracking toggles the strategy performance tracker.
func (e *Engine) EnablePerformanceTracking(on bool) {
	if on {
		e.tracker.Enable()
	} else {
		e.tracker.Disable()
	}
}

// GeneratePerformanceReport renders the multi-line strategy performance
// summary: per-strategy success rate/average duration and the derived
// reliability insights.
func (e *Engine) GeneratePerformanceReport() string {
	return e.tracker.Report()
}

func (e *Engine) requestFor(m identity.Mapping, r resolved) enable.Request {
	adapterName, _, _ := adapterDeviceName(m)
	var cat modes.Catalog
	if adapterName != "" {
		if c, err := modes.Enumerate(adapterName); err == nil {
			cat = c
		}
	}
	return enable.Request{
		LogicalNumber:     m.LogicalNumber,
		Mappings:          r.mappings,
		ModeCatalog:       cat,
		AdapterDeviceName: adapterName,
		StateCache:        e.stateCache,
		RightOfX:          rightmostEnabledEdge(bounds.Query(), adapterName),
	}
}

// rightmostEnabledEdge finds the rightmost edge among currently enabled
// displays other than excludeAdapter, for DevmodeDirect's landing
// position when no cached state exists.
func rightmostEnabledEdge(boundsMap map[string]bounds.Monitor, excludeAdapter string) int32 {
	var rightmost int32
	for name, b := range boundsMap {
		if name == excludeAdapter {
			continue
		}
		if edge := b.Rect.Right; edge > rightmost {
			rightmost = edge
		}
	}
	return rightmost
}

// SetEnabled enables or disables a logical display via the
// multi-strategy state machine (enable) or the mirrored disable path.
func (e *Engine) SetEnabled(logicalID string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.resolve()
	if err != nil {
		return err
	}
	m, err := r.mappingFor(logicalID)
	if err != nil {
		return err
	}

	if enabled && m.Active {
		log.Info("set_enabled no-op: already enabled", enginelog.KeyLogicalNumber, m.LogicalNumber)
		return nil
	}
	if !enabled && !m.Active {
		log.Info("set_enabled no-op: already disabled", enginelog.KeyLogicalNumber, m.LogicalNumber)
		return nil
	}

	req := e.requestFor(m, r)
	if enabled {
		return e.machine.Enable(req)
	}
	return e.machine.Disable(req)
}
