// Package hwinventory queries the Windows hardware database (WMI,
// Win32_PnPEntity under the monitor device class) for attached-monitor
// records: friendly name, manufacturer, product, hardware UID, and PnP
// instance id, with the serial read best-effort from root\wmi's
// WmiMonitorID. It tolerates missing individual fields -- only a
// failure of the primary query itself is an error.
package hwinventory

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Record is one row pulled from the hardware database for an attached
// monitor.
type Record struct {
	UID          uint32
	InstanceID   string
	Manufacturer string
	Product      string
	FriendlyName string
	Serial       string
}

// ErrHardwareInventoryUnavailable is returned when the WMI query itself
// could not be performed (COM init/connect/ExecQuery failure). A query
// that succeeds but yields no monitor rows is not an error -- it returns
// an empty slice.
var ErrHardwareInventoryUnavailable = errors.New("hwinventory: hardware database unavailable")

// uidPattern matches the UID<digits> segment Windows embeds in monitor
// PnP device/instance ids, e.g. "DISPLAY\ACI27BB\5&1a2b3c4d&0&UID176389".
var uidPattern = regexp.MustCompile(`UID(\d+)`)

// monitorWMIQuery targets the PnP entity class Windows files monitor
// devices under.
const monitorWMIQuery = "SELECT * FROM Win32_PnPEntity WHERE PNPClass = 'Monitor'"

// monitorIDWMIQuery targets root\wmi's per-monitor EDID-derived class,
// the only place Windows exposes an actual serial number -- PNPDeviceID
// on Win32_PnPEntity is a WMI-level alias of DeviceID, not a distinct
// serial field.
const monitorIDWMIQuery = "SELECT * FROM WmiMonitorID"

// Query pulls every attached monitor's hardware record from WMI.
func Query() ([]Record, error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		// Already initialized on this thread is not fatal.
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) {
			return nil, fmt.Errorf("%w: CoInitializeEx: %v", ErrHardwareInventoryUnavailable, err)
		}
	}
	defer ole.CoUninitialize()

	locatorObj, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, fmt.Errorf("%w: CreateObject(SWbemLocator): %v", ErrHardwareInventoryUnavailable, err)
	}
	defer locatorObj.Release()

	locator, err := locatorObj.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("%w: QueryInterface(IDispatch): %v", ErrHardwareInventoryUnavailable, err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", ".", `root\cimv2`)
	if err != nil {
		return nil, fmt.Errorf("%w: ConnectServer: %v", ErrHardwareInventoryUnavailable, err)
	}
	service := serviceRaw.ToIDispatch()
	defer service.Release()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", monitorWMIQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: ExecQuery: %v", ErrHardwareInventoryUnavailable, err)
	}
	result := resultRaw.ToIDispatch()
	defer result.Release()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return nil, fmt.Errorf("%w: GetProperty(Count): %v", ErrHardwareInventoryUnavailable, err)
	}
	count := int(countVar.Val)

	serials := querySerialsByInstance(locator)

	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
		if err != nil {
			// A single row failing to fetch does not fail the whole query.
			continue
		}
		item := itemRaw.ToIDispatch()
		rec := recordFromItem(item, serials)
		item.Release()
		records = append(records, rec)
	}

	return records, nil
}

// querySerialsByInstance connects to root\wmi and reads WmiMonitorID's
// SerialNumberID for every monitor, keyed by InstanceName. A failure
// here is never fatal to Query -- serial is best-effort and degrades to
// "" per-record when the root\wmi namespace or class is unavailable.
func querySerialsByInstance(locator *ole.IDispatch) map[string]string {
	serials := map[string]string{}

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", ".", `root\wmi`)
	if err != nil {
		return serials
	}
	service := serviceRaw.ToIDispatch()
	defer service.Release()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", monitorIDWMIQuery)
	if err != nil {
		return serials
	}
	result := resultRaw.ToIDispatch()
	defer result.Release()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return serials
	}

	for i := 0; i < int(countVar.Val); i++ {
		itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
		if err != nil {
			continue
		}
		item := itemRaw.ToIDispatch()
		instance := stringProp(item, "InstanceName")
		if instance != "" {
			serials[instance] = uint16ArrayProp(item, "SerialNumberID")
		}
		item.Release()
	}

	return serials
}

// recordFromItem reads the fields we care about off a Win32_PnPEntity
// instance, tolerating any property that is absent or empty. serials
// maps WmiMonitorID's InstanceName (same device instance path, different
// casing/namespace) to the decoded serial number string.
func recordFromItem(item *ole.IDispatch, serials map[string]string) Record {
	deviceID := stringProp(item, "DeviceID")
	rec := Record{
		InstanceID:   deviceID,
		Manufacturer: stringProp(item, "Manufacturer"),
		Product:      stringProp(item, "Name"),
		FriendlyName: stringProp(item, "Caption"),
		Serial:       lookupSerial(serials, deviceID),
	}
	rec.UID = extractUID(deviceID)
	return rec
}

// lookupSerial matches a Win32_PnPEntity DeviceID against WmiMonitorID's
// InstanceName, which carries the same instance path but is case- and
// suffix-insensitive (WmiMonitorID appends "_0" and is typically
// lowercased) -- compare case-insensitively on the shared prefix.
func lookupSerial(serials map[string]string, deviceID string) string {
	for instance, serial := range serials {
		if strings.EqualFold(instance, deviceID) || strings.HasPrefix(strings.ToUpper(instance), strings.ToUpper(deviceID)) {
			return serial
		}
	}
	return ""
}

// stringProp reads a string property off a COM object, returning "" on
// any failure (absent field, type mismatch) rather than propagating an
// error -- per the component's contract, missing fields are tolerated.
func stringProp(item *ole.IDispatch, name string) string {
	v, err := oleutil.GetProperty(item, name)
	if err != nil {
		return ""
	}
	defer v.Clear()
	s, ok := v.Value().(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// uint16ArrayProp decodes a WMI uint16-array property (WmiMonitorID
// encodes strings as an array of character codes, one per array
// element) into a Go string, trimming the null terminator WMI pads the
// array with.
func uint16ArrayProp(item *ole.IDispatch, name string) string {
	v, err := oleutil.GetProperty(item, name)
	if err != nil {
		return ""
	}
	defer v.Clear()
	arr, ok := v.Value().([]interface{})
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, el := range arr {
		code, ok := el.(int64)
		if !ok || code == 0 {
			continue
		}
		b.WriteRune(rune(code))
	}
	return strings.TrimSpace(b.String())
}

// extractUID pulls the UID<digits> segment out of a monitor device path
// or instance id. Returns 0 if no such segment is present.
func extractUID(devicePathOrID string) uint32 {
	m := uidPattern.FindStringSubmatch(devicePathOrID)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}
