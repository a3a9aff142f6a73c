package ccdapi

import (
	"syscall"
	"unsafe"
)

var (
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

// EnumMonitorRecord is one handle/rect pair produced by EnumDisplayMonitors.
type EnumMonitorRecord struct {
	Handle uintptr
	Rect   Rect
}

// EnumDisplayMonitors walks every monitor the OS reports via the
// EnumDisplayMonitors callback. The collector closure's lifetime must
// enclose this call; it is referenced only for the duration of Call, so
// no handle escapes it.
func EnumDisplayMonitors() []EnumMonitorRecord {
	var records []EnumMonitorRecord

	cb := syscall.NewCallback(func(hMonitor uintptr, hdcMonitor uintptr, lprcMonitor uintptr, lParam uintptr) uintptr {
		rect := Rect{}
		if lprcMonitor != 0 {
			rect = *(*Rect)(unsafe.Pointer(lprcMonitor))
		}
		records = append(records, EnumMonitorRecord{Handle: hMonitor, Rect: rect})
		return 1 // continue enumeration
	})

	procEnumDisplayMonitors.Call(0, 0, cb, 0)
	return records
}

// GetMonitorInfo wraps GetMonitorInfoW for a monitor handle returned by
// EnumDisplayMonitors.
func GetMonitorInfo(hMonitor uintptr) (MonitorInfoEx, bool) {
	var info MonitorInfoEx
	info.Size = uint32(unsafe.Sizeof(info))

	ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&info)))
	return info, ret != 0
}

// DeviceName returns the decoded monitor device name (e.g. `\\.\DISPLAY1`).
func (m *MonitorInfoEx) DeviceName() string {
	return utf16ToString(m.DeviceName[:])
}

// IsPrimary reports whether MONITORINFOF_PRIMARY is set.
func (m *MonitorInfoEx) IsPrimary() bool {
	return m.Flags&MonitorInfoFlagsPrimary != 0
}
