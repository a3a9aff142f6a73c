package ccdapi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procEnumDisplayDevicesW    = user32.NewProc("EnumDisplayDevicesW")
	procEnumDisplaySettingsExW = user32.NewProc("EnumDisplaySettingsExW")
	procChangeDisplaySettingsExW = user32.NewProc("ChangeDisplaySettingsExW")
)

// EnumDisplayDevices wraps EnumDisplayDevicesW. adapterDeviceName is the
// opaque adapter string (e.g. `\\.\DISPLAY1`), or "" to enumerate
// adapters themselves. index walks 0,1,2,... until the call returns
// false.
func EnumDisplayDevices(adapterDeviceName string, index uint32, flags uint32) (DisplayDevice, bool) {
	var device DisplayDevice
	device.Size = uint32(unsafe.Sizeof(device))

	var namePtr *uint16
	if adapterDeviceName != "" {
		p, err := windows.UTF16PtrFromString(adapterDeviceName)
		if err != nil {
			return DisplayDevice{}, false
		}
		namePtr = p
	}

	ret, _, _ := procEnumDisplayDevicesW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(index),
		uintptr(unsafe.Pointer(&device)),
		uintptr(flags),
	)
	return device, ret != 0
}

// Name returns the decoded adapter/monitor device name (e.g. `\\.\DISPLAY1`).
func (d *DisplayDevice) Name() string {
	return utf16ToString(d.DeviceName[:])
}

// IsAttachedToDesktop reports whether DISPLAY_DEVICE_ATTACHED_TO_DESKTOP
// is set in StateFlags.
func (d *DisplayDevice) IsAttachedToDesktop() bool {
	return d.StateFlags&DisplayDeviceAttachedToDesktop != 0
}

// EnumDisplaySettings wraps EnumDisplaySettingsExW for a given adapter
// device name and mode index. Pass EnumCurrentSettings for modeNum to
// fetch the currently active mode.
func EnumDisplaySettings(adapterDeviceName string, modeNum uint32) (DevMode, bool) {
	var mode DevMode
	mode.Size = uint16(unsafe.Sizeof(mode))

	namePtr, err := windows.UTF16PtrFromString(adapterDeviceName)
	if err != nil {
		return DevMode{}, false
	}

	ret, _, _ := procEnumDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(modeNum),
		uintptr(unsafe.Pointer(&mode)),
		0,
	)
	return mode, ret != 0
}

// ChangeDisplaySettings wraps ChangeDisplaySettingsExW. mode may be nil
// to request a global topology reset (used by the DevmodeWithReset
// strategy and the disable path's last-resort fallback). Returns the raw
// DISP_CHANGE_* result.
func ChangeDisplaySettings(adapterDeviceName string, mode *DevMode, flags uint32) int32 {
	var namePtr *uint16
	if adapterDeviceName != "" {
		p, err := windows.UTF16PtrFromString(adapterDeviceName)
		if err != nil {
			return DispChangeBadParam
		}
		namePtr = p
	}

	ret, _, _ := procChangeDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(unsafe.Pointer(mode)),
		0,
		uintptr(flags),
		0,
	)
	return int32(ret)
}

// ChangeDisplaySettingsResultError translates a DISP_CHANGE_* code into
// an error, or nil on success/restart-required.
func ChangeDisplaySettingsResultError(result int32) error {
	switch result {
	case DispChangeSuccessful, DispChangeRestart:
		return nil
	default:
		return syscall.Errno(-result)
	}
}
