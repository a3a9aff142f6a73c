package ccdapi

import "unsafe"

// GetTargetDeviceName retrieves the friendly name, EDID ids, and device
// path for a CCD target via DisplayConfigGetDeviceInfo.
func GetTargetDeviceName(adapterID LUID, targetID uint32) (DisplayConfigTargetDeviceName, error) {
	name := DisplayConfigTargetDeviceName{
		Header: DisplayConfigDeviceInfoHeader{
			InfoType:  DeviceInfoTypeGetTargetName,
			Size:      uint32(unsafe.Sizeof(DisplayConfigTargetDeviceName{})),
			AdapterId: adapterID,
			Id:        targetID,
		},
	}
	if err := DisplayConfigGetDeviceInfo(&name); err != nil {
		return DisplayConfigTargetDeviceName{}, err
	}
	return name, nil
}

// FriendlyName returns the decoded monitor friendly device name.
func (n *DisplayConfigTargetDeviceName) FriendlyName() string {
	return utf16ToString(n.MonitorFriendlyDeviceName[:])
}

// DevicePath returns the decoded monitor device path (contains the
// UID<digits> segment Identity Resolver parses).
func (n *DisplayConfigTargetDeviceName) DevicePath() string {
	return utf16ToString(n.MonitorDevicePath[:])
}

// utf16ToString converts a null-terminated UTF-16 slice to a Go string.
func utf16ToString(s []uint16) string {
	for i, v := range s {
		if v == 0 {
			return string(utf16Decode(s[:i]))
		}
	}
	return string(utf16Decode(s))
}

// utf16Decode decodes a UTF-16 slice to a rune slice.
func utf16Decode(s []uint16) []rune {
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		if r >= 0xD800 && r <= 0xDBFF && i+1 < len(s) {
			r2 := rune(s[i+1])
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = 0x10000 + ((r-0xD800)<<10 | (r2 - 0xDC00))
				i++
			}
		}
		runes = append(runes, r)
	}
	return runes
}
