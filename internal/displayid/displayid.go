// Package displayid parses and formats the logical display identifier
// clients use to address a LogicalDisplay: "Display<N>" and the legacy
// "\\.\DISPLAY<N>" form, both 1-based.
package displayid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	modernPrefix = "Display"
	legacyPrefix = `\\.\DISPLAY`
)

// Format renders the canonical "Display<N>" form for a logical number.
func Format(logicalNumber int) string {
	return fmt.Sprintf("%s%d", modernPrefix, logicalNumber)
}

// FormatLegacy renders the legacy "\\.\DISPLAY<N>" form.
func FormatLegacy(logicalNumber int) string {
	return fmt.Sprintf("%s%d", legacyPrefix, logicalNumber)
}

// Parse accepts either "Display<N>" or "\\.\DISPLAY<N>" and returns the
// 1-based logical number N. Both forms are interpreted identically.
func Parse(id string) (int, error) {
	var digits string
	switch {
	case strings.HasPrefix(id, legacyPrefix):
		digits = strings.TrimPrefix(id, legacyPrefix)
	case strings.HasPrefix(id, modernPrefix):
		digits = strings.TrimPrefix(id, modernPrefix)
	default:
		return 0, fmt.Errorf("displayid: %q is not a recognized logical id (%s<N> or %s<N>)", id, modernPrefix, legacyPrefix)
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("displayid: %q does not encode a valid 1-based logical number", id)
	}
	return n, nil
}
