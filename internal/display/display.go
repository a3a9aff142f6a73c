// Package display holds the Logical Display data model exposed across
// the engine boundary -- the stable, client-facing view assembled from
// identity, topology, bounds, and mode-catalog data. Field names are
// PascalCase JSON tags mirroring the teacher's profile serialization
// convention, so a CLI or future preset-persistence collaborator has a
// stable wire shape.
package display

import "displaycontrol/internal/ccdapi"

// Capabilities is the mode information attached to a LogicalDisplay.
type Capabilities struct {
	CurrentWidth       uint32              `json:"CurrentWidth"`
	CurrentHeight      uint32              `json:"CurrentHeight"`
	CurrentRefreshHz   uint32              `json:"CurrentRefreshHz"`
	AvailableModes     []ModeDescriptor    `json:"AvailableModes"`
	GroupedResolutions map[string][]uint32 `json:"GroupedResolutions"` // "WxH" -> sorted refresh rates
}

// ModeDescriptor is one catalog entry in wire form.
type ModeDescriptor struct {
	Width       uint32 `json:"Width"`
	Height      uint32 `json:"Height"`
	RefreshRate uint32 `json:"RefreshRate"`
}

// LogicalDisplay is the stable unit exposed to clients: list_displays
// returns a slice of these, both enabled and disabled.
type LogicalDisplay struct {
	LogicalNumber     int                       `json:"LogicalNumber"`
	LogicalID         string                    `json:"LogicalID"`
	FriendlyName      string                    `json:"FriendlyName"`
	Manufacturer      string                    `json:"Manufacturer"`
	Product           string                    `json:"Product"`
	Serial            string                    `json:"Serial"`
	EdidIdentifier    string                    `json:"EdidIdentifier"`
	HardwareUID       uint32                    `json:"HardwareUID"`
	IsPrimary         bool                      `json:"IsPrimary"`
	IsEnabled         bool                      `json:"IsEnabled"`
	IsAttached        bool                      `json:"IsAttached"`
	PositionX         int32                     `json:"PositionX"`
	PositionY         int32                     `json:"PositionY"`
	Width             uint32                    `json:"Width"`
	Height            uint32                    `json:"Height"`
	RefreshHz         int                       `json:"RefreshHz"`
	BitsPerPixel      uint32                    `json:"BitsPerPixel"`
	Orientation       ccdapi.DisplayOrientation `json:"Orientation"`
	Capabilities      Capabilities              `json:"Capabilities"`
}
