package diff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"displaycontrol/internal/display"
)

func ld(num int, id string, enabled bool) display.LogicalDisplay {
	return display.LogicalDisplay{LogicalNumber: num, LogicalID: id, IsEnabled: enabled, Width: 1920, Height: 1080, RefreshHz: 60}
}

func TestDetectAddedAndStateChanged(t *testing.T) {
	previous := []display.LogicalDisplay{ld(1, "D1", true), ld(2, "D2", false)}
	current := []display.LogicalDisplay{ld(1, "D1", true), ld(2, "D2", true), ld(3, "D3", true)}

	events := Detect(previous, current, time.Unix(0, 0))

	assert.Len(t, events, 2)
	assert.Equal(t, Added, events[0].ChangeType)
	assert.Equal(t, "D3", events[0].Current.LogicalID)
	assert.Equal(t, StateChanged, events[1].ChangeType)
	assert.Equal(t, "D2", events[1].Current.LogicalID)
}

func TestDetectRemoved(t *testing.T) {
	previous := []display.LogicalDisplay{ld(1, "D1", true), ld(2, "D2", true)}
	current := []display.LogicalDisplay{ld(1, "D1", true)}

	events := Detect(previous, current, time.Unix(0, 0))

	assert.Len(t, events, 1)
	assert.Equal(t, Removed, events[0].ChangeType)
	assert.Equal(t, "D2", events[0].Previous.LogicalID)
}

func TestDetectConfigurationChangeBeatsStateChange(t *testing.T) {
	prev := ld(1, "D1", true)
	curr := ld(1, "D1", false)
	curr.Width = 2560
	curr.Height = 1440

	events := Detect([]display.LogicalDisplay{prev}, []display.LogicalDisplay{curr}, time.Unix(0, 0))

	assert.Len(t, events, 1)
	assert.Equal(t, ConfigurationChanged, events[0].ChangeType)
}

func TestDetectNoChangesEmpty(t *testing.T) {
	previous := []display.LogicalDisplay{ld(1, "D1", true)}
	current := []display.LogicalDisplay{ld(1, "D1", true)}

	assert.Empty(t, Detect(previous, current, time.Unix(0, 0)))
}

func TestDetectPriorityOrderingRemovedFirst(t *testing.T) {
	previous := []display.LogicalDisplay{ld(1, "D1", true), ld(2, "D2", false)}
	current := []display.LogicalDisplay{ld(2, "D2", true), ld(3, "D3", true)}

	events := Detect(previous, current, time.Unix(0, 0))

	assert.Len(t, events, 3)
	assert.Equal(t, Removed, events[0].ChangeType)
	assert.Equal(t, Added, events[1].ChangeType)
	assert.Equal(t, StateChanged, events[2].ChangeType)
}
