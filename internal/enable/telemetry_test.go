package enable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOnlyWhenEnabled(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(Result{Strategy: CcdTargeted, Success: true})
	assert.Empty(t, tr.Snapshot())

	tr.Enable()
	tr.Record(Result{Strategy: CcdTargeted, Success: true})
	assert.Len(t, tr.Snapshot(), 1)
}

func TestTrackerRingPurgesOldest(t *testing.T) {
	tr := NewTracker(3)
	tr.Enable()
	for i := 0; i < 5; i++ {
		tr.Record(Result{Strategy: CcdTargeted, Success: true})
	}
	assert.Len(t, tr.Snapshot(), 3)
}

func TestRecommendedOrderFallsBackToDefault(t *testing.T) {
	tr := NewTracker(10)
	order := tr.RecommendedOrder()
	assert.Equal(t, DefaultOrder, order)
}

func TestRecommendedOrderSortsBySuccessRate(t *testing.T) {
	tr := NewTracker(100)
	tr.Enable()

	for i := 0; i < 10; i++ {
		tr.Record(Result{Strategy: CcdTargeted, Success: false, Duration: time.Millisecond})
	}
	for i := 0; i < 10; i++ {
		tr.Record(Result{Strategy: CcdModePopulation, Success: true, Duration: time.Millisecond})
	}

	order := tr.RecommendedOrder()
	posTargeted, posModePop := -1, -1
	for i, n := range order {
		if n == CcdTargeted {
			posTargeted = i
		}
		if n == CcdModePopulation {
			posModePop = i
		}
	}
	assert.Less(t, posModePop, posTargeted, "CcdModePopulation (100%% success) should sort ahead of CcdTargeted (0%% success)")
}

func TestInsightsMostReliable(t *testing.T) {
	tr := NewTracker(100)
	tr.Enable()
	for i := 0; i < 10; i++ {
		tr.Record(Result{Strategy: CcdTargeted, Success: true, Duration: time.Millisecond})
	}

	insights := tr.Insights()
	found := false
	for _, ins := range insights {
		if ins.Strategy == CcdTargeted && ins.Label == "most reliable" {
			found = true
		}
	}
	assert.True(t, found, "expected CcdTargeted tagged most reliable")
}

func TestInsightsProblematic(t *testing.T) {
	tr := NewTracker(100)
	tr.Enable()
	for i := 0; i < 9; i++ {
		tr.Record(Result{Strategy: HardwareReset, Success: false, Duration: time.Millisecond})
	}
	tr.Record(Result{Strategy: HardwareReset, Success: true, Duration: time.Millisecond})

	insights := tr.Insights()
	found := false
	for _, ins := range insights {
		if ins.Strategy == HardwareReset && ins.Label == "problematic" {
			found = true
		}
	}
	assert.True(t, found, "expected HardwareReset tagged problematic")
}

func TestReportNoAttempts(t *testing.T) {
	tr := NewTracker(10)
	assert.Equal(t, "no strategy attempts recorded", tr.Report())
}

func TestAllStrategiesExhaustedErrorMessage(t *testing.T) {
	err := &AllStrategiesExhaustedError{LastErrorPerStrategy: map[Name]error{
		CcdTargeted: assertError("device not found"),
	}}
	assert.Contains(t, err.Error(), "CcdTargeted")
}

type testErr string

func (e testErr) Error() string { return string(e) }

func assertError(msg string) error { return testErr(msg) }
