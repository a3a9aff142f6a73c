package enable

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

// Result is one strategy attempt outcome, appended to the performance
// ring regardless of success.
type Result struct {
	Strategy     Name
	Operation    string // "enable" or "disable"
	LogicalID    string
	Success      bool
	Duration     time.Duration
	Error        string
	AttemptIndex int
	Timestamp    time.Time
}

// ringSnapshot is the immutable value swapped atomically by Tracker --
// grounded on the switchableHandler atomic.Value swap-and-snapshot
// idiom used for the ambient logger's handler.
type ringSnapshot struct {
	results []Result
	limit   int
}

// Tracker accumulates per-strategy performance telemetry behind an
// atomic-swap snapshot so readers (report generation) never block
// writers (strategy attempts) and vice versa.
type Tracker struct {
	current atomic.Value // holds *ringSnapshot
	enabled atomic.Bool
}

// NewTracker returns a tracker with the given ring capacity, defaulting
// to 750 entries when limit <= 0.
func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = 750
	}
	t := &Tracker{}
	t.current.Store(&ringSnapshot{limit: limit})
	return t
}

// Enable turns on performance tracking (recording is a no-op while
// disabled, matching the "opt-in" contract).
func (t *Tracker) Enable() { t.enabled.Store(true) }

// Disable turns off performance tracking.
func (t *Tracker) Disable() { t.enabled.Store(false) }

// Enabled reports whether tracking is currently on.
func (t *Tracker) Enabled() bool { return t.enabled.Load() }

// Record appends one strategy attempt, purging the oldest entry once
// the ring's configured limit is exceeded.
func (t *Tracker) Record(r Result) {
	if !t.Enabled() {
		return
	}
	old := t.current.Load().(*ringSnapshot)
	next := make([]Result, 0, len(old.results)+1)
	next = append(next, old.results...)
	next = append(next, r)
	if len(next) > old.limit {
		next = next[len(next)-old.limit:]
	}
	t.current.Store(&ringSnapshot{results: next, limit: old.limit})
}

// Clear empties the ring.
func (t *Tracker) Clear() {
	old := t.current.Load().(*ringSnapshot)
	t.current.Store(&ringSnapshot{limit: old.limit})
}

// Snapshot returns a copy of every recorded result.
func (t *Tracker) Snapshot() []Result {
	snap := t.current.Load().(*ringSnapshot)
	out := make([]Result, len(snap.results))
	copy(out, snap.results)
	return out
}

// StrategyStats is the aggregate counters for one strategy.
type StrategyStats struct {
	Strategy        Name
	Attempts        int
	Successes       int
	AverageDuration time.Duration
	LastUsed        time.Time
	RecentFailures  []string
}

// SuccessRate returns Successes/Attempts, or 0 if there have been no
// attempts.
func (s StrategyStats) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts)
}

const recentFailureRingSize = 5

// Stats aggregates the ring into per-strategy counters.
func (t *Tracker) Stats() map[Name]StrategyStats {
	out := make(map[Name]StrategyStats)
	var totalDuration map[Name]time.Duration = make(map[Name]time.Duration)

	for _, r := range t.Snapshot() {
		s := out[r.Strategy]
		s.Strategy = r.Strategy
		s.Attempts++
		if r.Success {
			s.Successes++
		} else if r.Error != "" {
			s.RecentFailures = append(s.RecentFailures, r.Error)
			if len(s.RecentFailures) > recentFailureRingSize {
				s.RecentFailures = s.RecentFailures[len(s.RecentFailures)-recentFailureRingSize:]
			}
		}
		if r.Timestamp.After(s.LastUsed) {
			s.LastUsed = r.Timestamp
		}
		totalDuration[r.Strategy] += r.Duration
		out[r.Strategy] = s
	}

	for name, s := range out {
		if s.Attempts > 0 {
			s.AverageDuration = totalDuration[name] / time.Duration(s.Attempts)
		}
		out[name] = s
	}
	return out
}

// RecommendedOrder sorts strategies by success rate descending,
// tie-breaking by lower average duration, falling back to DefaultOrder
// for any strategy with no recorded attempts (and when the ring is
// entirely empty, returns DefaultOrder unchanged).
func (t *Tracker) RecommendedOrder() []Name {
	stats := t.Stats()
	if len(stats) == 0 {
		return append([]Name(nil), DefaultOrder...)
	}

	order := append([]Name(nil), DefaultOrder...)
	sort.SliceStable(order, func(i, j int) bool {
		si, iok := stats[order[i]]
		sj, jok := stats[order[j]]
		if !iok && !jok {
			return false
		}
		if iok != jok {
			return iok // strategies with telemetry sort ahead of those without
		}
		ri, rj := si.SuccessRate(), sj.SuccessRate()
		if ri != rj {
			return ri > rj
		}
		return si.AverageDuration < sj.AverageDuration
	})
	return order
}

// Insight tags a strategy with a qualitative label derived from its
// stats.
type Insight struct {
	Strategy Name
	Label    string // "most reliable", "fastest reliable", "problematic"
}

// Insights computes the qualitative labels spec'd for the performance
// report: most reliable (>80% success), fastest reliable (>50% success
// and <1s average), problematic (<30% success after >5 attempts).
func (t *Tracker) Insights() []Insight {
	var out []Insight
	for name, s := range t.Stats() {
		rate := s.SuccessRate()
		if rate > 0.80 {
			out = append(out, Insight{Strategy: name, Label: "most reliable"})
		}
		if rate > 0.50 && s.AverageDuration < time.Second {
			out = append(out, Insight{Strategy: name, Label: "fastest reliable"})
		}
		if rate < 0.30 && s.Attempts > 5 {
			out = append(out, Insight{Strategy: name, Label: "problematic"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strategy < out[j].Strategy })
	return out
}

// Report renders a multi-line human-readable performance summary.
func (t *Tracker) Report() string {
	var b strings.Builder
	stats := t.Stats()
	if len(stats) == 0 {
		return "no strategy attempts recorded"
	}

	names := make([]Name, 0, len(stats))
	for n := range stats {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, n := range names {
		s := stats[n]
		fmt.Fprintf(&b, "%s: %d/%d succeeded (%.0f%%), avg %s, last used %s\n",
			n, s.Successes, s.Attempts, s.SuccessRate()*100, s.AverageDuration, s.LastUsed.Format(time.RFC3339))
	}
	for _, ins := range t.Insights() {
		fmt.Fprintf(&b, "insight: %s is %s\n", ins.Strategy, ins.Label)
	}
	return b.String()
}
