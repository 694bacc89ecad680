package probe

import "time"

// Summary holds aggregated counts derived from one batch of probe results.
type Summary struct {
	total      int
	active     int
	inactive   int
	avgLatency time.Duration
	reasons    map[string]int
}

// NewSummary aggregates a batch of results. Average latency covers active
// probes only.
func NewSummary(results []Result) Summary {
	s := Summary{total: len(results), reasons: make(map[string]int)}

	var totalLatency time.Duration
	for _, r := range results {
		if r.Active() {
			s.active++
			totalLatency += r.Latency()
			continue
		}
		s.inactive++
		s.reasons[ReasonKind(r.FailureReason())]++
	}

	if s.active > 0 {
		s.avgLatency = totalLatency / time.Duration(s.active)
	}

	return s
}

func (s Summary) Total() int                { return s.total }
func (s Summary) Active() int               { return s.active }
func (s Summary) Inactive() int             { return s.inactive }
func (s Summary) AvgLatency() time.Duration { return s.avgLatency }

// Reasons returns the number of inactive results per ReasonKind.
func (s Summary) Reasons() map[string]int {
	out := make(map[string]int, len(s.reasons))
	for k, v := range s.reasons {
		out[k] = v
	}
	return out
}
