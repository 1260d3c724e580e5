package augur

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"
)

// BlockTargetEntry is one row of a ResultTable: the integer block target and
// the confidence -> fee rate mapping computed for it. Confidence levels with
// no viable estimate (filtered as out-of-range, or never computed) are
// simply absent from FeeRates.
type BlockTargetEntry struct {
	Target   int
	FeeRates map[float64]float64
}

// ResultTable is the output of Estimator.Calculate: a lookup table mapping
// block target -> confidence level -> recommended fee rate in sat/vB.
type ResultTable struct {
	timestamp        time.Time
	confidenceLevels []float64
	entries          []BlockTargetEntry
}

// Timestamp is the timestamp of the latest input snapshot used to compute
// this table (or the call time, for an empty table).
func (t ResultTable) Timestamp() time.Time { return t.timestamp }

// FeeRate returns the exact (target, confidence) entry, if present.
func (t ResultTable) FeeRate(target int, confidence float64) (float64, bool) {
	for _, e := range t.entries {
		if e.Target == target {
			rate, ok := e.FeeRates[confidence]
			return rate, ok
		}
	}
	return 0, false
}

// EntriesForTarget returns the whole confidence row for the given target, if
// present.
func (t ResultTable) EntriesForTarget(target int) (map[float64]float64, bool) {
	for _, e := range t.entries {
		if e.Target == target {
			return e.FeeRates, true
		}
	}
	return nil, false
}

// NearestTarget returns the configured integer target minimizing
// |candidate - target|, breaking ties in favour of the smaller candidate.
// Returns false if the table has no entries.
func (t ResultTable) NearestTarget(target int) (int, bool) {
	if len(t.entries) == 0 {
		return 0, false
	}

	best := t.entries[0].Target
	bestDist := abs(best - target)
	for _, e := range t.entries[1:] {
		dist := abs(e.Target - target)
		if dist < bestDist || (dist == bestDist && e.Target < best) {
			best = e.Target
			bestDist = dist
		}
	}
	return best, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AvailableTargets returns the ascending list of integer targets present in
// the table.
func (t ResultTable) AvailableTargets() []int {
	targets := make([]int, len(t.entries))
	for i, e := range t.entries {
		targets[i] = e.Target
	}
	sort.Ints(targets)
	return targets
}

// AvailableConfidenceLevels returns the ascending union of confidence keys
// actually present (i.e. not filtered out) across all entries.
func (t ResultTable) AvailableConfidenceLevels() []float64 {
	seen := make(map[float64]struct{})
	for _, e := range t.entries {
		for p := range e.FeeRates {
			seen[p] = struct{}{}
		}
	}

	levels := make([]float64, 0, len(seen))
	for p := range seen {
		levels = append(levels, p)
	}
	sort.Float64s(levels)
	return levels
}

// Render writes a padded text table of targets (rows) by confidence levels
// (columns), "-" for missing entries, fee rates printed to four decimal
// places.
func (t ResultTable) Render(w *tabwriter.Writer) {
	confidences := t.confidenceLevels
	if len(confidences) == 0 {
		confidences = t.AvailableConfidenceLevels()
	}

	fmt.Fprint(w, "target\t")
	for _, p := range confidences {
		fmt.Fprintf(w, "%.2f\t", p)
	}
	fmt.Fprintln(w)

	for _, e := range t.entries {
		fmt.Fprintf(w, "%d\t", e.Target)
		for _, p := range confidences {
			rate, ok := e.FeeRates[p]
			if ok {
				fmt.Fprintf(w, "%.4f\t", rate)
			} else {
				fmt.Fprint(w, "-\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}
