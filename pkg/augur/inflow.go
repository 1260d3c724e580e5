package augur

import (
	"sort"
	"time"
)

// inflowVector is a dense, reverse-order vector of expected new weight
// arriving per NormalizationWindow, per bucket. All entries are >= 0.
type inflowVector = feeVector

// calculateInflow derives an inflowVector from an ordered sequence of
// snapshots and a lookback window.
//
// Snapshots are partitioned by block height so that new-block confirmations
// (which only ever remove weight) don't get counted as negative inflow: only
// the first and last snapshot observed at a given height contribute, and
// their delta is clamped to non-negative per bucket before being folded into
// the running total. The total is then normalized to a per-10-minute rate
// using the combined duration actually spanned by the kept partitions.
func calculateInflow(snapshots []snapshotHistogram, window time.Duration) inflowVector {
	inflows := newVector()
	if len(snapshots) == 0 {
		return inflows
	}

	ordered := make([]snapshotHistogram, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].timestamp.Before(ordered[j].timestamp)
	})

	tEnd := ordered[len(ordered)-1].timestamp
	cutoff := tEnd.Add(-window)

	kept := ordered[:0:0]
	for _, s := range ordered {
		if !s.timestamp.Before(cutoff) && !s.timestamp.After(tEnd) {
			kept = append(kept, s)
		}
	}

	partitions := make(map[int64][]snapshotHistogram)
	var heights []int64
	for _, s := range kept {
		if _, ok := partitions[s.blockHeight]; !ok {
			heights = append(heights, s.blockHeight)
		}
		partitions[s.blockHeight] = append(partitions[s.blockHeight], s)
	}

	var totalSpan time.Duration
	for _, h := range heights {
		part := partitions[h]
		if len(part) < 2 {
			continue
		}

		first, last := part[0], part[len(part)-1]
		delta := make(feeVector, BucketCount)
		copy(delta, last.weights)
		addScaled(delta, first.weights, -1)
		clampNonNegative(delta)

		addInto(inflows, delta)
		totalSpan += last.timestamp.Sub(first.timestamp)
	}

	if totalSpan <= 0 {
		return newVector()
	}

	factor := NormalizationWindow.Seconds() / totalSpan.Seconds()
	return scaled(inflows, factor)
}
