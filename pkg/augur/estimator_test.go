package augur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendWeightMatchesReferenceValues(t *testing.T) {
	// arrange / act / assert: reference blend values, in bucket-index space
	assert.InDelta(t, 1.0, blendWeight(144), 1e-9)

	blendAt := func(target float64) float64 {
		w := blendWeight(target)
		return 1.0*(1-w) + 100.0*w
	}
	assert.InDelta(t, 5.082, blendAt(3), 1e-3)
	assert.InDelta(t, 16.812, blendAt(12), 1e-3)
}

func TestCalculateEmptyInputReturnsEmptyTable(t *testing.T) {
	// arrange
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	// act
	table, err := est.Calculate(nil, nil)
	require.NoError(t, err)

	// assert
	for _, target := range DefaultTargets {
		_, ok := table.FeeRate(int(target), 0.5)
		assert.False(t, ok)
	}
	assert.Empty(t, table.AvailableTargets())
}

func TestCalculateSingleSnapshotYieldsFloorRateWhereComputable(t *testing.T) {
	// arrange: a single snapshot means the inflow calculator sees zero
	// total span, so both horizons see zero inflow and the tiny mempool
	// drains in the first simulated block everywhere. Any entries present
	// must equal to_fee_rate(0) = 1.0 — see DESIGN.md Open Question 4.
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	now := time.Now()
	snap := FromTransactions([]MempoolTransaction{{Weight: 400, Fee: 200}}, 100, now)

	// act
	table, err := est.Calculate([]MempoolSnapshot{snap}, nil)
	require.NoError(t, err)

	// assert
	for _, target := range DefaultTargets {
		for _, p := range DefaultConfidenceLevels {
			rate, ok := table.FeeRate(int(target), p)
			if ok {
				assert.InDelta(t, 1.0, rate, 1e-9)
			}
		}
	}
}

func TestCalculateEmptyMempoolYieldsFloorRate(t *testing.T) {
	// arrange: invariant 4
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	now := time.Now()
	snaps := []MempoolSnapshot{
		Empty(100, now.Add(-40*time.Minute)),
		Empty(100, now),
	}

	// act
	table, err := est.Calculate(snaps, nil)
	require.NoError(t, err)

	// assert
	for _, target := range DefaultTargets {
		for _, p := range DefaultConfidenceLevels {
			rate, ok := table.FeeRate(int(target), p)
			if ok {
				assert.InDelta(t, 1.0, rate, 1e-9)
			}
		}
	}
}

func buildSyntheticHistory(base time.Time) []MempoolSnapshot {
	var snaps []MempoolSnapshot
	weight := int64(500)
	for i := 0; i < 20; i++ {
		ts := base.Add(time.Duration(i) * 90 * time.Second)
		height := int64(100 + i/3)
		txs := []MempoolTransaction{
			{Weight: weight, Fee: 50},
			{Weight: weight * 2, Fee: 600},
			{Weight: weight, Fee: 4000},
		}
		snaps = append(snaps, FromTransactions(txs, height, ts))
		weight += 137
	}
	return snaps
}

func TestCalculateIsMonotoneInTargetAndConfidence(t *testing.T) {
	// arrange: invariants 1 and 2
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	table, err := est.Calculate(buildSyntheticHistory(time.Now().Add(-2*time.Hour)), nil)
	require.NoError(t, err)

	targets := table.AvailableTargets()
	confidences := DefaultConfidenceLevels

	for _, p := range confidences {
		var prev float64 = -1
		for _, target := range targets {
			rate, ok := table.FeeRate(target, p)
			if !ok {
				continue
			}
			if prev >= 0 {
				assert.GreaterOrEqualf(t, prev, rate, "target %d at confidence %.2f should not require a higher fee than a shorter target", target, p)
			}
			prev = rate
		}
	}

	for _, target := range targets {
		var prev float64 = -1
		for _, p := range confidences {
			rate, ok := table.FeeRate(target, p)
			if !ok {
				continue
			}
			if prev >= 0 {
				assert.GreaterOrEqualf(t, rate, prev, "target %d: higher confidence %.2f should not cost less", target, p)
			}
			prev = rate
		}
	}
}

func TestCalculateIsOrderIndependent(t *testing.T) {
	// arrange: invariant 6
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	base := time.Now().Add(-2 * time.Hour)
	snaps := buildSyntheticHistory(base)
	shuffled := make([]MempoolSnapshot, len(snaps))
	copy(shuffled, snaps)
	for i := range shuffled {
		j := (i*7 + 3) % len(shuffled)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	// act
	inOrder, err := est.Calculate(snaps, nil)
	require.NoError(t, err)
	outOfOrder, err := est.Calculate(shuffled, nil)
	require.NoError(t, err)

	// assert
	assert.Equal(t, inOrder.Timestamp(), outOfOrder.Timestamp())
	for _, target := range inOrder.AvailableTargets() {
		for _, p := range DefaultConfidenceLevels {
			want, wantOk := inOrder.FeeRate(target, p)
			got, gotOk := outOfOrder.FeeRate(target, p)
			require.Equal(t, wantOk, gotOk)
			if wantOk {
				assert.InDelta(t, want, got, 1e-9)
			}
		}
	}
}

func TestCalculateTimestampIsLatestSnapshot(t *testing.T) {
	// arrange
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	base := time.Now().Add(-1 * time.Hour)
	snaps := buildSyntheticHistory(base)
	var want time.Time
	for _, s := range snaps {
		if s.Timestamp.After(want) {
			want = s.Timestamp
		}
	}

	// act
	table, err := est.Calculate(snaps, nil)
	require.NoError(t, err)

	// assert
	assert.True(t, table.Timestamp().Equal(want))
}

func TestCalculateCustomTargetMustBeAtLeastThree(t *testing.T) {
	// arrange
	est, err := NewEstimator(nil, nil, 0, 0)
	require.NoError(t, err)

	tooSmall := 2.0
	valid := 5.0

	// act
	_, err = est.Calculate(buildSyntheticHistory(time.Now()), &tooSmall)
	assert.Error(t, err)

	table, err := est.Calculate(buildSyntheticHistory(time.Now().Add(-2*time.Hour)), &valid)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, table.AvailableTargets())
}

func TestNewEstimatorValidatesConfiguration(t *testing.T) {
	_, err := NewEstimator([]float64{0, 0.5}, nil, 0, 0)
	assert.Error(t, err)

	_, err = NewEstimator([]float64{1.5}, nil, 0, 0)
	assert.Error(t, err)

	_, err = NewEstimator(nil, []float64{0}, 0, 0)
	assert.Error(t, err)

	_, err = NewEstimator(nil, []float64{-1}, 0, 0)
	assert.Error(t, err)
}

func TestReconfigureKeepsUnsetFields(t *testing.T) {
	// arrange
	est, err := NewEstimator([]float64{0.5}, []float64{6}, time.Hour, 48*time.Hour)
	require.NoError(t, err)

	// act
	reconfigured, err := est.Reconfigure(nil, []float64{3, 6}, 0, 0)
	require.NoError(t, err)

	// assert
	assert.Equal(t, []float64{0.5}, reconfigured.ConfidenceLevels())
	assert.Equal(t, []float64{3, 6}, reconfigured.Targets())
}
