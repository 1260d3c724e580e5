package augur

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultConfidenceLevels are the confidence levels used when none are
// supplied to NewEstimator.
var DefaultConfidenceLevels = []float64{0.05, 0.20, 0.50, 0.80, 0.95}

// DefaultTargets are the block targets used when none are supplied to
// NewEstimator.
var DefaultTargets = []float64{3, 6, 9, 12, 18, 24, 36, 48, 72, 96, 144}

// DefaultShortWindow and DefaultLongWindow are the inflow lookback windows
// used when none are supplied to NewEstimator.
const (
	DefaultShortWindow = 30 * time.Minute
	DefaultLongWindow  = 24 * time.Hour
)

// longHorizonTarget is the target at which the long-horizon estimate fully
// dominates the blend (w = 1).
const longHorizonTarget = 144.0

// Estimator is a pure, immutable fee-rate estimation engine: it is safe to
// call Calculate concurrently from multiple goroutines, since all of its
// configuration is read-only and every call works on its own scratch vectors.
type Estimator struct {
	confidenceLevels []float64
	targets          []float64
	shortWindow      time.Duration
	longWindow       time.Duration

	budget [][]int // precomputed for (targets, confidenceLevels)
}

// NewEstimator validates its arguments and builds an Estimator. Confidence
// levels must lie strictly inside (0, 1); targets must all be > 0. Passing
// empty lists or zero windows falls back to the defaults.
func NewEstimator(confidenceLevels, targets []float64, shortWindow, longWindow time.Duration) (*Estimator, error) {
	if len(confidenceLevels) == 0 {
		confidenceLevels = DefaultConfidenceLevels
	}
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	if shortWindow <= 0 {
		shortWindow = DefaultShortWindow
	}
	if longWindow <= 0 {
		longWindow = DefaultLongWindow
	}

	if err := validateConfidenceLevels(confidenceLevels); err != nil {
		return nil, err
	}
	if err := validateTargets(targets); err != nil {
		return nil, err
	}

	e := &Estimator{
		confidenceLevels: append([]float64(nil), confidenceLevels...),
		targets:          append([]float64(nil), targets...),
		shortWindow:      shortWindow,
		longWindow:       longWindow,
	}
	e.budget = poissonBudgetMatrix(e.targets, e.confidenceLevels)
	return e, nil
}

func validateConfidenceLevels(levels []float64) error {
	if len(levels) == 0 {
		return fmt.Errorf("augur: confidence levels must not be empty")
	}
	for _, p := range levels {
		if p <= 0 || p >= 1 {
			return fmt.Errorf("augur: confidence level %v out of range (0,1)", p)
		}
	}
	return nil
}

func validateTargets(targets []float64) error {
	if len(targets) == 0 {
		return fmt.Errorf("augur: targets must not be empty")
	}
	for _, t := range targets {
		if t <= 0 {
			return fmt.Errorf("augur: target %v must be > 0", t)
		}
	}
	return nil
}

// Reconfigure returns a new Estimator with any subset of fields replaced;
// pass nil/zero for fields that should keep their current value.
func (e *Estimator) Reconfigure(confidenceLevels, targets []float64, shortWindow, longWindow time.Duration) (*Estimator, error) {
	if confidenceLevels == nil {
		confidenceLevels = e.confidenceLevels
	}
	if targets == nil {
		targets = e.targets
	}
	if shortWindow <= 0 {
		shortWindow = e.shortWindow
	}
	if longWindow <= 0 {
		longWindow = e.longWindow
	}
	return NewEstimator(confidenceLevels, targets, shortWindow, longWindow)
}

// ConfidenceLevels returns the estimator's configured confidence levels.
func (e *Estimator) ConfidenceLevels() []float64 { return append([]float64(nil), e.confidenceLevels...) }

// Targets returns the estimator's configured block targets.
func (e *Estimator) Targets() []float64 { return append([]float64(nil), e.targets...) }

// Calculate is the core entry point: given an ordered (or unordered; it sorts
// defensively) list of mempool snapshots and an optional custom target, it
// produces a ResultTable mapping (target, confidence) to a recommended fee
// rate in sat/vB.
//
// If customTarget is non-nil it must be >= 3; the returned table then has a
// single target row instead of the configured target list.
func (e *Estimator) Calculate(snapshots []MempoolSnapshot, customTarget *float64) (ResultTable, error) {
	if len(snapshots) == 0 {
		return ResultTable{timestamp: time.Now(), confidenceLevels: e.confidenceLevels}, nil
	}

	targets := e.targets
	confidences := e.confidenceLevels
	budget := e.budget
	if customTarget != nil {
		if *customTarget < 3 {
			return ResultTable{}, fmt.Errorf("augur: custom target %v must be >= 3", *customTarget)
		}
		targets = []float64{*customTarget}
		budget = poissonBudgetMatrix(targets, confidences)
	}

	ordered := make([]MempoolSnapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	histograms := toHistograms(ordered)
	latest := histograms[len(histograms)-1]
	latestTimestamp := latest.timestamp

	shortInflow := calculateInflow(histograms, e.shortWindow)
	longInflow := calculateInflow(histograms, e.longWindow)

	buffer := make(feeVector, BucketCount)
	copy(buffer, latest.weights)
	addScaled(buffer, shortInflow, 0.5)

	fee := make([][]float64, len(targets))
	valid := make([][]bool, len(targets))
	for i := range targets {
		fee[i] = make([]float64, len(confidences))
		valid[i] = make([]bool, len(confidences))
	}

	for i, target := range targets {
		meanBlocks := math.Round(target)
		weight := blendWeight(target)

		for j := range confidences {
			expectedBlocks := budget[i][j]

			shortIdx := simulateMining(buffer, shortInflow, expectedBlocks, meanBlocks, BlockSizeWeightUnits)
			longIdx := simulateMining(buffer, longInflow, expectedBlocks, meanBlocks, BlockSizeWeightUnits)

			// A missing per-horizon estimate is folded to 0 before blending.
			shortVal := 0.0
			if shortIdx != noEstimate {
				shortVal = float64(shortIdx)
			}
			longVal := 0.0
			if longIdx != noEstimate {
				longVal = float64(longIdx)
			}

			blended := shortVal*(1-weight) + longVal*weight
			fee[i][j] = math.Exp(blended / bucketScale)
			valid[i][j] = true
		}
	}

	enforceMonotonicity(fee, valid)
	filterOutOfRange(fee, valid)

	return buildResultTable(targets, confidences, fee, valid, latestTimestamp), nil
}

// blendWeight computes w = 1 - (1 - T/144)^2, clamped to [0,1]. At T=144,
// w=1 and the long-horizon estimate dominates exactly; at short targets the
// short horizon dominates.
func blendWeight(target float64) float64 {
	w := 1 - math.Pow(1-target/longHorizonTarget, 2)
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	return w
}

// enforceMonotonicity walks each confidence column from the shortest to the
// longest target (in the order targets were given) and clamps each fee rate
// to be no larger than the previous one: longer targets must never demand a
// higher fee than shorter ones.
func enforceMonotonicity(fee [][]float64, valid [][]bool) {
	if len(fee) == 0 {
		return
	}
	cols := len(fee[0])
	for j := 0; j < cols; j++ {
		prev := math.Inf(1)
		for i := range fee {
			if !valid[i][j] {
				continue
			}
			if fee[i][j] > prev {
				fee[i][j] = prev
			}
			prev = fee[i][j]
		}
	}
}

// filterOutOfRange marks any fee rate at or above MaxFeeRate as absent.
func filterOutOfRange(fee [][]float64, valid [][]bool) {
	for i := range fee {
		for j := range fee[i] {
			if valid[i][j] && fee[i][j] >= MaxFeeRate {
				valid[i][j] = false
			}
		}
	}
}

func buildResultTable(targets, confidences []float64, fee [][]float64, valid [][]bool, timestamp time.Time) ResultTable {
	entries := make([]BlockTargetEntry, len(targets))
	for i, target := range targets {
		rates := make(map[float64]float64)
		for j, p := range confidences {
			if valid[i][j] {
				rates[p] = fee[i][j]
			}
		}
		entries[i] = BlockTargetEntry{
			Target:   int(math.Round(target)),
			FeeRates: rates,
		}
	}

	return ResultTable{
		timestamp:        timestamp,
		confidenceLevels: confidences,
		entries:          entries,
	}
}
