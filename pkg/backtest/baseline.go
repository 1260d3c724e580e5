// Package backtest scores augur.Estimator predictions against realized
// block contents, and carries two simpler baseline estimators to compare
// against.
package backtest

import (
	"sort"

	"github.com/block/bitcoin-augur/pkg/augur"
)

// DefaultPercentile positions the naive estimate a little above the median.
const DefaultPercentile = 60

// NaivePercentile returns the fee rate at the given percentile of rates,
// clamped to augur.MaxFeeRate. Percentile 50 is the median; 60 biases
// slightly toward overpaying.
func NaivePercentile(rates []float64, percentile int) float64 {
	if len(rates) == 0 {
		return 0
	}

	sorted := make([]float64, len(rates))
	copy(sorted, rates)
	sort.Float64s(sorted)

	rate := sorted[(len(sorted)-1)*percentile/100]
	if rate > augur.MaxFeeRate {
		return augur.MaxFeeRate
	}
	return rate
}

// WindowedPercentile estimates from only the blockWindow highest fee rates,
// sliding the percentile down by up to rangeSpread points as powProgress
// (fraction of the
// expected ~10 minutes elapsed since the last block, clamped to [0,1])
// approaches 1 — later in the block interval a lower bid is more likely to
// still confirm in time.
func WindowedPercentile(rates []float64, blockWindow int, powProgress float64, percentile, rangeSpread int) float64 {
	if len(rates) == 0 {
		return 0
	}
	if powProgress > 1 {
		powProgress = 1
	}
	if powProgress < 0 {
		powProgress = 0
	}

	sorted := make([]float64, len(rates))
	copy(sorted, rates)
	sort.Float64s(sorted)

	idx := len(sorted) - blockWindow
	if idx < 0 {
		idx = 0
	}
	window := sorted[idx:]

	adjusted := float64(percentile) - float64(rangeSpread)*powProgress
	if adjusted < 0 {
		adjusted = 0
	}

	rate := window[(len(window)-1)*int(adjusted)/100]
	if rate > augur.MaxFeeRate {
		return augur.MaxFeeRate
	}
	return rate
}
