package augur

import "time"

// These are the fixed constants of the mining/weight model.
const (
	// WUPerVByte is the number of weight units in one virtual byte.
	WUPerVByte = 4.0

	// BlockSizeWeightUnits is the default per-block weight cap used by the
	// mining simulator.
	BlockSizeWeightUnits = 4_000_000

	// NormalizationWindow is the interval inflow rates are expressed per.
	NormalizationWindow = 10 * time.Minute
)
