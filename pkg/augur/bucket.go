// Package augur implements the fee-rate estimation engine: bucketing, inflow
// derivation, Poisson block budgets, block-by-block mining simulation, and
// short/long horizon blending over a sequence of mempool snapshots.
package augur

import "math"

// BucketMax is the highest addressable bucket index. BucketCount buckets span
// fee rates from 1 sat/vB up to MaxFeeRate.
const BucketMax = 1000

// BucketCount is the number of buckets in the fixed bucket space.
const BucketCount = BucketMax + 1

// bucketScale controls the log-spacing: each bucket is ~1% wider than the last.
const bucketScale = 100.0

// MaxFeeRate is the highest representable fee rate in sat/vB; estimates at or
// above this are treated as out of range.
var MaxFeeRate = ToFeeRate(BucketMax)

// ToBucket maps a fee rate in sat/vB to its bucket index. Fee rates above
// MaxFeeRate are clamped to BucketMax. Fee rates below 1 sat/vB produce a
// negative index; callers that bucket external data (see BucketTransactions)
// drop those rather than clamping them into bucket 0.
//
// Rounding is half-away-from-zero (math.Round): ties are astronomically rare
// for realistic fee rates, so either rounding convention observes the same
// behaviour in practice.
func ToBucket(feeRate float64) int {
	if feeRate <= 0 {
		panic("augur: ToBucket requires a positive fee rate")
	}

	idx := int(math.Round(math.Log(feeRate) * bucketScale))
	if idx > BucketMax {
		idx = BucketMax
	}
	return idx
}

// ToFeeRate maps a bucket index back to its representative fee rate in sat/vB.
func ToFeeRate(bucketIndex int) float64 {
	return math.Exp(float64(bucketIndex) / bucketScale)
}
