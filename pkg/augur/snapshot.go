package augur

import "time"

// MempoolSnapshot is a point-in-time census of the mempool: the block height
// the node had when it was taken, the wall-clock instant, and a sparse
// mapping of bucket index to total pending weight in that bucket. Only
// indices in [0, BucketMax] carry signal; negative indices (fee rates below
// 1 sat/vB) are not produced by the constructors below.
type MempoolSnapshot struct {
	BlockHeight     int64
	Timestamp       time.Time
	BucketedWeights map[int]int64
}

// FromTransactions buckets a list of transactions by fee rate and wraps the
// result in a MempoolSnapshot at the given height and timestamp. Transactions
// whose bucket index would be negative (fee rate below 1 sat/vB) are dropped.
func FromTransactions(txs []MempoolTransaction, blockHeight int64, timestamp time.Time) MempoolSnapshot {
	return MempoolSnapshot{
		BlockHeight:     blockHeight,
		Timestamp:       timestamp,
		BucketedWeights: BucketTransactions(txs),
	}
}

// Empty returns a MempoolSnapshot with no pending weight at all, at the given
// height and timestamp.
func Empty(blockHeight int64, timestamp time.Time) MempoolSnapshot {
	return MempoolSnapshot{
		BlockHeight:     blockHeight,
		Timestamp:       timestamp,
		BucketedWeights: map[int]int64{},
	}
}

// BucketTransactions sums transaction weight per fee-rate bucket, dropping
// any transaction whose fee rate maps to a negative bucket index (below
// 1 sat/vB) or whose weight is not positive.
func BucketTransactions(txs []MempoolTransaction) map[int]int64 {
	buckets := make(map[int]int64)
	for _, tx := range txs {
		if tx.Weight <= 0 {
			continue
		}

		rate := tx.FeeRate()
		if rate <= 0 {
			continue
		}

		idx := ToBucket(rate)
		if idx < 0 {
			continue
		}

		buckets[idx] += tx.Weight
	}
	return buckets
}

// toHistogram converts the external sparse form into the internal dense
// reverse-order form used by the rest of the engine (see histogram.go).
func (s MempoolSnapshot) toHistogram() snapshotHistogram {
	h := newVector()
	for bucket, weight := range s.BucketedWeights {
		if bucket < 0 || bucket > BucketMax {
			continue
		}
		h[BucketMax-bucket] = float64(weight)
	}

	return snapshotHistogram{
		blockHeight: s.BlockHeight,
		timestamp:   s.Timestamp,
		weights:     h,
	}
}
