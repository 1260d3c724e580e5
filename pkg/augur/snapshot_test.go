package augur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketTransactionsGroupsByLogBucket(t *testing.T) {
	// arrange
	txs := []MempoolTransaction{
		{Weight: 400, Fee: 100},
		{Weight: 400, Fee: 272},
		{Weight: 400, Fee: 739},
		{Weight: 400, Fee: 2009},
	}

	// act
	buckets := BucketTransactions(txs)

	// assert
	require.Len(t, buckets, 4)
	assert.EqualValues(t, 400, buckets[0])
	assert.EqualValues(t, 400, buckets[100])
	assert.EqualValues(t, 400, buckets[200])
	assert.EqualValues(t, 400, buckets[300])
}

func TestBucketTransactionsDropsNonPositiveWeight(t *testing.T) {
	// arrange
	txs := []MempoolTransaction{{Weight: 0, Fee: 500}, {Weight: 400, Fee: 400}}

	// act
	buckets := BucketTransactions(txs)

	// assert
	assert.Len(t, buckets, 1)
}

func TestFromTransactionsSumsWeightExcludingNegativeBuckets(t *testing.T) {
	// arrange: fee rate 0.1 sat/vB maps to a negative bucket and is dropped
	txs := []MempoolTransaction{
		{Weight: 1000, Fee: 25}, // rate 0.1
		{Weight: 400, Fee: 400}, // rate 4
	}
	now := time.Now()

	// act
	snap := FromTransactions(txs, 100, now)

	// assert
	var total int64
	for _, w := range snap.BucketedWeights {
		total += w
	}
	assert.EqualValues(t, 400, total)
	assert.Equal(t, int64(100), snap.BlockHeight)
}

func TestEmptySnapshotHasNoWeight(t *testing.T) {
	// arrange / act
	snap := Empty(5, time.Now())

	// assert
	assert.Empty(t, snap.BucketedWeights)
	h := snap.toHistogram()
	assert.Zero(t, sum(h.weights))
}

func TestToHistogramReversesBucketOrder(t *testing.T) {
	// arrange
	snap := MempoolSnapshot{
		BlockHeight:     1,
		Timestamp:       time.Now(),
		BucketedWeights: map[int]int64{0: 10, BucketMax: 20, 500: 30},
	}

	// act
	h := snap.toHistogram()

	// assert: bucket 0 (lowest fee rate) lands at the highest index
	assert.EqualValues(t, 10, h.weights[BucketMax])
	assert.EqualValues(t, 20, h.weights[0])
	assert.EqualValues(t, 30, h.weights[BucketMax-500])
}
