package augur

import "time"

// snapshotHistogram is the dense, reverse-order internal form of a
// MempoolSnapshot: weights[0] holds the highest-fee-rate bucket, so mining
// "highest fee first" is a simple left-to-right sweep (see simulator.go).
type snapshotHistogram struct {
	blockHeight int64
	timestamp   time.Time
	weights     feeVector
}

func toHistograms(snapshots []MempoolSnapshot) []snapshotHistogram {
	out := make([]snapshotHistogram, len(snapshots))
	for i, s := range snapshots {
		out[i] = s.toHistogram()
	}
	return out
}
