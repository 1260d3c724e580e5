package fees

import (
	"math"
	"time"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/block/bitcoin-augur/pkg/feerate"
	"github.com/pkg/errors"
)

// ErrNoEstimate is returned when the estimator has no viable fee rate for
// the configured target/confidence, usually because there isn't enough
// mempool history yet.
var ErrNoEstimate = errors.New("no fee rate estimate available")

// SnapshotSource supplies the mempool history an AugurFeeRater estimates
// from. pkg/collector.Collector.Snapshots satisfies this.
type SnapshotSource func() []augur.MempoolSnapshot

// AugurFeeRater implements feerate.FeeRater on top of the estimation
// engine, picking a single fee rate for a target block count and
// confidence level out of the full result table.
type AugurFeeRater struct {
	estimator  *augur.Estimator
	snapshots  SnapshotSource
	target     int
	confidence float64
}

// NewAugurFeeRater creates a fee rater for a fixed (target, confidence)
// pair. Confidence must be one of the estimator's configured confidence
// levels; target need not be exact, the nearest configured target is used.
func NewAugurFeeRater(estimator *augur.Estimator, snapshots SnapshotSource, target int, confidence float64) *AugurFeeRater {
	return &AugurFeeRater{estimator: estimator, snapshots: snapshots, target: target, confidence: confidence}
}

var _ feerate.FeeRater = (*AugurFeeRater)(nil)

// GetFeeRate returns the current fee rate estimate in satoshi per vbyte,
// rounded to the nearest integer, for the rater's configured target and
// confidence.
func (r *AugurFeeRater) GetFeeRate() (int64, error) {
	table, err := r.estimator.Calculate(r.snapshots(), nil)
	if err != nil {
		return 0, errors.Wrap(err, "calculating fee estimate")
	}

	target, ok := table.NearestTarget(r.target)
	if !ok {
		return 0, ErrNoEstimate
	}

	rate, ok := table.FeeRate(target, r.confidence)
	if !ok {
		return 0, ErrNoEstimate
	}

	return int64(math.Round(rate)), nil
}

// Staleness reports how long ago the underlying table's source snapshots
// were collected, so callers can decide whether an estimate is too old to
// act on.
func (r *AugurFeeRater) Staleness() (time.Duration, error) {
	table, err := r.estimator.Calculate(r.snapshots(), nil)
	if err != nil {
		return 0, errors.Wrap(err, "calculating fee estimate")
	}
	return time.Since(table.Timestamp()), nil
}
