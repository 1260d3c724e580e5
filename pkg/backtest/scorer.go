package backtest

import (
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// RealizedBlock is the observed set of fee rates paid by transactions that
// were actually confirmed in a mined block, used as ground truth when
// scoring a prior prediction.
type RealizedBlock struct {
	Height   int64
	Mined    time.Time
	FeeRates []float64
}

// Prediction is a single (height, target, confidence) -> fee rate estimate
// produced at the time the mempool was observed at Height, to be compared
// against what actually confirmed over the following blocks.
type Prediction struct {
	Height     int64
	Target     int
	Confidence float64
	FeeRate    float64
}

// Score is how well a Prediction held up against what was actually mined:
// the percentage of transactions confirmed in the block at
// Prediction.Height + Prediction.Target that paid a fee rate at or above the
// prediction. InclusionRate is in [0,100], so a well-calibrated estimator at
// confidence p should see it cluster around 100*p.
type Score struct {
	Prediction    Prediction
	InclusionRate float64
	TxsObserved   int
}

// Scorer accumulates predictions and realized blocks, keyed by height, and
// scores each prediction once enough following blocks have been observed.
type Scorer struct {
	logger   *zap.Logger
	realized map[int64]RealizedBlock
}

// NewScorer creates a Scorer. A nil logger disables logging.
func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger, realized: make(map[int64]RealizedBlock)}
}

// Observe records a mined block's realized fee rates so later predictions
// targeting exactly that height can be scored.
func (s *Scorer) Observe(block RealizedBlock) {
	s.realized[block.Height] = block
}

// Score compares prediction against the realized block at
// prediction.Height + prediction.Target, returning false if that block
// hasn't been observed yet.
func (s *Scorer) Score(prediction Prediction) (Score, bool) {
	targetHeight := prediction.Height + int64(prediction.Target)
	block, ok := s.realized[targetHeight]
	if !ok {
		return Score{}, false
	}

	rate := percentageAtOrAbove(block.FeeRates, prediction.FeeRate)
	score := Score{Prediction: prediction, InclusionRate: rate, TxsObserved: len(block.FeeRates)}
	s.logger.Info("scored prediction",
		zap.Int64("height", prediction.Height),
		zap.Int("target", prediction.Target),
		zap.Float64("confidence", prediction.Confidence),
		zap.Float64("inclusion_rate", rate),
	)
	return score, true
}

// percentageAtOrAbove returns the fraction, in [0,100], of rates at or
// above threshold.
func percentageAtOrAbove(rates []float64, threshold float64) float64 {
	if len(rates) == 0 {
		return 0
	}

	sorted := make([]float64, len(rates))
	copy(sorted, rates)
	sort.Float64s(sorted)

	for idx, rate := range sorted {
		if rate >= threshold {
			return (1.0 - float64(idx)/float64(len(sorted))) * 100.0
		}
	}

	return 0
}

// WriteCSV renders scores as one row per prediction: height, target,
// confidence, predicted fee rate, inclusion rate, and the number of
// transactions the realized block was scored against.
func WriteCSV(w *csv.Writer, scores []Score) error {
	err := w.Write([]string{"height", "target", "confidence", "predicted_rate", "inclusion_rate", "txs_observed"})
	if err != nil {
		return err
	}

	for _, s := range scores {
		record := []string{
			fmt.Sprintf("%d", s.Prediction.Height),
			fmt.Sprintf("%d", s.Prediction.Target),
			fmt.Sprintf("%.2f", s.Prediction.Confidence),
			fmt.Sprintf("%.4f", s.Prediction.FeeRate),
			fmt.Sprintf("%.2f", s.InclusionRate),
			fmt.Sprintf("%d", s.TxsObserved),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
