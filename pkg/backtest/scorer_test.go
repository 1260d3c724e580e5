package backtest

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreReturnsFalseWithoutRealizedBlock(t *testing.T) {
	// arrange
	s := NewScorer(nil)
	pred := Prediction{Height: 100, Target: 6, Confidence: 0.5, FeeRate: 20}

	// act
	_, ok := s.Score(pred)

	// assert
	assert.False(t, ok)
}

func TestScoreComputesInclusionRateAgainstRealizedBlock(t *testing.T) {
	// arrange
	s := NewScorer(nil)
	s.Observe(RealizedBlock{Height: 106, Mined: time.Now(), FeeRates: []float64{10, 20, 30, 40, 50}})
	pred := Prediction{Height: 100, Target: 6, Confidence: 0.5, FeeRate: 30}

	// act
	score, ok := s.Score(pred)

	// assert: 3 of 5 rates are >= 30 -> (1 - 2/5)*100 = 60
	require.True(t, ok)
	assert.InDelta(t, 60.0, score.InclusionRate, 1e-9)
	assert.Equal(t, 5, score.TxsObserved)
}

func TestScorePredictionAboveAllRealizedRatesScoresZero(t *testing.T) {
	// arrange
	s := NewScorer(nil)
	s.Observe(RealizedBlock{Height: 106, FeeRates: []float64{10, 20}})
	pred := Prediction{Height: 100, Target: 6, FeeRate: 1000}

	// act
	score, ok := s.Score(pred)

	// assert
	require.True(t, ok)
	assert.Zero(t, score.InclusionRate)
}

func TestWriteCSVRendersOneRowPerScore(t *testing.T) {
	// arrange
	scores := []Score{
		{Prediction: Prediction{Height: 100, Target: 6, Confidence: 0.5, FeeRate: 30}, InclusionRate: 60, TxsObserved: 5},
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// act
	err := WriteCSV(w, scores)

	// assert
	require.NoError(t, err)
	r := csv.NewReader(&buf)
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + 1 row
	assert.Equal(t, "100", records[1][0])
	assert.Equal(t, "60.00", records[1][4])
}
