package augur

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoissonBudgetMatrixMatchesReferenceValues(t *testing.T) {
	// arrange: reference target/confidence matrix
	targets := []float64{3, 12, 144}
	confidences := []float64{0.5, 0.95}

	// act
	matrix := poissonBudgetMatrix(targets, confidences)

	// assert
	want := [][]int{{3, 1}, {12, 7}, {144, 125}}
	assert.Equal(t, want, matrix)
}

func TestPoissonBudgetIsNonIncreasingInConfidence(t *testing.T) {
	// arrange
	lower := poissonBudget(12, 0.5)
	higher := poissonBudget(12, 0.95)

	// assert: higher confidence can count on no more blocks than lower
	assert.GreaterOrEqual(t, lower, higher)
}

func TestPoissonBudgetZeroWhenUnsatisfiable(t *testing.T) {
	// arrange / act: confidence essentially 1 with a tiny target
	budget := poissonBudget(0.01, 0.999999999)

	// assert: search range [0, 4T) is too narrow to find a satisfying k
	assert.Equal(t, 0, budget)
}
