package augur

import "gonum.org/v1/gonum/stat/distuv"

// poissonBudget returns the largest integer k such that
// P[N >= k] >= confidence, where N ~ Poisson(target). This is the number of
// blocks one can be >= confidence-confident will be mined in the time
// normally taken to mine `target` blocks.
//
// The search is bounded to [0, 4*target) as a finite-precision sentinel:
// P[N >= 4*target] is negligible for any realistic target and confidence.
// If no such k exists in range, 0 is recorded.
func poissonBudget(target float64, confidence float64) int {
	dist := distuv.Poisson{Lambda: target}
	limit := int(4 * target)

	best := 0
	for k := 0; k < limit; k++ {
		// P[N >= k] = 1 - CDF(k-1)
		tailProb := 1 - dist.CDF(float64(k-1))
		if tailProb >= confidence {
			best = k
		}
	}
	return best
}

// poissonBudgetMatrix computes poissonBudget for every (target, confidence)
// pair, producing an M x K integer matrix indexed [targetIdx][confidenceIdx].
func poissonBudgetMatrix(targets []float64, confidences []float64) [][]int {
	matrix := make([][]int, len(targets))
	for i, t := range targets {
		row := make([]int, len(confidences))
		for j, p := range confidences {
			row[j] = poissonBudget(t, p)
		}
		matrix[i] = row
	}
	return matrix
}
