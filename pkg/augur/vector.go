package augur

import "gonum.org/v1/gonum/floats"

// feeVector is a dense, BucketCount-long vector in reverse bucket order
// (index 0 is the highest fee rate). Both SnapshotHistogram and InflowVector
// are represented this way so the mining simulator can treat them uniformly.
type feeVector = []float64

func newVector() feeVector {
	return make(feeVector, BucketCount)
}

// addInto adds src into dst element-wise, in place.
func addInto(dst, src feeVector) {
	floats.Add(dst, src)
}

// addScaled adds src*scale into dst element-wise, in place.
func addScaled(dst, src feeVector, scale float64) {
	floats.AddScaled(dst, scale, src)
}

// clampNonNegative zeroes out any negative entries, in place.
func clampNonNegative(v feeVector) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

// scaled returns a new vector equal to v*scale.
func scaled(v feeVector, scale float64) feeVector {
	out := make(feeVector, len(v))
	copy(out, v)
	floats.Scale(scale, out)
	return out
}

// sum returns the total of all entries.
func sum(v feeVector) float64 {
	return floats.Sum(v)
}
