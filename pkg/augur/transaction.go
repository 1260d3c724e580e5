package augur

// MempoolTransaction is a single pending transaction as seen by a node:
// its weight in weight units and the fee it pays, in satoshis.
type MempoolTransaction struct {
	Weight int64
	Fee    int64
}

// FeeRate returns the transaction's fee rate in sat/vB (fee * WUPerVByte / weight).
// Weight must be positive; callers must not construct a MempoolTransaction with
// Weight <= 0.
func (t MempoolTransaction) FeeRate() float64 {
	return float64(t.Fee) * WUPerVByte / float64(t.Weight)
}
