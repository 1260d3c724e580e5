package augur

// noEstimate is the out-of-range sentinel bucket index returned when the
// simulator can't identify a bucket that was fully mined: "no estimate at
// this confidence".
const noEstimate = BucketMax + 1

// simulateMining runs a block-by-block greedy-mining simulation:
// starting from histogram h, it mines expectedBlocks blocks
// of up to blockSizeCap weight units each, highest fee rate first, adding
// inflow scaled to the fraction of a normal inter-block interval each
// simulated block represents.
//
// It returns the bucket index of the lowest fee rate that still got mined in
// the final simulated block, or noEstimate if no bucket was ever fully
// emptied.
func simulateMining(h, inflow feeVector, expectedBlocks int, meanBlocks float64, blockSizeCap int64) int {
	if expectedBlocks <= 0 {
		return noEstimate
	}

	factor := meanBlocks / float64(expectedBlocks)
	perBlockInflow := scaled(inflow, factor)

	w := make(feeVector, len(h))
	copy(w, h)

	for block := 0; block < expectedBlocks; block++ {
		addInto(w, perBlockInflow)
		mineBlock(w, blockSizeCap)
	}

	return findBestIndex(w)
}

// mineBlock deducts up to cap weight units from w, starting at index 0 and
// moving right: it fully empties each bucket before advancing, partially
// emptying the last bucket it touches. Since index 0 holds the highest fee
// rate, this is "pay more, confirm first".
func mineBlock(w feeVector, blockSizeCap int64) {
	remaining := float64(blockSizeCap)
	for i := range w {
		if remaining <= 0 {
			return
		}

		if w[i] <= remaining {
			remaining -= w[i]
			w[i] = 0
		} else {
			w[i] -= remaining
			remaining = 0
		}
	}
}

// findBestIndex converts the post-simulation weight vector back to a normal
// (non-reversed) bucket index: the lowest fee rate still included in the
// last mined block.
func findBestIndex(w feeVector) int {
	q := -1
	for i, x := range w {
		if x > 0 {
			q = i
			break
		}
	}

	switch {
	case q == -1:
		// Mempool fully emptied; the cheapest fee rate sufficed.
		return 0
	case q == 0:
		// Not even the highest-fee bucket was fully mined.
		return noEstimate
	default:
		return BucketMax - q + 1
	}
}
