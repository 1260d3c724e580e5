package coinselection

import (
	"sort"

	"github.com/block/bitcoin-augur/pkg/common"
)

// MinIndexCoinSelector is a CoinSelector that attempts to construct a
// selection of coins whose total value covers targetValue plus the fee the
// selection itself incurs at feeRate, preferring lower indexes (as in the
// ordered array) over higher ones.
type MinIndexCoinSelector struct {
	MaxInputs       int
	MinChangeAmount int64
}

// SelectCoins will attempt to select coins using the algorithm described
// in the MinIndexCoinSelector struct. The fee is recomputed after every
// coin added, since it grows with the number of inputs selected.
func (s MinIndexCoinSelector) SelectCoins(utxos []*common.UTXO, target int64, feeRate int64) (*ResultSet, error) {
	set := &ResultSet{}
	for n := 0; n < len(utxos) && n < s.MaxInputs; n++ {
		set.Coins = append(set.Coins, utxos[n])
		fee := MinimalFeeWithChange(set.Coins, feeRate)
		if SatisfiesTargetValue(target+fee, s.MinChangeAmount, set.Coins) {
			set.Fee = fee
			set.Change = sumValue(set.Coins) - target - fee
			return set, nil
		}
	}
	return nil, ErrCoinsNoSelectionAvailable
}

// MinNumberCoinSelector is a CoinSelector that attempts to construct
// a selection of coins whose total value is at least targetValue
// that uses as few of the inputs as possible.
type MinNumberCoinSelector struct {
	MaxInputs       int
	MinChangeAmount int64
}

// SelectCoins will attempt to select coins using the algorithm described
// in the MinNumberCoinSelector struct.
func (s MinNumberCoinSelector) SelectCoins(utxos []*common.UTXO, target int64, feeRate int64) (*ResultSet, error) {
	sortedCoins := make([]*common.UTXO, 0, len(utxos))
	sortedCoins = append(sortedCoins, utxos...)
	sort.Sort(sort.Reverse(ByAmount(sortedCoins)))

	return MinIndexCoinSelector(s).SelectCoins(sortedCoins, target, feeRate)
}
