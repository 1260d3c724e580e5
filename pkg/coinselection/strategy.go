package coinselection

import (
	"errors"

	"github.com/block/bitcoin-augur/pkg/common"
	"github.com/block/bitcoin-augur/pkg/utils"
)

type ByAmount []*common.UTXO

func (a ByAmount) Len() int           { return len(a) }
func (a ByAmount) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByAmount) Less(i, j int) bool { return a[i].Value < a[j].Value }

// ResultSet represents a coin selection result
type ResultSet struct {
	Coins  []*common.UTXO
	Fee    int64
	Change int64
}

var (
	// ErrInsufficientFunds is returned if there are not enough coins
	ErrInsufficientFunds = errors.New("not enough coins")

	// ErrCoinsNoSelectionAvailable is returned when a CoinSelector believes there is no
	// possible combination of coins which can meet the requirements provided to the selector.
	ErrCoinsNoSelectionAvailable = errors.New("no coin selection possible")
)

// Strategy picks a set of coins covering target plus the fee a transaction
// spending them would pay at feeRate. feeRate is a fee-rate estimate in
// satoshi per vbyte, as returned by feerate.FeeRater.
type Strategy interface {
	SelectCoins(utxos []*common.UTXO, target int64, feeRate int64) (*ResultSet, error)
}

// SatisfiesTargetValue checks that the totalValue is either exactly the targetValue
// or is greater than the targetValue by at least the minChange amount.
func SatisfiesTargetValue(targetValue int64, minChange int64, utxos []*common.UTXO) bool {
	totalValue := int64(0)
	for _, utxo := range utxos {
		totalValue += utxo.Value
	}

	return (totalValue == targetValue || totalValue >= targetValue+minChange)
}

// Assuming Pay-to-Public-Key-Hash
const (
	BytesTransactionOverhead = 10
	BytesPerOutput           = 34
	BytesPerInput            = 148
)

// MinimalFeeWithChange returns the minimal fee for a utxo set assuming
// P2PKH inputs/outputs plus a change output, at feeRate satoshi per vbyte.
// feeRate is clamped to utils.MaxFeeRate so a runaway estimate can't grow the
// fee without bound.
func MinimalFeeWithChange(utxos []*common.UTXO, feeRate int64) int64 {
	if feeRate > int64(utils.MaxFeeRate) {
		feeRate = int64(utils.MaxFeeRate)
	}

	txSize := BytesTransactionOverhead + len(utxos)*BytesPerInput + 2*BytesPerOutput
	return int64(txSize) * feeRate
}

func sumValue(utxos []*common.UTXO) int64 {
	total := int64(0)
	for _, utxo := range utxos {
		total += utxo.Value
	}
	return total
}
