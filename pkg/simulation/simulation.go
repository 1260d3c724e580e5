package simulation

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/block/bitcoin-augur/pkg/coinselection"
	"github.com/block/bitcoin-augur/pkg/fees"

	"github.com/block/bitcoin-augur/pkg/common"
	"github.com/block/bitcoin-augur/pkg/utils"
	"go.uber.org/zap"
)

// txsPerSyntheticBlock controls how many replayed transactions accumulate
// into one synthetic augur.MempoolSnapshot before a new block height rolls
// over, standing in for a block interval during replay.
const txsPerSyntheticBlock = 25

// maxMempoolHistory bounds the synthetic mempool history kept in memory.
const maxMempoolHistory = 200

type Simulation struct {
	wallet      *Wallet
	logger      *zap.Logger
	txs         []*Tx
	startingSet []*Tx

	estimator  *augur.Estimator
	target     int
	confidence float64
	mempool    []augur.MempoolSnapshot
	pending    []augur.MempoolTransaction
	height     int64
}

type Tx struct {
	Value int64
	UTXOs []*common.UTXO
}

// GetFeeRate implements feerate.FeeRater by estimating off of the
// synthetic mempool pressure accumulated from replayed transaction values.
// Returns 0 until enough history has accumulated to produce an estimate.
func (s *Simulation) GetFeeRate() (int64, error) {
	if len(s.mempool) == 0 {
		return 0, nil
	}

	table, err := s.estimator.Calculate(s.mempool, nil)
	if err != nil {
		return 0, err
	}

	target, ok := table.NearestTarget(s.target)
	if !ok {
		return 0, nil
	}

	rate, ok := table.FeeRate(target, s.confidence)
	if !ok {
		return 0, nil
	}

	return int64(math.Round(rate)), nil
}

func NewSimulation(logger *zap.Logger) *Simulation {
	txs := readTxs("data/moneypot.csv")
	startingSet := readTxs("data/UTXO-post-LF.csv")
	//determine if initial utxo set is needed

	estimator, err := augur.NewEstimator(nil, nil, 0, 0)
	utils.PanicOnError(err)

	utxos := NewInMemoryUTXOManager()
	sim := &Simulation{
		txs:         txs,
		logger:      logger,
		startingSet: startingSet,
		estimator:   estimator,
		target:      6,
		confidence:  0.8,
		height:      1,
	}
	walletEstimator := &fees.Estimator{
		Feerater: sim,
		Selector: coinselection.RandomCoinSelector{MaxInputs: 10, MinChangeAmount: 0},
		UTXOs:    utxos,
	}
	wallet := &Wallet{
		estimator: walletEstimator,
		logger:    logger,
		utxos:     utxos,
	}
	sim.wallet = wallet
	return sim
}

func readTxs(file string) []*Tx {
	csvFile, err := os.Open(file)
	utils.PanicOnError(err)
	defer utils.IgnoreErrorOn(csvFile.Close)

	reader := csv.NewReader(bufio.NewReader(csvFile))
	var txs []*Tx
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		utils.PanicOnError(err)

		value, err := strconv.ParseInt(line[0], 10, 64)
		utils.PanicOnError(err)
		txs = append(txs, &Tx{
			Value: value,
		})
	}

	return txs
}

// observeTx folds a replayed transaction into the synthetic mempool: its
// absolute value stands in for a fee magnitude, giving the replay fee rate
// variance to estimate from without real weight/fee fields in the CSV
// fixtures. Every txsPerSyntheticBlock transactions the pending batch is
// committed as a new block-height snapshot.
func (s *Simulation) observeTx(tx *Tx, idx int) {
	weight := int64(400 + (idx%10)*50)
	fee := int64(1) + int64(math.Abs(float64(tx.Value)))%2000

	s.pending = append(s.pending, augur.MempoolTransaction{Weight: weight, Fee: fee})
	if len(s.pending)%txsPerSyntheticBlock != 0 {
		return
	}

	snap := augur.FromTransactions(s.pending, s.height, time.Now())
	s.mempool = append(s.mempool, snap)
	if overflow := len(s.mempool) - maxMempoolHistory; overflow > 0 {
		s.mempool = s.mempool[overflow:]
	}

	s.height++
}

func (s *Simulation) Run() error {
	index := 0
	//Setup
	for _, utxo := range s.startingSet[0:100] {
		s.wallet.utxos.AddUTXO(utxo.Value, index)
		index = index + 1
	}

	//Run
	for _, tx := range s.txs[0:1000] {
		s.observeTx(tx, index)

		if tx.Value > 0 { //if tx is incoming add utxo to pool
			s.wallet.ReceiveTx(tx, index)
		} else { //if tx is outgoing estimate fees
			err := s.wallet.SendTx(tx, index)
			if err != nil {
				return err
			}
		}

		index = index + 1
	}

	//Stats
	s.wallet.PrintStats()

	return nil
}
