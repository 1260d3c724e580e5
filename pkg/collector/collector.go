// Package collector polls a bitcoind node's mempool on an interval and
// turns each poll into a bounded history of augur.MempoolSnapshot, the raw
// material the estimation engine consumes.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/block/bitcoin-augur/pkg/utils"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// weightUnitsPerVByte is consensus fixed (BIP 141).
const weightUnitsPerVByte = 4

// DefaultMaxHistory bounds the in-memory snapshot window to roughly the
// estimator's default 24h long horizon at a 30s poll interval.
const DefaultMaxHistory = 2880

// Collector polls bitcoind's mempool and maintains a bounded, time-ordered
// window of snapshots in memory.
type Collector struct {
	client   RPCClient
	logger   *zap.Logger
	interval time.Duration
	maxLen   int

	mu      sync.Mutex
	history []augur.MempoolSnapshot
}

// New creates a Collector. maxHistory <= 0 selects DefaultMaxHistory.
func New(client RPCClient, logger *zap.Logger, interval time.Duration, maxHistory int) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}

	return &Collector{
		client:   client,
		logger:   logger,
		interval: interval,
		maxLen:   maxHistory,
	}
}

// Once performs a single poll, appending one snapshot to the history.
func (c *Collector) Once() error {
	return c.poll()
}

// Run polls on a ticker until ctx is cancelled. The first poll happens
// immediately, not after the first tick, and its error is returned; errors
// from later polls are logged and polling continues.
func (c *Collector) Run(ctx context.Context) error {
	if err := c.poll(); err != nil {
		return errors.Wrap(err, "initial mempool poll")
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.poll(); err != nil {
				c.logger.Error("mempool poll failed", zap.Error(err))
				continue
			}
		}
	}
}

func (c *Collector) poll() error {
	info, err := c.client.GetBlockChainInfo()
	if err != nil {
		return errors.Wrap(err, "get blockchain info")
	}

	pool, err := c.client.GetRawMempoolVerbose()
	if err != nil {
		return errors.Wrap(err, "get raw mempool")
	}

	snap := augur.FromTransactions(toTransactions(pool), info.Blocks, time.Now())
	c.logger.Info("collected mempool snapshot",
		zap.Int64("height", info.Blocks),
		zap.Int("unconfirmed_txs", len(pool)),
	)

	c.append(snap)
	return nil
}

func toTransactions(pool map[string]btcjson.GetRawMempoolVerboseResult) []augur.MempoolTransaction {
	txs := make([]augur.MempoolTransaction, 0, len(pool))
	for _, entry := range pool {
		weight := int64(entry.Weight)
		if weight <= 0 {
			// nodes predating BIP 141 weight reporting only have vsize
			weight = int64(entry.Vsize) * weightUnitsPerVByte
		}

		txs = append(txs, augur.MempoolTransaction{
			Weight: weight,
			Fee:    int64(entry.Fee * utils.BTC),
		})
	}
	return txs
}

func (c *Collector) append(snap augur.MempoolSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, snap)
	if overflow := len(c.history) - c.maxLen; overflow > 0 {
		c.history = c.history[overflow:]
	}
}

// Snapshots returns a defensive copy of the current in-memory history,
// oldest first.
func (c *Collector) Snapshots() []augur.MempoolSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]augur.MempoolSnapshot, len(c.history))
	copy(out, c.history)
	return out
}

// Latest returns the most recently collected snapshot, if any.
func (c *Collector) Latest() (augur.MempoolSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return augur.MempoolSnapshot{}, false
	}
	return c.history[len(c.history)-1], true
}
