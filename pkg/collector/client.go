package collector

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/block/bitcoin-augur/pkg/utils"
	"go.uber.org/zap"
)

// RPCClient is the subset of bitcoind's JSON-RPC surface the collector
// needs. *utils.CachedRPCClient satisfies it directly: the same client that
// pkg/backtest uses to fetch realized blocks also drives live collection,
// so a collect/backtest run only ever opens one RPC connection.
type RPCClient interface {
	GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error)
	GetRawMempoolVerbose() (map[string]btcjson.GetRawMempoolVerboseResult, error)
	Close()
}

// NewBitcoindClient dials a bitcoind node over HTTP POST JSON-RPC.
func NewBitcoindClient(host, user, pass string, logger *zap.Logger) RPCClient {
	return utils.NewCachedRPCClient(host, user, pass, logger)
}
