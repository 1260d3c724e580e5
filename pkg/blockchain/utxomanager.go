package blockchain

import "github.com/block/bitcoin-augur/pkg/common"

// UTXOManager looks up the spendable outputs controlled by an address.
//
// bitcoind's RPC surface has no arbitrary address index without an imported
// wallet, so this tree has no bitcoind-backed implementation: the only
// concrete UTXOManager is pkg/simulation's in-memory one, which is fed
// directly from replayed transaction history instead of a live node.
type UTXOManager interface {
	GetUTXOs(address string) ([]*common.UTXO, error)
}
