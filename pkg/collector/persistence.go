package collector

import (
	"encoding/json"
	"os"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/pkg/errors"
)

// SaveSnapshots writes a snapshot history to path as JSON, so a later
// backtest run can replay exactly what the estimator would have seen at
// collection time.
func SaveSnapshots(path string, snapshots []augur.MempoolSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating snapshot file")
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(snapshots); err != nil {
		return errors.Wrap(err, "encoding snapshots")
	}
	return nil
}

// LoadSnapshots reads a snapshot history previously written by SaveSnapshots.
func LoadSnapshots(path string) ([]augur.MempoolSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening snapshot file")
	}
	defer f.Close()

	var snapshots []augur.MempoolSnapshot
	if err := json.NewDecoder(f).Decode(&snapshots); err != nil {
		return nil, errors.Wrap(err, "decoding snapshots")
	}
	return snapshots, nil
}
