package cmd

import (
	"os"
	"text/tabwriter"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/block/bitcoin-augur/pkg/collector"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// estimateCommand polls the configured node once and prints a fee-rate
// table computed from that single snapshot. A single snapshot carries no
// inflow history, so the table reflects how quickly the mempool as it
// stands right now would drain, not a settled forecast.
var estimateCommand = &cobra.Command{
	Use:   "estimate",
	Short: "Polls a bitcoind node once and prints a fee-rate table",
	Long:  `Polls a bitcoind node once and prints a fee-rate table computed from that single mempool snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := collector.NewBitcoindClient(rpcOptions.url, rpcOptions.user, rpcOptions.password, logger)
		defer client.Close()

		c := collector.New(client, logger, 0, 1)
		if err := c.Once(); err != nil {
			return errors.Wrap(err, "polling mempool")
		}

		estimator, err := augur.NewEstimator(nil, nil, 0, 0)
		if err != nil {
			return err
		}

		table, err := estimator.Calculate(c.Snapshots(), nil)
		if err != nil {
			return errors.Wrap(err, "computing estimate")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		table.Render(w)
		logger.Info("computed single-snapshot estimate", zap.Time("timestamp", table.Timestamp()))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(estimateCommand)
}
