package cmd

import (
	"context"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/block/bitcoin-augur/pkg/collector"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var collectOptions struct {
	interval time.Duration
	history  int
	outPath  string
}

// collectCommand runs the mempool collector continuously, printing a
// refreshed fee-rate table after every poll, until interrupted.
var collectCommand = &cobra.Command{
	Use:   "collect",
	Short: "Continuously polls a bitcoind node and prints refreshed fee-rate tables",
	Long:  `Continuously polls a bitcoind node's mempool and prints a refreshed fee-rate table after every poll.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := collector.NewBitcoindClient(rpcOptions.url, rpcOptions.user, rpcOptions.password, logger)
		defer client.Close()

		c := collector.New(client, logger, collectOptions.interval, collectOptions.history)

		estimator, err := augur.NewEstimator(nil, nil, 0, 0)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(collectOptions.interval):
					table, err := estimator.Calculate(c.Snapshots(), nil)
					if err != nil {
						logger.Error("computing estimate", zap.Error(err))
						continue
					}
					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					table.Render(w)

					if collectOptions.outPath != "" {
						if err := collector.SaveSnapshots(collectOptions.outPath, c.Snapshots()); err != nil {
							logger.Error("persisting snapshots", zap.Error(err))
						}
					}
				}
			}
		}()

		err = c.Run(ctx)
		if err != nil && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	collectCommand.Flags().DurationVarP(&collectOptions.interval, "interval", "i", 30*time.Second, "mempool poll interval")
	collectCommand.Flags().IntVarP(&collectOptions.history, "history", "n", collector.DefaultMaxHistory, "max number of snapshots to retain in memory")
	collectCommand.Flags().StringVarP(&collectOptions.outPath, "out", "o", "", "path to persist the snapshot history as JSON after every poll (disabled if empty)")
	RootCmd.AddCommand(collectCommand)
}
