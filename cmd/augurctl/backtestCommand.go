package cmd

import (
	"encoding/csv"
	"os"

	"github.com/block/bitcoin-augur/pkg/augur"
	"github.com/block/bitcoin-augur/pkg/backtest"
	"github.com/block/bitcoin-augur/pkg/collector"
	"github.com/block/bitcoin-augur/pkg/feerate"
	"github.com/block/bitcoin-augur/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backtestOptions struct {
	snapshots  string
	target     int
	confidence float64
	out        string
}

// backtestCommand replays a previously-collected snapshot history (see
// collect --out), recomputing the fee-rate estimate an operator would have
// seen at each collection point, then scores each one against what
// actually confirmed by fetching the realized block once it has since been
// mined.
var backtestCommand = &cobra.Command{
	Use:   "backtest",
	Short: "Scores a saved snapshot history against realized block contents",
	Long:  `Replays a snapshot history saved by "collect --out" and scores each historical estimate against the fee rates actually confirmed in the blocks that followed it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := collector.LoadSnapshots(backtestOptions.snapshots)
		if err != nil {
			return errors.Wrap(err, "loading snapshot history")
		}
		if len(history) == 0 {
			return errors.New("snapshot history is empty")
		}

		estimator, err := augur.NewEstimator(nil, nil, 0, 0)
		if err != nil {
			return err
		}

		client := utils.NewCachedRPCClient(rpcOptions.url, rpcOptions.user, rpcOptions.password, logger)
		defer client.Close()
		rateCache := feerate.NewRateCache(client, logger)
		scorer := backtest.NewScorer(logger)

		var predictions []backtest.Prediction
		for i, snap := range history {
			table, err := estimator.Calculate(history[:i+1], nil)
			if err != nil {
				logger.Warn("skipping snapshot, could not compute estimate", zap.Int64("height", snap.BlockHeight), zap.Error(err))
				continue
			}

			target, ok := table.NearestTarget(backtestOptions.target)
			if !ok {
				continue
			}
			rate, ok := table.FeeRate(target, backtestOptions.confidence)
			if !ok {
				continue
			}

			predictions = append(predictions, backtest.Prediction{
				Height:     snap.BlockHeight,
				Target:     target,
				Confidence: backtestOptions.confidence,
				FeeRate:    rate,
			})
		}

		var scores []backtest.Score
		for _, p := range predictions {
			targetHeight := p.Height + int64(p.Target)
			feeRates, err := rateCache.GetFeeRatesForBlock(int32(targetHeight))
			if err != nil {
				logger.Warn("could not fetch realized block", zap.Int64("height", targetHeight), zap.Error(err))
				continue
			}

			scorer.Observe(backtest.RealizedBlock{Height: targetHeight, FeeRates: feeRates.AsFloat64()})

			score, ok := scorer.Score(p)
			if !ok {
				continue
			}
			scores = append(scores, score)
		}

		out := os.Stdout
		if backtestOptions.out != "" {
			f, err := os.Create(backtestOptions.out)
			if err != nil {
				return errors.Wrap(err, "creating output file")
			}
			defer utils.IgnoreErrorOn(f.Close)
			out = f
		}

		return backtest.WriteCSV(csv.NewWriter(out), scores)
	},
}

func init() {
	backtestCommand.Flags().StringVarP(&backtestOptions.snapshots, "snapshots", "s", "", "path to a snapshot history saved by collect --out")
	backtestCommand.Flags().IntVarP(&backtestOptions.target, "target", "t", 6, "block target to score")
	backtestCommand.Flags().Float64VarP(&backtestOptions.confidence, "confidence", "c", 0.8, "confidence level to score")
	backtestCommand.Flags().StringVarP(&backtestOptions.out, "out", "o", "", "path to write the CSV score report (defaults to stdout)")
	backtestCommand.MarkFlagRequired("snapshots")
	RootCmd.AddCommand(backtestCommand)
}
