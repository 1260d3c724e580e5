package cmd

import (
	"github.com/block/bitcoin-augur/pkg/simulation"
	"github.com/spf13/cobra"
)

// simCommand replays the bundled wallet transaction history, exercising
// the fee estimator and coin selection together without needing a live
// bitcoind node.
var simCommand = &cobra.Command{
	Use:   "simulate",
	Short: "Runs the wallet fee-selection simulation against bundled transaction history",
	Long:  `Runs the wallet fee-selection simulation against bundled transaction history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sim := simulation.NewSimulation(logger)
		return sim.Run()
	},
}

func init() {
	RootCmd.AddCommand(simCommand)
}
