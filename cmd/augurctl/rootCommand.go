package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "augurctl",
	Short: "augurctl",
	Long:  `Bitcoin transaction fee-rate estimation.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("Something went terribly wrong: %v", err)
		os.Exit(-1)
	}
}

var rpcOptions struct {
	url      string
	user     string
	password string
}

func init() {
	logger, _ = zap.NewDevelopment(zap.AddStacktrace(zapcore.FatalLevel))

	RootCmd.PersistentFlags().StringVarP(&rpcOptions.url, "url", "", "127.0.0.1:8332", "bitcoind rpc url")
	RootCmd.PersistentFlags().StringVarP(&rpcOptions.user, "user", "u", "bitcoinrpc", "bitcoind rpc username")
	RootCmd.PersistentFlags().StringVarP(&rpcOptions.password, "password", "p", "", "bitcoind rpc password")
}
