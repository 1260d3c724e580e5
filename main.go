package main

import (
	cmd "github.com/block/bitcoin-augur/cmd/augurctl"
)

func main() {
	cmd.Execute()
}
