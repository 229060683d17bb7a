package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/Zukitata03/staking-contract/cmd/rebasepoold/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("failure when running rebasepoold", "err", err)
		os.Exit(1)
	}
}
