// Package main is the entry point for the arbitrage-helper service.
package main

import (
	"os"

	"github.com/luticapital/arbitrage-helper/cmd/arbitrage-helper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
