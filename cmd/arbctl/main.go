// Package main is the entry point for the arbctl CLI client.
package main

import (
	"github.com/luticapital/arbitrage-helper/cmd/arbctl/cmd"
)

func main() {
	cmd.Execute()
}
