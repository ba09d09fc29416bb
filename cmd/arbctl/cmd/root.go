// Package cmd implements the arbctl CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/luticapital/arbitrage-helper/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "arbctl",
		Short: "CLI client for the arbitrage helper",
		Long: "arbctl is a command-line client for the arbitrage helper API.\n" +
			"It lets you inspect decisions and grid marks, tune settings,\n" +
			"evaluate items, and drive page scans from the terminal.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.arbctl.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(decisionsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(deeperCmd())
	rootCmd.AddCommand(gridCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(pushCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(quotaCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arbctl")
	}

	viper.SetEnvPrefix("ARBCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
