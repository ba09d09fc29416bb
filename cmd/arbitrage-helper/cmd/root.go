// Package cmd implements the CLI commands for arbitrage-helper.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/luticapital/arbitrage-helper/internal/config"
	"github.com/luticapital/arbitrage-helper/pkg/logger"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "arbitrage-helper",
	Short: "Price marketplace listings against an oracle",
	Long: "A service that watches a marketplace page, extracts the listed items,\n" +
		"computes the break-even resale price for each, checks it against an\n" +
		"external pricing oracle, and publishes a buy decision.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")

	rootCmd.AddCommand(
		serveCmd(),
		scanCmd(),
		evaluateCmd(),
		migrateCmd(),
		versionCommand(),
	)
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the dotenv file, if any, and then the config file. When
// optional is set a missing config file yields the defaults.
func loadConfig(optional bool) (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	switch {
	case err == nil:
		return cfg, nil
	case optional && errors.Is(err, fs.ErrNotExist):
		return config.Default(), nil
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return log
}
