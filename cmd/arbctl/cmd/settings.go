package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	settingsRoot := &cobra.Command{
		Use:   "settings",
		Short: "Read and change the pricing settings",
		Long: "Read and change the fee, margin and oracle settings the server\n" +
			"prices items with. Every accepted change re-renders live decisions.",
	}

	settingsRoot.AddCommand(
		settingsGetCmd(),
		settingsSetCmd(),
	)

	return settingsRoot
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get",
		Short:   "Show the current settings",
		Example: `  arbctl settings get`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			s, err := c.GetSettings(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), s)
			}
			return printSettings(cmd.OutOrStdout(), s)
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var (
		fee      float64
		margin   float64
		oracle   bool
		historic bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Long: "Change the given settings and keep the rest. The server rejects\n" +
			"values outside the allowed ranges and leaves the settings unchanged.",
		Example: `  # Raise the fee to 10%
  arbctl settings set --fee 10

  # Use historic data and scan more grid items
  arbctl settings set --historic --grid-scan-limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.NFlag() == 0 {
				return fmt.Errorf("nothing to change")
			}

			c := newClient()
			ctx := context.Background()
			s, err := c.GetSettings(ctx)
			if err != nil {
				return err
			}

			if flags.Changed("fee") {
				s.FeePercent = fee
			}
			if flags.Changed("margin") {
				s.MarginPercent = margin
			}
			if flags.Changed("oracle") {
				s.OracleEnabled = oracle
			}
			if flags.Changed("historic") {
				s.HistoricEnabled = historic
			}
			if flags.Changed("grid-scan-limit") {
				s.GridScanLimit = limit
			}

			updated, err := c.UpdateSettings(ctx, s)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), updated)
			}
			return printSettings(cmd.OutOrStdout(), updated)
		},
	}
	cmd.Flags().Float64Var(&fee, "fee", 0, "marketplace fee in percent, [0, 100)")
	cmd.Flags().Float64Var(&margin, "margin", 0, "target margin in percent, [0, 100]")
	cmd.Flags().BoolVar(&oracle, "oracle", true, "query the pricing oracle")
	cmd.Flags().BoolVar(&historic, "historic", false, "include historic data in oracle queries")
	cmd.Flags().IntVar(&limit, "grid-scan-limit", 0, "grid items scanned per page, [1, 500]")

	return cmd
}
