package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/luticapital/arbitrage-helper/internal/api/client"
)

func evaluateCmd() *cobra.Command {
	var req apiclient.EvaluateRequest

	cmd := &cobra.Command{
		Use:   "evaluate <name>",
		Short: "Price one item with the server's settings",
		Example: `  arbctl evaluate "AK-47 | Redline" --wear "Field-Tested" --price 100
  arbctl evaluate "AWP | Asiimov" --price "$85.20" --full --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Price == "" {
				return fmt.Errorf("--price is required")
			}
			req.Name = args[0]

			c := newClient()
			ev, err := c.Evaluate(context.Background(), &req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), ev)
			}
			return printEvaluation(cmd.OutOrStdout(), ev)
		},
	}
	cmd.Flags().StringVar(&req.Wear, "wear", "", "wear label as displayed")
	cmd.Flags().StringVar(&req.Price, "price", "", "listing price")
	cmd.Flags().BoolVar(&req.Full, "full", false, "query market and historic data")

	return cmd
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quota",
		Short:   "Show oracle call budget usage",
		Example: `  arbctl quota`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			q, err := c.GetQuota(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), q)
			}
			return printQuota(cmd.OutOrStdout(), q)
		},
	}
}
