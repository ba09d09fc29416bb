package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/luticapital/arbitrage-helper/internal/api/client"
)

func decisionsCmd() *cobra.Command {
	decisionsRoot := &cobra.Command{
		Use:   "decisions",
		Short: "Inspect live decisions",
		Long: "Inspect the decisions currently rendered for the observed page,\n" +
			"one per item in the detail modal or on the grid.",
	}

	decisionsRoot.AddCommand(
		decisionsListCmd(),
		decisionsShowCmd(),
	)

	return decisionsRoot
}

func decisionsListCmd() *cobra.Command {
	var (
		mode  string
		state string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live decisions",
		Example: `  # All live decisions
  arbctl decisions list

  # Only good deals in the detail modal
  arbctl decisions list --mode detail --state good_deal`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			list, err := c.ListDecisions(context.Background(), mode, state)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), list)
			}
			if err := printDecisionsTable(cmd.OutOrStdout(), list.Decisions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d decision(s)\n", list.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "page mode (detail, grid)")
	cmd.Flags().StringVar(&state, "state", "",
		"decision state (loading, quick_calc_only, good_deal, bad_deal, no_market_data, oracle_offline)")

	return cmd
}

func decisionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <target>",
		Short: "Show one decision",
		Example: `  arbctl decisions show detail/5f2c
  arbctl decisions show detail/5f2c --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			v, err := c.GetDecision(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), v)
			}
			return printDecisionDetail(cmd.OutOrStdout(), v)
		},
	}
}

func deeperCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deeper <target>",
		Short: "Re-check a decision with market and historic data",
		Long: "Ask for the full oracle quote on a decision that was made from\n" +
			"the market price alone. The command waits for the new verdict.",
		Example: `  arbctl deeper detail/5f2c`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			v, err := c.RequestDeeper(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), v)
			}
			return printDecisionDetail(cmd.OutOrStdout(), v)
		},
	}
}

func historyCmd() *cobra.Command {
	historyRoot := &cobra.Command{
		Use:   "history",
		Short: "Query recorded decisions",
		Long: "Query the decision history. Only available when the server has a\n" +
			"database configured.",
	}

	historyRoot.AddCommand(
		historyListCmd(),
		historyStatsCmd(),
	)

	return historyRoot
}

func historyListCmd() *cobra.Command {
	var (
		q        apiclient.HistoryQuery
		states   string
		followUp string
		since    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded decisions with optional filters",
		Example: `  # Last day of good deals
  arbctl history list --state good_deal --since 24h

  # Follow-up checks for one item, cheapest first
  arbctl history list --name "AK-47 | Redline" --follow-up true --order-by price`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if states != "" {
				q.States = strings.Split(states, ",")
			}
			switch followUp {
			case "":
			case "true", "false":
				v := followUp == "true"
				q.FollowUp = &v
			default:
				return fmt.Errorf("--follow-up must be true or false")
			}
			if since > 0 {
				q.Since = time.Now().Add(-since)
			}

			c := newClient()
			page, err := c.ListHistory(context.Background(), &q)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), page)
			}
			if err := printHistoryTable(cmd.OutOrStdout(), page.Decisions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d\n", len(page.Decisions), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Name, "name", "", "item name")
	cmd.Flags().StringVar(&q.Wear, "wear", "", "wear grade (factory_new, minimal_wear, ...)")
	cmd.Flags().StringVar(&states, "state", "", "comma-separated decision states")
	cmd.Flags().StringVar(&followUp, "follow-up", "", "only follow-up (true) or initial (false) checks")
	cmd.Flags().DurationVar(&since, "since", 0, "only decisions newer than this")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "max results")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "results to skip")
	cmd.Flags().StringVar(&q.OrderBy, "order-by", "", "sort by (decided_at, price, name)")

	return cmd
}

func historyStatsCmd() *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count recorded decisions by state",
		Example: `  arbctl history stats
  arbctl history stats --window 168h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			stats, err := c.GetHistoryStats(context.Background(), window)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), stats)
			}
			return printHistoryStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().DurationVar(&window, "window", 24*time.Hour, "how far back to count")

	return cmd
}
