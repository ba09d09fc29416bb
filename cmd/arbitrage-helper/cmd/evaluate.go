package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/luticapital/arbitrage-helper/internal/render"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func evaluateCmd() *cobra.Command {
	var (
		wear   string
		price  string
		full   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <name>",
		Short: "Price a single item against the oracle",
		Long: "Compute the break-even resale price of one item and, unless the\n" +
			"oracle is disabled in settings, compare it against the oracle quote.",
		Example: `  arbitrage-helper evaluate "AK-47 | Redline" --wear "Field-Tested" --price 100
  arbitrage-helper evaluate "AWP | Asiimov" --wear "Battle-Scarred" --price "$85.20" --full`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, ok := extract.ParseAmount(price)
			if !ok {
				return fmt.Errorf("--price must be a positive amount (got %q)", price)
			}

			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			prefs, err := newSettings(&cfg.Settings, log)
			if err != nil {
				return err
			}
			client, _ := newOracle(&cfg.Oracle)

			item := domain.ListedItem{
				ItemIdentity: domain.ItemIdentity{
					Name:    strings.TrimSpace(args[0]),
					Wear:    extract.NormalizeWear(wear),
					RawWear: strings.TrimSpace(wear),
				},
				Price: amount,
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Oracle.Timeout+5*time.Second)
			defer cancel()

			d := render.Evaluate(ctx, client, item, prefs.Current(), full)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Item     domain.ListedItem `json:"item"`
					Decision domain.Decision   `json:"decision"`
				}{item, d})
			}
			return printDecision(cmd.OutOrStdout(), &item, &d)
		},
	}

	cmd.Flags().StringVar(&wear, "wear", "", "wear label as displayed")
	cmd.Flags().StringVar(&price, "price", "", "listing price")
	cmd.Flags().BoolVar(&full, "full", false, "query market and historic data")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decision as JSON")
	cobra.CheckErr(cmd.MarkFlagRequired("price"))

	return cmd
}

func printDecision(w io.Writer, item *domain.ListedItem, d *domain.Decision) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Item:\t%s\n", item)
	fmt.Fprintf(tw, "Price:\t%s\n", item.Price.StringFixed(2))
	fmt.Fprintf(tw, "Min Sell:\t%s (fee %.2f%%, margin %.2f%%)\n",
		d.Economics.MinSellPrice.StringFixed(2), d.Economics.FeePercent, d.Economics.MarginPercent)
	fmt.Fprintf(tw, "State:\t%s\n", d.State)
	if q := d.Quote; q != nil {
		fmt.Fprintf(tw, "Market:\t%s\n", nullFixed(q.MarketPrice))
		if q.Mode == domain.QuoteModeFull {
			fmt.Fprintf(tw, "Historic:\t%s\n", nullFixed(q.HistoricPrice))
			fmt.Fprintf(tw, "Fair Value:\t%s\n", nullFixed(q.FairValue))
		}
	}
	if p := d.Profit; p != nil {
		fmt.Fprintf(tw, "Profit:\t%s (%s%%)\n", p.Amount.StringFixed(2), p.Percent.StringFixed(1))
	}
	if d.FollowUp {
		fmt.Fprintf(tw, "Follow-up:\tyes\n")
	}
	return tw.Flush()
}
