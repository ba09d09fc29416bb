package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/luticapital/arbitrage-helper/internal/config"
	"github.com/luticapital/arbitrage-helper/internal/page"
	"github.com/luticapital/arbitrage-helper/internal/scanner"
	"github.com/luticapital/arbitrage-helper/internal/surface"
	"github.com/luticapital/arbitrage-helper/pkg/logger"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func scanCmd() *cobra.Command {
	var (
		pageURL string
		file    string
		browser bool
		limit   int
		asJSON  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a grid page once and print the verdicts",
		Long: "Fetch a marketplace grid page once, price up to the configured\n" +
			"number of items against the oracle, and print one line per item.\n" +
			"The settings file and defaults from the config apply.",
		Example: `  # Scan a saved page
  arbitrage-helper scan --file testdata/grid.html

  # Scan a live page through a headless browser, 20 items
  arbitrage-helper scan --url https://market.example/listing --browser --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (pageURL == "") == (file == "") {
				return errors.New("exactly one of --url or --file is required")
			}

			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			pc := cfg.Page
			switch {
			case file != "":
				pc.Source, pc.File = config.SourceFile, file
			case browser:
				pc.Source, pc.URL = config.SourceBrowser, pageURL
			default:
				pc.Source, pc.URL = config.SourceHTTP, pageURL
			}

			prefs, err := newSettings(&cfg.Settings, log)
			if err != nil {
				return err
			}
			s := prefs.Current()
			if limit > 0 {
				s.GridScanLimit = min(limit, 500)
			}
			if !s.OracleEnabled {
				return errors.New("the oracle is disabled in settings, nothing to scan")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			src, closeSource := newSource(&pc, log)
			defer closeSource()

			snap, err := src.Fetch(ctx)
			if err != nil {
				return err
			}
			doc, err := snap.Document()
			if err != nil {
				return err
			}
			nodes := page.GridNodes(doc)
			if len(nodes) == 0 {
				return fmt.Errorf("no grid items found on %s", snap.URL)
			}

			client, _ := newOracle(&cfg.Oracle)
			sc := scanner.New(client, surface.NewLog(logger.Component(log, "surface")),
				scanner.WithPause(cfg.Scanner.Pause),
				scanner.WithSkipSouvenir(cfg.Scanner.SkipsSouvenir()),
				scanner.WithLogger(logger.Component(log, "scanner")),
			)

			marks, err := sc.Scan(ctx, nodes, s)
			if err != nil {
				return fmt.Errorf("scanning grid: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), marks)
			}
			return printMarks(cmd.OutOrStdout(), marks)
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "page URL to fetch")
	cmd.Flags().StringVar(&file, "file", "", "saved page HTML to read")
	cmd.Flags().BoolVar(&browser, "browser", false, "render --url in a headless browser")
	cmd.Flags().IntVar(&limit, "limit", 0, "items to scan (default from settings)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print marks as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")

	return cmd
}

func printMarks(w io.Writer, marks []domain.GridMark) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "POS\tVERDICT\tITEM\tPRICE\tMIN SELL\tMARKET\tPROFIT\tREASON\n")
	for i := range marks {
		m := &marks[i]
		item, price := "-", "-"
		if m.Item != nil {
			item = m.Item.String()
			price = m.Item.Price.StringFixed(2)
		}
		profit := "-"
		if m.Profit != nil {
			profit = m.Profit.Amount.StringFixed(2) + " (" + m.Profit.Percent.StringFixed(1) + "%)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Position,
			m.Verdict,
			item,
			price,
			nullFixed(m.MinSellPrice),
			nullFixed(m.MarketPrice),
			profit,
			m.Reason,
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nullFixed(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}
