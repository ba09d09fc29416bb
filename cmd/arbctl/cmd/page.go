package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/luticapital/arbitrage-helper/internal/api/client"
)

func gridCmd() *cobra.Command {
	var verdict string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show grid scan marks",
		Example: `  arbctl grid
  arbctl grid --verdict good`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			g, err := c.GetGrid(context.Background(), verdict)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), g)
			}
			if err := printMarksTable(cmd.OutOrStdout(), g.Marks); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\ngood %d, bad %d, skip %d\n",
				g.Tally["good"], g.Tally["bad"], g.Tally["skip"])
			return nil
		},
	}
	cmd.Flags().StringVar(&verdict, "verdict", "", "only marks with this verdict (good, bad, skip)")

	return cmd
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Poll the observed page now",
		Long: "Fetch the observed page immediately instead of waiting for the next\n" +
			"scheduled poll. Nothing is done when the page has not changed.",
		Example: `  arbctl scan`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			res, err := c.Scan(context.Background())
			if err != nil {
				return err
			}
			return printScanResult(cmd.OutOrStdout(), res)
		},
	}
}

func pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>",
		Short: "Push a saved page through the pipeline",
		Long: "Send the HTML of a page to the server, which handles it as if the\n" +
			"observed page had changed to it. Use - to read from stdin.",
		Example: `  arbctl push grid.html
  curl -s https://market.example/listing | arbctl push -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			c := newClient()
			res, err := c.PushPage(context.Background(), string(html))
			if err != nil {
				return err
			}
			return printScanResult(cmd.OutOrStdout(), res)
		},
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path) //nolint:gosec // path from CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return b, nil
}

func printScanResult(w io.Writer, res *apiclient.ScanResult) error {
	if jsonOutput() {
		return outputJSON(w, res)
	}
	if !res.Changed {
		_, err := fmt.Fprintln(w, "Page unchanged.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Mode: %s\n", res.Mode); err != nil {
		return err
	}
	switch {
	case res.Decision != nil:
		return printDecisionDetail(w, res.Decision)
	case len(res.Marks) > 0:
		return printMarksTable(w, res.Marks)
	}
	return nil
}
