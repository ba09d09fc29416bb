package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	apiclient "github.com/luticapital/arbitrage-helper/internal/api/client"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printDecisionsTable(w io.Writer, views []domain.DecisionView) error {
	tw := newTabWriter(w)
	tw.writef("TARGET\tMODE\tSTATE\tITEM\tPRICE\tMIN SELL\tMARKET\tPROFIT\n")
	for i := range views {
		v := &views[i]
		market := "-"
		if v.Decision.Quote != nil {
			market = fixed(v.Decision.Quote.MarketPrice)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(string(v.Target), 20),
			v.Mode,
			v.Decision.State,
			truncate(v.Item.String(), 48),
			v.Item.Price.StringFixed(2),
			v.Decision.Economics.MinSellPrice.StringFixed(2),
			market,
			profitText(v.Decision.Profit),
		)
	}
	return tw.finish()
}

func printDecisionDetail(w io.Writer, v *domain.DecisionView) error {
	d := &v.Decision
	tw := newTabWriter(w)
	tw.writef("Target:\t%s\n", v.Target)
	tw.writef("Instance:\t%s\n", v.InstanceID)
	tw.writef("Mode:\t%s\n", v.Mode)
	tw.writef("Item:\t%s\n", v.Item.String())
	tw.writef("Price:\t%s\n", v.Item.Price.StringFixed(2))
	tw.writef("State:\t%s\n", d.State)
	if v.Previous != "" {
		tw.writef("Previous:\t%s\n", v.Previous)
	}
	tw.writef("Min Sell:\t%s (fee %.2f%%, margin %.2f%%)\n",
		d.Economics.MinSellPrice.StringFixed(2), d.Economics.FeePercent, d.Economics.MarginPercent)
	if q := d.Quote; q != nil {
		tw.writef("Quote:\t%s\n", q.Mode)
		tw.writef("Market:\t%s\n", fixed(q.MarketPrice))
		if q.Mode == domain.QuoteModeFull {
			tw.writef("Historic:\t%s\n", fixed(q.HistoricPrice))
			tw.writef("Fair Value:\t%s\n", fixed(q.FairValue))
		}
	}
	if d.Profit != nil {
		tw.writef("Profit:\t%s\n", profitText(d.Profit))
	}
	tw.writef("Follow-up:\t%v\n", d.FollowUp)
	tw.writef("Deeper:\t%v\n", v.Deeper)
	tw.writef("Settings:\tv%d\n", v.SettingsVersion)
	tw.writef("Updated:\t%s\n", v.UpdatedAt.Format(timeLayout))
	return tw.finish()
}

func printHistoryTable(w io.Writer, records []domain.DecisionRecord) error {
	tw := newTabWriter(w)
	tw.writef("DECIDED\tSTATE\tNAME\tWEAR\tPRICE\tMIN SELL\tMARKET\tFOLLOW-UP\n")
	for i := range records {
		r := &records[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			r.DecidedAt.Format(timeLayout),
			r.State,
			truncate(r.Name, 40),
			r.Wear,
			r.Price.StringFixed(2),
			r.MinSellPrice.StringFixed(2),
			fixed(r.MarketPrice),
			r.FollowUp,
		)
	}
	return tw.finish()
}

func printHistoryStats(w io.Writer, s *apiclient.HistoryStats) error {
	states := make([]domain.DecisionState, 0, len(s.Counts))
	for st := range s.Counts {
		states = append(states, st)
	}
	slices.Sort(states)

	tw := newTabWriter(w)
	tw.writef("Since:\t%s\n", s.Since.Format(timeLayout))
	for _, st := range states {
		tw.writef("%s:\t%d\n", st, s.Counts[st])
	}
	tw.writef("Total:\t%d\n", s.Total)
	return tw.finish()
}

func printMarksTable(w io.Writer, marks []domain.GridMark) error {
	tw := newTabWriter(w)
	tw.writef("POS\tVERDICT\tITEM\tPRICE\tMIN SELL\tMARKET\tPROFIT\tREASON\n")
	for i := range marks {
		m := &marks[i]
		item, price := "-", "-"
		if m.Item != nil {
			item = truncate(m.Item.String(), 48)
			price = m.Item.Price.StringFixed(2)
		}
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Position,
			m.Verdict,
			item,
			price,
			fixed(m.MinSellPrice),
			fixed(m.MarketPrice),
			profitText(m.Profit),
			m.Reason,
		)
	}
	return tw.finish()
}

func printEvaluation(w io.Writer, ev *apiclient.Evaluation) error {
	d := &ev.Decision
	tw := newTabWriter(w)
	tw.writef("Item:\t%s\n", ev.Item.String())
	tw.writef("Price:\t%s\n", ev.Item.Price.StringFixed(2))
	tw.writef("Min Sell:\t%s (fee %.2f%%, margin %.2f%%)\n",
		d.Economics.MinSellPrice.StringFixed(2), d.Economics.FeePercent, d.Economics.MarginPercent)
	tw.writef("State:\t%s\n", d.State)
	if q := d.Quote; q != nil {
		tw.writef("Market:\t%s\n", fixed(q.MarketPrice))
		if q.Mode == domain.QuoteModeFull {
			tw.writef("Fair Value:\t%s\n", fixed(q.FairValue))
		}
	}
	if d.Profit != nil {
		tw.writef("Profit:\t%s\n", profitText(d.Profit))
	}
	tw.writef("Settings:\tv%d\n", ev.SettingsVersion)
	return tw.finish()
}

func printSettings(w io.Writer, s *domain.Settings) error {
	tw := newTabWriter(w)
	tw.writef("Version:\t%d\n", s.Version)
	tw.writef("Fee:\t%.2f%%\n", s.FeePercent)
	tw.writef("Margin:\t%.2f%%\n", s.MarginPercent)
	tw.writef("Oracle:\t%v\n", s.OracleEnabled)
	tw.writef("Historic:\t%v\n", s.HistoricEnabled)
	tw.writef("Grid Scan Limit:\t%d\n", s.GridScanLimit)
	return tw.finish()
}

func printQuota(w io.Writer, q *apiclient.Quota) error {
	tw := newTabWriter(w)
	tw.writef("Rate:\t%g/s (burst %d)\n", q.PerSecond, q.Burst)
	switch {
	case q.Unlimited || q.DailyLimit == nil:
		tw.writef("Daily Limit:\tunlimited\n")
	case q.Exhausted:
		tw.writef("Daily Limit:\t%d (exhausted)\n", *q.DailyLimit)
	default:
		tw.writef("Daily Limit:\t%d\n", *q.DailyLimit)
	}
	if q.Remaining != nil {
		tw.writef("Remaining:\t%d\n", *q.Remaining)
	}
	tw.writef("Used:\t%d\n", q.Used)
	tw.writef("Resets:\t%s\n", q.ResetAt.Format(timeLayout))
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fixed(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func profitText(p *domain.Profit) string {
	if p == nil {
		return "-"
	}
	return p.Amount.StringFixed(2) + " (" + p.Percent.StringFixed(1) + "%)"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
