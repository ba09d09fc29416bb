package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // profit 20%+
	colorYellow = 0xF1C40F // profit 10-20%
	colorOrange = 0xE67E22 // below 10%

	maxEmbeds = 10
)

var (
	greenThreshold  = decimal.NewFromInt(20)
	yellowThreshold = decimal.NewFromInt(10)
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendDeal sends a single deal as a Discord embed.
func (d *DiscordNotifier) SendDeal(ctx context.Context, deal *DealPayload) error {
	return d.post(ctx, discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(deal)},
	})
}

// SendBatch sends multiple deals as a single Discord message.
func (d *DiscordNotifier) SendBatch(
	ctx context.Context,
	deals []DealPayload,
	title string,
) error {
	limit := min(len(deals), maxEmbeds)
	embeds := make([]discordEmbed, 0, limit+1)

	for i := range limit {
		embeds = append(embeds, buildEmbed(&deals[i]))
	}

	if len(deals) > maxEmbeds {
		embeds = append(embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more deals in %s", len(deals)-maxEmbeds, title),
			Color:       colorYellow,
			Description: "Check the decision history for the full list.",
		})
	}

	return d.post(ctx, discordWebhookPayload{Embeds: embeds})
}

func buildEmbed(deal *DealPayload) discordEmbed {
	compareLabel := "Market Price"
	if deal.Mode == domain.QuoteModeFull {
		compareLabel = "Fair Value"
	}

	return discordEmbed{
		Title: fmt.Sprintf("Good Deal: %s (%s)", deal.Item, deal.Wear),
		URL:   deal.PageURL,
		Color: profitColor(deal.ProfitPercent),
		Fields: []discordEmbedField{
			{Name: "Price", Value: deal.Price.StringFixed(2), Inline: true},
			{Name: "Min Sell", Value: deal.MinSellPrice.StringFixed(2), Inline: true},
			{Name: compareLabel, Value: deal.ComparePrice.StringFixed(2), Inline: true},
			{Name: "Est. Profit", Value: deal.ProfitAmount.StringFixed(2), Inline: true},
			{Name: "Profit %", Value: deal.ProfitPercent.StringFixed(1) + "%", Inline: true},
			{Name: "Seen In", Value: string(deal.Source), Inline: true},
		},
	}
}

func profitColor(pct decimal.Decimal) int {
	switch {
	case pct.GreaterThanOrEqual(greenThreshold):
		return colorGreen
	case pct.GreaterThanOrEqual(yellowThreshold):
		return colorYellow
	default:
		return colorOrange
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.client.Do(req)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
