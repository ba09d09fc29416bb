package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luticapital/arbitrage-helper/pkg/extract"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "plain euro", text: "€12.50", want: "12.5", wantOK: true},
		{name: "space after symbol", text: "€ 7.01", want: "7.01", wantOK: true},
		{name: "thousands separator", text: "€1,000.00", want: "1000", wantOK: true},
		{name: "multiple separators", text: "€1,234,567.89", want: "1234567.89", wantOK: true},
		{name: "integer", text: "€300", want: "300", wantOK: true},
		{name: "surrounding text", text: "Price: €19.99 incl. fees", want: "19.99", wantOK: true},
		{name: "dollar", text: "$4.20", want: "4.2", wantOK: true},
		{name: "first amount wins", text: "€5.00 was €9.00", want: "5", wantOK: true},
		{name: "zero rejected", text: "€0.00", wantOK: false},
		{name: "no symbol", text: "12.50", wantOK: false},
		{name: "separator only", text: "€,", wantOK: false},
		{name: "empty", text: "", wantOK: false},
		{name: "text only", text: "Sold out", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := extract.ParsePrice(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "currency prefixed", text: "$100.00", want: "100", wantOK: true},
		{name: "plain", text: "100", want: "100", wantOK: true},
		{name: "plain with separator", text: " 1,250.5 ", want: "1250.5", wantOK: true},
		{name: "zero", text: "0", wantOK: false},
		{name: "negative", text: "-5", wantOK: false},
		{name: "garbage", text: "cheap", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := extract.ParseAmount(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}
