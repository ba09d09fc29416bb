package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/pkg/extract"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const detailHTML = `<html><body>
<div class="modal-content">
  <h5 class="modal-title">
    AK-47 |
      Redline
  </h5>
  <div class="product-exterior">Field-Tested</div>
  <div class="product-price"><h2 class="product-price-heading">€1,234.56</h2></div>
</div>
</body></html>`

func TestExtractor_Detail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		html      string
		wantErr   error
		wantName  string
		wantWear  domain.WearGrade
		wantPrice string
	}{
		{
			name:      "complete modal",
			html:      detailHTML,
			wantName:  "AK-47 | Redline",
			wantWear:  domain.WearFieldTested,
			wantPrice: "1234.56",
		},
		{
			name: "falls back to nested price span",
			html: `<div class="modal-content">
				<h5 class="modal-title">AWP | Asiimov</h5>
				<span class="product-exterior">Battle-Scarred</span>
				<div class="product-price"><span>€88.10</span></div>
			</div>`,
			wantName:  "AWP | Asiimov",
			wantWear:  domain.WearBattleScarred,
			wantPrice: "88.1",
		},
		{
			name: "generic price attribute fallback skips non-prices",
			html: `<div class="modal-content">
				<h5 class="modal-title">M4A4 | Howl</h5>
				<span class="product-exterior">Minimal Wear</span>
				<div class="price-label">Price</div>
				<div class="old-price">€0.00</div>
				<div class="price-value">€2,500.00</div>
			</div>`,
			wantName:  "M4A4 | Howl",
			wantWear:  domain.WearMinimalWear,
			wantPrice: "2500",
		},
		{
			name: "unrecognized wear is kept as unknown",
			html: `<div class="modal-content">
				<h5 class="modal-title">Sticker | Crown (Foil)</h5>
				<span class="product-exterior">Not Painted</span>
				<h2 class="text-white">€410.00</h2>
			</div>`,
			wantName:  "Sticker | Crown (Foil)",
			wantWear:  domain.WearUnknown,
			wantPrice: "410",
		},
		{
			name:    "title not rendered yet",
			html:    `<div class="modal-content"><span class="product-exterior">Factory New</span></div>`,
			wantErr: extract.ErrNotRendered,
		},
		{
			name:    "exterior not rendered yet",
			html:    `<div class="modal-content"><h5 class="modal-title">Glock-18 | Fade</h5></div>`,
			wantErr: extract.ErrNotRendered,
		},
		{
			name: "no positive price",
			html: `<div class="modal-content">
				<h5 class="modal-title">Glock-18 | Fade</h5>
				<span class="product-exterior">Factory New</span>
				<h2 class="product-price-heading">€0.00</h2>
			</div>`,
			wantErr: extract.ErrNoPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseHTML(t, tt.html)
			item, err := extract.NewDetailExtractor().Extract(doc.Selection, "detail:test")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, extract.IsTransient(err))
				assert.Equal(t, domain.ListedItem{}, item)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, item.Name)
			assert.Equal(t, tt.wantWear, item.Wear)
			assert.Equal(t, tt.wantPrice, item.Price.String())
			assert.Equal(t, domain.TargetKey("detail:test"), item.Target)
		})
	}
}

func TestExtractor_GridLayouts(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, `<ul class="grid">
		<li class="product-box" id="a">
			<div class="offer-card">
				<span class="badge-wrapper badgetext">StatTrak™ AK-47</span>
				<span class="lName big">Vulcan</span>
				<span class="exteriorName">Minimal Wear</span>
				<span class="price item">€ 95.00</span>
			</div>
		</li>
		<li class="product-box" id="b">
			<div class="product-name">Souvenir AWP | Dragon Lore</div>
			<div class="product-exterior">Factory New</div>
			<div class="product-price">€12,000.00</div>
		</li>
		<li class="product-box" id="c">
			<span class="lName big">Redline</span>
		</li>
	</ul>`)

	ex := extract.NewGridExtractor()
	nodes := doc.Find("li.product-box")
	require.Equal(t, 3, nodes.Length())

	badge, err := ex.Extract(nodes.Eq(0), "grid:a")
	require.NoError(t, err)
	assert.Equal(t, "StatTrak™ AK-47 | Vulcan", badge.Name)
	assert.Equal(t, domain.WearMinimalWear, badge.Wear)
	assert.Equal(t, "95", badge.Price.String())
	assert.True(t, badge.StatTrak)
	assert.False(t, badge.Souvenir)

	product, err := ex.Extract(nodes.Eq(1), "grid:b")
	require.NoError(t, err)
	assert.Equal(t, "Souvenir AWP | Dragon Lore", product.Name)
	assert.Equal(t, "12000", product.Price.String())
	assert.True(t, product.Souvenir)

	_, err = ex.Extract(nodes.Eq(2), "grid:c")
	require.ErrorIs(t, err, extract.ErrNotRendered)
}

func TestExtractor_Idempotent(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, detailHTML)
	ex := extract.NewDetailExtractor()

	first, err := ex.Extract(doc.Selection, "detail:x")
	require.NoError(t, err)
	second, err := ex.Extract(doc.Selection, "detail:x")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not idempotent (-first +second):\n%s", diff)
	}
}
