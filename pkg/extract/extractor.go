// Package extract recovers item identity and asking price from marketplace
// markup that changes between page variants.
package extract

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

var (
	// ErrNotRendered is returned when no layout finds both the title and the
	// exterior node. The page is usually still rendering.
	ErrNotRendered = errors.New("item content not rendered")

	// ErrNoPrice is returned when the identity nodes exist but no price
	// candidate parses to a positive amount.
	ErrNoPrice = errors.New("no positive price found")
)

// IsTransient reports whether err may clear up once the page finishes
// rendering.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNotRendered) || errors.Is(err, ErrNoPrice)
}

// Layout describes where one page variant keeps an item's fields.
type Layout struct {
	Name string
	// Title selectors are resolved in order and their texts joined with " | ".
	// Every selector must match.
	Title []string
	Wear  string
	// Price selectors are tried in order, most specific first.
	Price []string
}

// DetailLayout is the single-item modal.
func DetailLayout() Layout {
	return Layout{
		Name:  "detail",
		Title: []string{".modal-title"},
		Wear:  ".product-exterior",
		Price: []string{
			".product-price-heading",
			".product-price span",
			"h2.text-white",
			`[class*="price"]`,
		},
	}
}

// BadgeGridLayout is the grid card that splits weapon and skin names.
func BadgeGridLayout() Layout {
	return Layout{
		Name:  "grid-badge",
		Title: []string{".badge-wrapper.badgetext", ".lName.big"},
		Wear:  ".exteriorName",
		Price: []string{".price.item", `[class*="price"]`},
	}
}

// ProductGridLayout is the grid card with a single product name.
func ProductGridLayout() Layout {
	return Layout{
		Name:  "grid-product",
		Title: []string{".product-name"},
		Wear:  ".product-exterior",
		Price: []string{".product-price", `[class*="price"]`},
	}
}

// Extractor tries an ordered list of layouts against a DOM region.
type Extractor struct {
	layouts []Layout
}

// NewExtractor creates an Extractor that tries layouts in the given order.
func NewExtractor(layouts ...Layout) *Extractor {
	return &Extractor{layouts: layouts}
}

// NewDetailExtractor creates an Extractor for the single-item view.
func NewDetailExtractor() *Extractor {
	return NewExtractor(DetailLayout())
}

// NewGridExtractor creates an Extractor for grid nodes.
func NewGridExtractor() *Extractor {
	return NewExtractor(BadgeGridLayout(), ProductGridLayout())
}

// Extract returns the item found in scope by the first layout that yields a
// complete result. It never returns a partially populated item.
func (e *Extractor) Extract(
	scope *goquery.Selection,
	target domain.TargetKey,
) (domain.ListedItem, error) {
	err := ErrNotRendered

	for i := range e.layouts {
		item, layoutErr := extractLayout(scope, &e.layouts[i])
		if layoutErr == nil {
			item.Target = target
			return item, nil
		}
		// A missing price is more specific than missing identity nodes.
		if errors.Is(layoutErr, ErrNoPrice) {
			err = layoutErr
		}
	}

	return domain.ListedItem{}, err
}

func extractLayout(scope *goquery.Selection, l *Layout) (domain.ListedItem, error) {
	parts := make([]string, 0, len(l.Title))
	for _, sel := range l.Title {
		node := scope.Find(sel).First()
		if node.Length() == 0 {
			return domain.ListedItem{}, ErrNotRendered
		}
		text := collapseSpace(node.Text())
		if text == "" {
			return domain.ListedItem{}, ErrNotRendered
		}
		parts = append(parts, text)
	}

	wearNode := scope.Find(l.Wear).First()
	if wearNode.Length() == 0 {
		return domain.ListedItem{}, ErrNotRendered
	}
	rawWear := collapseSpace(wearNode.Text())

	price, ok := findPrice(scope, l.Price)
	if !ok {
		return domain.ListedItem{}, ErrNoPrice
	}

	name := strings.Join(parts, " | ")

	return domain.ListedItem{
		ItemIdentity: domain.ItemIdentity{
			Name:    name,
			Wear:    NormalizeWear(rawWear),
			RawWear: rawWear,
		},
		Price:    price,
		StatTrak: strings.Contains(name, "StatTrak"),
		Souvenir: strings.Contains(name, "Souvenir"),
	}, nil
}

func findPrice(scope *goquery.Selection, selectors []string) (decimal.Decimal, bool) {
	for _, sel := range selectors {
		var (
			found decimal.Decimal
			ok    bool
		)
		scope.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found, ok = ParsePrice(strings.TrimSpace(s.Text()))
			return !ok
		})
		if ok {
			return found, true
		}
	}
	return decimal.Zero, false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
