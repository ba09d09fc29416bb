package page

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Structural markers that identify the page mode.
const (
	DetailMarker = ".modal-content"
	GridMarker   = "ul.grid"
	GridNodeSel  = "li.product-box"
)

// DetectMode reports which pipeline applies to doc. The detail modal wins
// when both markers are present since it is drawn over the grid.
func DetectMode(doc *goquery.Document) domain.PageMode {
	switch {
	case doc.Find(DetailMarker).Length() > 0:
		return domain.ModeDetail
	case HasGrid(doc):
		return domain.ModeGrid
	default:
		return domain.ModeNone
	}
}

// HasGrid reports whether the grid is on the page, even under a modal.
func HasGrid(doc *goquery.Document) bool {
	return doc.Find(GridMarker).Length() > 0
}

// Region is the single-item container of a detail page.
type Region struct {
	Key       domain.TargetKey
	Anchor    string
	Selection *goquery.Selection
}

// DetailRegion returns the detail modal, or false if the page has none.
func DetailRegion(doc *goquery.Document) (Region, bool) {
	modal := doc.Find(DetailMarker).First()
	if modal.Length() == 0 {
		return Region{}, false
	}

	return Region{
		Key:       detailKey(modal),
		Anchor:    detailAnchor(modal),
		Selection: modal,
	}, true
}

// detailKey keys the modal on the item it shows, so price nodes filling in
// later do not look like a new target.
func detailKey(modal *goquery.Selection) domain.TargetKey {
	identity := collapse(modal.Find(".modal-title").First().Text()) + "\x00" +
		collapse(modal.Find(".product-exterior").First().Text())
	if identity == "\x00" {
		identity = collapse(modal.Text())
	}
	return domain.TargetKey("detail:" + strconv.FormatUint(xxhash.Sum64String(identity), 16))
}

func detailAnchor(modal *goquery.Selection) string {
	if modal.Find(".product-price").Length() > 0 {
		return ".product-price"
	}
	if modal.Find("h2").Length() > 0 {
		return DetailMarker + " h2"
	}
	return DetailMarker
}

// Node is one item of the grid.
type Node struct {
	Key       domain.TargetKey
	Position  int
	Selection *goquery.Selection
}

var nodeIDAttrs = []string{"id", "data-id", "data-item-id"}

// GridNodes returns the grid's items in page order.
func GridNodes(doc *goquery.Document) []Node {
	var nodes []Node
	doc.Find(GridMarker).First().Find(GridNodeSel).Each(func(i int, s *goquery.Selection) {
		nodes = append(nodes, Node{
			Key:       nodeKey(s, i),
			Position:  i,
			Selection: s,
		})
	})
	return nodes
}

// nodeKey prefers identifiers the marketplace puts on the node. Without one
// the key falls back to the node's text and position, which is stable as
// long as the grid is not reordered.
func nodeKey(s *goquery.Selection, pos int) domain.TargetKey {
	for _, attr := range nodeIDAttrs {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return domain.TargetKey("grid:" + strings.TrimSpace(v))
		}
	}
	if href, ok := s.Find("a[href]").First().Attr("href"); ok && href != "" {
		return domain.TargetKey("grid:" + href)
	}
	sum := xxhash.Sum64String(collapse(s.Text()))
	return domain.TargetKey("grid:" + strconv.FormatUint(sum, 16) + "#" + strconv.Itoa(pos))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
