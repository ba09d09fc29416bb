package extract

import (
	"strings"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// wearKeywords is checked in order; the first keyword contained in the label
// wins.
var wearKeywords = []struct {
	keyword string
	grade   domain.WearGrade
}{
	{"factory", domain.WearFactoryNew},
	{"minimal", domain.WearMinimalWear},
	{"field", domain.WearFieldTested},
	{"well", domain.WearWellWorn},
	{"battle", domain.WearBattleScarred},
}

// NormalizeWear maps a free-text exterior label to a domain.WearGrade.
// Labels without a recognizable keyword return WearUnknown.
func NormalizeWear(raw string) domain.WearGrade {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return domain.WearUnknown
	}

	for _, kw := range wearKeywords {
		if strings.Contains(normalized, kw.keyword) {
			return kw.grade
		}
	}

	return domain.WearUnknown
}
