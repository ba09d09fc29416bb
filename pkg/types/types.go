// Package domain defines the core business types for the arbitrage helper.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WearGrade represents the normalized condition of a tradable item.
type WearGrade string

// Wear grade constants.
const (
	WearFactoryNew    WearGrade = "factory_new"
	WearMinimalWear   WearGrade = "minimal_wear"
	WearFieldTested   WearGrade = "field_tested"
	WearWellWorn      WearGrade = "well_worn"
	WearBattleScarred WearGrade = "battle_scarred"
	WearUnknown       WearGrade = "unknown"
)

// wearLabels holds the display labels the oracle expects in requests.
var wearLabels = map[WearGrade]string{
	WearFactoryNew:    "Factory New",
	WearMinimalWear:   "Minimal Wear",
	WearFieldTested:   "Field-Tested",
	WearWellWorn:      "Well-Worn",
	WearBattleScarred: "Battle-Scarred",
}

// Label returns the display label for the grade, or "" for WearUnknown.
func (w WearGrade) Label() string {
	return wearLabels[w]
}

// ItemIdentity identifies an item independent of its listing price.
type ItemIdentity struct {
	Name    string    `json:"name"`
	Wear    WearGrade `json:"wear"`
	RawWear string    `json:"raw_wear,omitempty"`
}

// WearLabel returns the label sent to the oracle. Unrecognized grades fall
// back to the raw text scraped from the page.
func (i ItemIdentity) WearLabel() string {
	if l := i.Wear.Label(); l != "" {
		return l
	}
	return strings.TrimSpace(i.RawWear)
}

// String formats the identity the way the marketplace displays it.
func (i ItemIdentity) String() string {
	label := i.WearLabel()
	if label == "" {
		return i.Name
	}
	return i.Name + " (" + label + ")"
}

// TargetKey identifies a page region or grid node a decision belongs to.
type TargetKey string

// ListedItem is an item scraped from the page together with its asking price.
// Price is always strictly positive.
type ListedItem struct {
	ItemIdentity

	Price    decimal.Decimal `json:"price"`
	Target   TargetKey       `json:"target"`
	StatTrak bool            `json:"stattrak,omitempty"`
	Souvenir bool            `json:"souvenir,omitempty"`
}

// EconomicsResult holds the break-even figures for a buy price.
type EconomicsResult struct {
	BuyPrice     decimal.Decimal `json:"buy_price"`
	MinSellPrice decimal.Decimal `json:"min_sell_price"`
	// BreakEvenMargin is the markup of MinSellPrice over BuyPrice, in percent.
	BreakEvenMargin decimal.Decimal `json:"break_even_margin"`
	FeePercent      float64         `json:"fee_percent"`
	MarginPercent   float64         `json:"margin_percent"`
}

// Profit describes the realized result of selling at a given price.
type Profit struct {
	SellPrice   decimal.Decimal `json:"sell_price"`
	NetReceived decimal.Decimal `json:"net_received"`
	Amount      decimal.Decimal `json:"amount"`
	Percent     decimal.Decimal `json:"percent"`
}

// QuoteMode distinguishes the two oracle request shapes.
type QuoteMode string

// Quote mode constants.
const (
	QuoteModeMarket QuoteMode = "market"
	QuoteModeFull   QuoteMode = "full"
)

// MarketQuote is the result of a market-only oracle query.
type MarketQuote struct {
	MarketPrice decimal.Decimal `json:"market_price"`
}

// FullQuote is the result of a market + historic oracle query.
type FullQuote struct {
	MarketPrice   decimal.Decimal `json:"market_price"`
	HistoricPrice decimal.Decimal `json:"historic_price"`
	FairValue     decimal.Decimal `json:"fair_value"`
}

// OracleQuote is the presentation form of either quote variant. Fields the
// variant does not carry are null.
type OracleQuote struct {
	Mode          QuoteMode           `json:"mode"`
	MarketPrice   decimal.NullDecimal `json:"market_price"`
	HistoricPrice decimal.NullDecimal `json:"historic_price"`
	FairValue     decimal.NullDecimal `json:"fair_value"`
}

// Quote converts a market quote to its presentation form.
func (q MarketQuote) Quote() OracleQuote {
	return OracleQuote{
		Mode:        QuoteModeMarket,
		MarketPrice: decimal.NewNullDecimal(q.MarketPrice),
	}
}

// Quote converts a full quote to its presentation form.
func (q FullQuote) Quote() OracleQuote {
	return OracleQuote{
		Mode:          QuoteModeFull,
		MarketPrice:   decimal.NewNullDecimal(q.MarketPrice),
		HistoricPrice: decimal.NewNullDecimal(q.HistoricPrice),
		FairValue:     decimal.NewNullDecimal(q.FairValue),
	}
}

// DecisionState is the presentation state of a single item decision.
type DecisionState string

// Decision state constants.
const (
	StateLoading       DecisionState = "loading"
	StateQuickCalcOnly DecisionState = "quick_calc_only"
	StateGoodDeal      DecisionState = "good_deal"
	StateBadDeal       DecisionState = "bad_deal"
	StateNoMarketData  DecisionState = "no_market_data"
	StateOracleOffline DecisionState = "oracle_offline"
)

// Terminal reports whether the state ends the oracle resolution.
func (s DecisionState) Terminal() bool {
	return s != StateLoading && s != ""
}

// Decision is what gets rendered for one item.
type Decision struct {
	State     DecisionState   `json:"state"`
	Economics EconomicsResult `json:"economics"`
	Quote     *OracleQuote    `json:"quote,omitempty"`
	Profit    *Profit         `json:"profit,omitempty"`
	// FollowUp is set when the decision came from an on-demand full-mode query.
	FollowUp bool `json:"follow_up,omitempty"`
}

// DecisionView is a decision bound to its item and rendering target.
type DecisionView struct {
	InstanceID      string        `json:"instance_id"`
	Target          TargetKey     `json:"target"`
	Mode            PageMode      `json:"mode"`
	Anchor          string        `json:"anchor,omitempty"`
	Item            ListedItem    `json:"item"`
	Decision        Decision      `json:"decision"`
	Previous        DecisionState `json:"previous_state,omitempty"`
	Deeper          bool          `json:"deeper_available"`
	SettingsVersion int64         `json:"settings_version"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Settings is an immutable snapshot of the user-tunable settings.
type Settings struct {
	FeePercent      float64 `json:"fee_percent"       mapstructure:"fee_percent"       yaml:"fee_percent"       validate:"gte=0,lt=100"`
	MarginPercent   float64 `json:"margin_percent"    mapstructure:"margin_percent"    yaml:"margin_percent"    validate:"gte=0,lte=100"`
	OracleEnabled   bool    `json:"oracle_enabled"    mapstructure:"oracle_enabled"    yaml:"oracle_enabled"`
	HistoricEnabled bool    `json:"historic_enabled"  mapstructure:"historic_enabled"  yaml:"historic_enabled"`
	GridScanLimit   int     `json:"grid_scan_limit"   mapstructure:"grid_scan_limit"   yaml:"grid_scan_limit"   validate:"gte=1,lte=500"`
	Version         int64   `json:"version"           mapstructure:"-"                 yaml:"-"                 validate:"-"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		FeePercent:      8,
		MarginPercent:   10,
		OracleEnabled:   true,
		HistoricEnabled: false,
		GridScanLimit:   5,
	}
}

var hundred = decimal.NewFromInt(100)

// FeeRate returns the fee as a fraction.
func (s Settings) FeeRate() decimal.Decimal {
	return decimal.NewFromFloat(s.FeePercent).Div(hundred)
}

// MarginRate returns the target margin as a fraction.
func (s Settings) MarginRate() decimal.Decimal {
	return decimal.NewFromFloat(s.MarginPercent).Div(hundred)
}

// PageMode is the kind of page currently displayed.
type PageMode string

// Page mode constants.
const (
	ModeNone   PageMode = "none"
	ModeDetail PageMode = "detail"
	ModeGrid   PageMode = "grid"
)

// GridVerdict is the visual classification of a scanned grid node.
type GridVerdict string

// Grid verdict constants.
const (
	VerdictGood GridVerdict = "good"
	VerdictBad  GridVerdict = "bad"
	VerdictSkip GridVerdict = "skip"
)

// GridMark is the result of scanning one grid node.
type GridMark struct {
	Target       TargetKey           `json:"target"`
	Position     int                 `json:"position"`
	Verdict      GridVerdict         `json:"verdict"`
	Item         *ListedItem         `json:"item,omitempty"`
	MinSellPrice decimal.NullDecimal `json:"min_sell_price"`
	MarketPrice  decimal.NullDecimal `json:"market_price"`
	Profit       *Profit             `json:"profit,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	ScannedAt    time.Time           `json:"scanned_at"`
}

// DecisionRecord is a terminal decision persisted to history.
type DecisionRecord struct {
	ID              string              `json:"id"               db:"id"`
	InstanceID      string              `json:"instance_id"      db:"instance_id"`
	Target          string              `json:"target"           db:"target_key"`
	Name            string              `json:"name"             db:"name"`
	Wear            WearGrade           `json:"wear"             db:"wear"`
	Price           decimal.Decimal     `json:"price"            db:"price"`
	MinSellPrice    decimal.Decimal     `json:"min_sell_price"   db:"min_sell_price"`
	State           DecisionState       `json:"state"            db:"state"`
	Mode            QuoteMode           `json:"mode,omitempty"   db:"quote_mode"`
	MarketPrice     decimal.NullDecimal `json:"market_price"     db:"market_price"`
	HistoricPrice   decimal.NullDecimal `json:"historic_price"   db:"historic_price"`
	FairValue       decimal.NullDecimal `json:"fair_value"       db:"fair_value"`
	FeePercent      float64             `json:"fee_percent"      db:"fee_percent"`
	MarginPercent   float64             `json:"margin_percent"   db:"margin_percent"`
	SettingsVersion int64               `json:"settings_version" db:"settings_version"`
	FollowUp        bool                `json:"follow_up"        db:"follow_up"`
	DecidedAt       time.Time           `json:"decided_at"       db:"decided_at"`
}

// NewDecisionRecord flattens a rendered view into a history record.
func NewDecisionRecord(v *DecisionView) *DecisionRecord {
	r := &DecisionRecord{
		InstanceID:      v.InstanceID,
		Target:          string(v.Target),
		Name:            v.Item.Name,
		Wear:            v.Item.Wear,
		Price:           v.Item.Price,
		MinSellPrice:    v.Decision.Economics.MinSellPrice,
		State:           v.Decision.State,
		FeePercent:      v.Decision.Economics.FeePercent,
		MarginPercent:   v.Decision.Economics.MarginPercent,
		SettingsVersion: v.SettingsVersion,
		FollowUp:        v.Decision.FollowUp,
		DecidedAt:       v.UpdatedAt,
	}
	if q := v.Decision.Quote; q != nil {
		r.Mode = q.Mode
		r.MarketPrice = q.MarketPrice
		r.HistoricPrice = q.HistoricPrice
		r.FairValue = q.FairValue
	}
	return r
}
