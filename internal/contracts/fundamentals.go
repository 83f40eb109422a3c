package contracts

import "time"

// FundamentalSnapshot is a point-in-time view of a security's fundamentals.
// A zero or negative value on a ratio field means the figure was not
// available from the data source; evaluators treat it as unknown rather than
// as a literal zero.
type FundamentalSnapshot struct {
	Symbol        string  `json:"symbol"`
	PETTM         float64 `json:"pe_ttm"`
	PB            float64 `json:"pb"`
	PEG           float64 `json:"peg"`
	ROE           float64 `json:"roe"`            // percent
	GrossMargin   float64 `json:"gross_margin"`   // percent
	NetMargin     float64 `json:"net_margin"`     // percent
	RevenueGrowth float64 `json:"revenue_growth"` // percent, yoy
	ProfitGrowth  float64 `json:"profit_growth"`  // percent, yoy
	DebtRatio     float64 `json:"debt_ratio"`     // percent
	DividendYield float64 `json:"dividend_yield"` // percent
	MarketCap     float64 `json:"market_cap"`
	OCFToProfit   float64 `json:"ocf_to_profit"` // operating cashflow / net profit

	// Ownership structure, trend-signed: positive means increasing.
	InstHoldingTrend      float64 `json:"inst_holding_trend"`
	ShareholderCountTrend float64 `json:"shareholder_count_trend"`

	ForecastUpgrade bool      `json:"forecast_upgrade"` // upward-revised guidance
	AsOf            time.Time `json:"as_of"`
}

// DerivePEG fills PEG from PE and profit growth when it was not supplied.
func (f *FundamentalSnapshot) DerivePEG() {
	if f.PEG == 0 && f.PETTM > 0 && f.ProfitGrowth > 0 {
		f.PEG = f.PETTM / f.ProfitGrowth
	}
}

// ValuationLevel is the qualitative valuation classification.
type ValuationLevel int

const (
	ValuationUnknown ValuationLevel = iota
	Undervalued
	FairValued
	Overvalued
)

func (v ValuationLevel) String() string {
	switch v {
	case Undervalued:
		return "undervalued"
	case FairValued:
		return "fair"
	case Overvalued:
		return "overvalued"
	default:
		return "unknown"
	}
}

// ProfitabilityLevel is the qualitative profitability classification.
type ProfitabilityLevel int

const (
	ProfitabilityUnknown ProfitabilityLevel = iota
	WeakProfitability
	ModerateProfitability
	StrongProfitability
)

func (p ProfitabilityLevel) String() string {
	switch p {
	case WeakProfitability:
		return "weak"
	case ModerateProfitability:
		return "moderate"
	case StrongProfitability:
		return "strong"
	default:
		return "unknown"
	}
}

// GrowthLevel is the qualitative growth classification.
type GrowthLevel int

const (
	GrowthUnknown GrowthLevel = iota
	LowGrowth
	MediumGrowth
	HighGrowth
)

func (g GrowthLevel) String() string {
	switch g {
	case LowGrowth:
		return "low"
	case MediumGrowth:
		return "medium"
	case HighGrowth:
		return "high"
	default:
		return "unknown"
	}
}

// FundamentalLevels bundles the qualitative classifications for a snapshot.
type FundamentalLevels struct {
	Valuation     ValuationLevel     `json:"valuation"`
	Profitability ProfitabilityLevel `json:"profitability"`
	Growth        GrowthLevel        `json:"growth"`
}
