package strategyconfig

import (
	"github.com/openclaw/stock/internal/fundamentals"
	"github.com/openclaw/stock/internal/indicators"
)

// Config is the complete tunable strategy definition: indicator windows,
// scoring weight tables, screening filters and alert thresholds. Deployments
// override the built-in defaults through a YAML file.
type Config struct {
	Meta         Meta                     `yaml:"meta" json:"meta"`
	Indicators   indicators.Config        `yaml:"indicators" json:"indicators"`
	Fundamentals fundamentals.Breakpoints `yaml:"fundamentals" json:"fundamentals"`
	ShortTerm    ShortTerm                `yaml:"short_term" json:"short_term"`
	LongTerm     LongTerm                 `yaml:"long_term" json:"long_term"`
	Screening    Screening                `yaml:"screening" json:"screening"`
	Alerts       Alerts                   `yaml:"alerts" json:"alerts"`
}

// Meta identifies a strategy revision.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// ShortTerm is the weight table for the short-term (momentum) profile.
// Component caps must sum to 100.
type ShortTerm struct {
	TechnicalCap   float64 `yaml:"technical_cap" json:"technical_cap"`
	CapitalFlowCap float64 `yaml:"capital_flow_cap" json:"capital_flow_cap"`
	SentimentCap   float64 `yaml:"sentiment_cap" json:"sentiment_cap"`
	NewsCap        float64 `yaml:"news_cap" json:"news_cap"`

	// SignalPoints is awarded per matched technical signal, additive up
	// to TechnicalCap.
	SignalPoints float64 `yaml:"signal_points" json:"signal_points"`
	// FlowSaturation is the net inflow (in the market's base currency)
	// where capital-flow points level off.
	FlowSaturation float64 `yaml:"flow_saturation" json:"flow_saturation"`
	// VolumeSurgeRatio is the volume ratio reading a breakout.
	VolumeSurgeRatio float64 `yaml:"volume_surge_ratio" json:"volume_surge_ratio"`
	// SectorMoveThreshold is the sector change (%) counting as
	// co-movement.
	SectorMoveThreshold float64 `yaml:"sector_move_threshold" json:"sector_move_threshold"`
	// LimitUpFull is the same-sector limit-up count earning full
	// limit-up points.
	LimitUpFull int `yaml:"limit_up_full" json:"limit_up_full"`
}

// CapSum returns the sum of the component caps.
func (w ShortTerm) CapSum() float64 {
	return w.TechnicalCap + w.CapitalFlowCap + w.SentimentCap + w.NewsCap
}

// LongTerm is the weight table for the long-term (value/growth) profile.
// Component caps must sum to 100. The threshold fields are tuning
// heuristics, not derived values.
type LongTerm struct {
	ProfitabilityCap float64 `yaml:"profitability_cap" json:"profitability_cap"`
	ValuationCap     float64 `yaml:"valuation_cap" json:"valuation_cap"`
	GrowthCap        float64 `yaml:"growth_cap" json:"growth_cap"`
	QualityCap       float64 `yaml:"quality_cap" json:"quality_cap"`
	OwnershipCap     float64 `yaml:"ownership_cap" json:"ownership_cap"`

	MinROE           float64 `yaml:"min_roe" json:"min_roe"`
	MinProfitGrowth  float64 `yaml:"min_profit_growth" json:"min_profit_growth"`
	GrossMarginMin   float64 `yaml:"gross_margin_min" json:"gross_margin_min"`
	LowPE            float64 `yaml:"low_pe" json:"low_pe"`
	MaxPE            float64 `yaml:"max_pe" json:"max_pe"`
	LowPB            float64 `yaml:"low_pb" json:"low_pb"`
	PEGMax           float64 `yaml:"peg_max" json:"peg_max"`
	RevenueGrowthMin float64 `yaml:"revenue_growth_min" json:"revenue_growth_min"`
	DebtRatioMax     float64 `yaml:"debt_ratio_max" json:"debt_ratio_max"`
	OCFToProfitMin   float64 `yaml:"ocf_to_profit_min" json:"ocf_to_profit_min"`
}

// CapSum returns the sum of the component caps.
func (w LongTerm) CapSum() float64 {
	return w.ProfitabilityCap + w.ValuationCap + w.GrowthCap + w.QualityCap + w.OwnershipCap
}

// Screening holds the hard filters applied before any scoring. Zero values
// disable the corresponding filter; an empty sector list allows every
// sector.
type Screening struct {
	MinPrice      float64  `yaml:"min_price" json:"min_price"`
	MaxPrice      float64  `yaml:"max_price" json:"max_price"`
	MinVolume     int64    `yaml:"min_volume" json:"min_volume"`
	MinROE        float64  `yaml:"min_roe" json:"min_roe"`
	MaxPE         float64  `yaml:"max_pe" json:"max_pe"`
	Sectors       []string `yaml:"sectors" json:"sectors"`
	TopN          int      `yaml:"top_n" json:"top_n"`
	FundFlowDays  int      `yaml:"fund_flow_days" json:"fund_flow_days"`
	LookbackDays  int      `yaml:"lookback_days" json:"lookback_days"`
	UniverseLimit int      `yaml:"universe_limit" json:"universe_limit"`
}

// Alerts holds the alert evaluation thresholds.
type Alerts struct {
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold" json:"rsi_oversold"`
	// PriceDeviationPct is consumed by the data validation collaborator,
	// carried here so one file owns every threshold.
	PriceDeviationPct float64 `yaml:"price_deviation_pct" json:"price_deviation_pct"`
}

// Default returns the built-in strategy. The numbers are the documented
// defaults; every one of them may be overridden by a strategy file.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "openclaw-default",
			Version:    "1.0",
		},
		Indicators:   indicators.DefaultConfig(),
		Fundamentals: fundamentals.DefaultBreakpoints(),
		ShortTerm: ShortTerm{
			TechnicalCap:        40,
			CapitalFlowCap:      30,
			SentimentCap:        20,
			NewsCap:             10,
			SignalPoints:        10,
			FlowSaturation:      50_000_000,
			VolumeSurgeRatio:    1.5,
			SectorMoveThreshold: 2.0,
			LimitUpFull:         3,
		},
		LongTerm: LongTerm{
			ProfitabilityCap: 30,
			ValuationCap:     25,
			GrowthCap:        20,
			QualityCap:       15,
			OwnershipCap:     10,
			MinROE:           15,
			MinProfitGrowth:  20,
			GrossMarginMin:   30,
			LowPE:            20,
			MaxPE:            30,
			LowPB:            2,
			PEGMax:           1,
			RevenueGrowthMin: 20,
			DebtRatioMax:     50,
			OCFToProfitMin:   1,
		},
		Screening: Screening{
			MinPrice:      2,
			MaxPrice:      0,
			MinVolume:     0,
			MinROE:        0,
			MaxPE:         0,
			TopN:          50,
			FundFlowDays:  5,
			LookbackDays:  120,
			UniverseLimit: 500,
		},
		Alerts: Alerts{
			RSIOverbought:     70,
			RSIOversold:       30,
			PriceDeviationPct: 0.5,
		},
	}
}
