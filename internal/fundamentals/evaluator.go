package fundamentals

import (
	"context"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/logger"
)

// Breakpoints holds the qualitative classification thresholds. They are
// tuning heuristics, not derived values, so strategy files may override
// them.
type Breakpoints struct {
	UndervaluedPE float64 `yaml:"undervalued_pe" json:"undervalued_pe"`
	UndervaluedPB float64 `yaml:"undervalued_pb" json:"undervalued_pb"`
	OvervaluedPE  float64 `yaml:"overvalued_pe" json:"overvalued_pe"`
	OvervaluedPB  float64 `yaml:"overvalued_pb" json:"overvalued_pb"`

	StrongROE       float64 `yaml:"strong_roe" json:"strong_roe"`
	StrongNetMargin float64 `yaml:"strong_net_margin" json:"strong_net_margin"`
	ModerateROE     float64 `yaml:"moderate_roe" json:"moderate_roe"`

	HighProfitGrowth   float64 `yaml:"high_profit_growth" json:"high_profit_growth"`
	HighRevenueGrowth  float64 `yaml:"high_revenue_growth" json:"high_revenue_growth"`
	MediumProfitGrowth float64 `yaml:"medium_profit_growth" json:"medium_profit_growth"`
}

// DefaultBreakpoints returns the stock thresholds: PE<10 with PB<1 reads
// undervalued, PE>50 or PB>5 overvalued; ROE>15 with net margin>10 reads
// strong; profit growth>30 with revenue growth>20 reads high.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		UndervaluedPE: 10,
		UndervaluedPB: 1,
		OvervaluedPE:  50,
		OvervaluedPB:  5,

		StrongROE:       15,
		StrongNetMargin: 10,
		ModerateROE:     8,

		HighProfitGrowth:   30,
		HighRevenueGrowth:  20,
		MediumProfitGrowth: 10,
	}
}

// Evaluator classifies raw fundamental metrics into qualitative levels.
type Evaluator struct {
	logger      *logger.Logger
	breakpoints Breakpoints
}

// NewEvaluator creates a new fundamental evaluator.
func NewEvaluator(log *logger.Logger, breakpoints Breakpoints) *Evaluator {
	return &Evaluator{
		logger:      log,
		breakpoints: breakpoints,
	}
}

// Evaluate classifies one snapshot. Metrics at their zero value are treated
// as unknown; a classification whose inputs are unknown stays unknown.
func (e *Evaluator) Evaluate(ctx context.Context, snapshot contracts.FundamentalSnapshot) contracts.FundamentalLevels {
	levels := contracts.FundamentalLevels{
		Valuation:     e.classifyValuation(snapshot),
		Profitability: e.classifyProfitability(snapshot),
		Growth:        e.classifyGrowth(snapshot),
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":        snapshot.Symbol,
		"valuation":     levels.Valuation.String(),
		"profitability": levels.Profitability.String(),
		"growth":        levels.Growth.String(),
	}).Debug("Classified fundamentals")

	return levels
}

func (e *Evaluator) classifyValuation(s contracts.FundamentalSnapshot) contracts.ValuationLevel {
	if s.PETTM <= 0 || s.PB <= 0 {
		return contracts.ValuationUnknown
	}

	bp := e.breakpoints
	switch {
	case s.PETTM < bp.UndervaluedPE && s.PB < bp.UndervaluedPB:
		return contracts.Undervalued
	case s.PETTM > bp.OvervaluedPE || s.PB > bp.OvervaluedPB:
		return contracts.Overvalued
	default:
		return contracts.FairValued
	}
}

func (e *Evaluator) classifyProfitability(s contracts.FundamentalSnapshot) contracts.ProfitabilityLevel {
	if s.ROE == 0 {
		return contracts.ProfitabilityUnknown
	}

	bp := e.breakpoints
	switch {
	case s.ROE > bp.StrongROE && s.NetMargin > bp.StrongNetMargin:
		return contracts.StrongProfitability
	case s.ROE > bp.ModerateROE:
		return contracts.ModerateProfitability
	default:
		return contracts.WeakProfitability
	}
}

func (e *Evaluator) classifyGrowth(s contracts.FundamentalSnapshot) contracts.GrowthLevel {
	if s.ProfitGrowth == 0 {
		return contracts.GrowthUnknown
	}

	bp := e.breakpoints
	switch {
	case s.ProfitGrowth > bp.HighProfitGrowth && s.RevenueGrowth > bp.HighRevenueGrowth:
		return contracts.HighGrowth
	case s.ProfitGrowth > bp.MediumProfitGrowth:
		return contracts.MediumGrowth
	default:
		return contracts.LowGrowth
	}
}
