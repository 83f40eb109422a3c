package scoring

import (
	"context"
	"fmt"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/logger"
)

// Input bundles everything one scoring pass consumes. Indicator computation
// happens before scoring; the model never fetches anything itself.
type Input struct {
	Symbol       string
	Quote        contracts.Quote
	Indicators   contracts.IndicatorSet
	Signals      contracts.TechnicalSignals
	BenchmarkPct float64 // benchmark change for relative strength
	Flow         contracts.CapitalFlowSnapshot
	Sentiment    contracts.SectorSentiment
	News         contracts.NewsSnapshot
	Fundamentals contracts.FundamentalSnapshot
	Levels       contracts.FundamentalLevels
}

// Model turns indicator signals, fundamentals and flow into a composite
// score under a strategy profile. Given identical inputs the output is
// bit-reproducible: no randomness, no wall clock.
type Model struct {
	logger *logger.Logger
	cfg    *strategyconfig.Config
}

// NewModel creates a new scoring model.
func NewModel(log *logger.Logger, cfg *strategyconfig.Config) *Model {
	return &Model{
		logger: log,
		cfg:    cfg,
	}
}

// Score evaluates one security under the given profile. Both profiles share
// the breakdown shape; the profile tag selects the weight table.
func (m *Model) Score(ctx context.Context, profile contracts.StrategyProfile, in Input) (contracts.ScoreBreakdown, error) {
	var breakdown contracts.ScoreBreakdown

	switch profile {
	case contracts.ShortTerm:
		breakdown = m.scoreShortTerm(in)
	case contracts.LongTerm:
		breakdown = m.scoreLongTerm(in)
	default:
		return contracts.ScoreBreakdown{}, fmt.Errorf("score %s: unknown strategy profile %v", in.Symbol, profile)
	}

	breakdown.Profile = profile
	breakdown.TotalScore = breakdown.Sum()
	breakdown.Rating = rating(breakdown.TotalScore)
	breakdown.Recommendation = recommendation(breakdown.TotalScore)

	m.logger.WithFields(map[string]interface{}{
		"symbol":  in.Symbol,
		"profile": profile.String(),
		"total":   breakdown.TotalScore,
		"rating":  breakdown.Rating,
	}).Debug("Scored security")

	return breakdown, nil
}

// rating maps a total score onto the letter scale.
func rating(total float64) string {
	switch {
	case total >= 80:
		return "A+"
	case total >= 70:
		return "A"
	case total >= 60:
		return "B"
	case total >= 50:
		return "C"
	default:
		return "D"
	}
}

// recommendation maps a total score onto an action tag.
func recommendation(total float64) string {
	switch {
	case total >= 80:
		return "strong_buy"
	case total >= 70:
		return "buy"
	case total >= 60:
		return "watch"
	case total >= 50:
		return "hold"
	default:
		return "avoid"
	}
}

// clamp bounds a component score to [0, cap].
func clamp(score, cap float64) float64 {
	if score < 0 {
		return 0
	}
	if score > cap {
		return cap
	}
	return score
}
