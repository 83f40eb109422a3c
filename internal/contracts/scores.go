package contracts

import (
	"fmt"
	"time"
)

// StrategyProfile selects the scoring rule set. The two variants carry their
// own weight-cap tables as data; a single scoring entry point switches on the
// tag.
type StrategyProfile int

const (
	ShortTerm StrategyProfile = iota
	LongTerm
)

func (p StrategyProfile) String() string {
	switch p {
	case ShortTerm:
		return "short_term"
	case LongTerm:
		return "long_term"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// ParseStrategyProfile maps a profile name back to its enum value.
func ParseStrategyProfile(name string) (StrategyProfile, error) {
	switch name {
	case "short_term", "short":
		return ShortTerm, nil
	case "long_term", "long":
		return LongTerm, nil
	default:
		return 0, fmt.Errorf("unknown strategy profile %q", name)
	}
}

// Component names used in score breakdowns.
const (
	CompTechnical     = "technical"
	CompCapitalFlow   = "capital_flow"
	CompSentiment     = "sentiment"
	CompNews          = "news"
	CompProfitability = "profitability"
	CompValuation     = "valuation"
	CompGrowth        = "growth"
	CompQuality       = "quality"
	CompOwnership     = "ownership"
)

// ScoreComponent is one weighted dimension of a composite score. Score is
// clamped to [0, Max] by the scoring model.
type ScoreComponent struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// ScoreBreakdown is the composite score for one security under one strategy
// profile. TotalScore always equals the sum of the component scores.
type ScoreBreakdown struct {
	Profile        StrategyProfile  `json:"profile"`
	Components     []ScoreComponent `json:"components"`
	TotalScore     float64          `json:"total_score"`
	Signals        []string         `json:"signals"`
	Rating         string           `json:"rating"`
	Recommendation string           `json:"recommendation"`
}

// Component looks up a component by name.
func (b ScoreBreakdown) Component(name string) (ScoreComponent, bool) {
	for _, c := range b.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ScoreComponent{}, false
}

// Sum returns the sum of component scores. It must equal TotalScore.
func (b ScoreBreakdown) Sum() float64 {
	total := 0.0
	for _, c := range b.Components {
		total += c.Score
	}
	return total
}

// SelectedStock is one ranked entry of a selection run.
type SelectedStock struct {
	Symbol       string         `json:"symbol"`
	Name         string         `json:"name"`
	Price        float64        `json:"price"`
	ChangePct    float64        `json:"change_pct"`
	Volume       int64          `json:"volume"`
	TurnoverRate float64        `json:"turnover_rate"`
	Rank         int            `json:"rank"` // 1-based
	Breakdown    ScoreBreakdown `json:"breakdown"`
}

// SymbolFailure records a per-symbol failure isolated from the batch.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// SelectionResult is the outcome of a selection run: ranked picks sorted by
// total score descending (symbol ascending on ties) plus the side list of
// symbols that failed and were excluded.
type SelectionResult struct {
	Profile  StrategyProfile `json:"profile"`
	AsOf     time.Time       `json:"as_of"`
	Stocks   []SelectedStock `json:"stocks"`
	Failures []SymbolFailure `json:"failures"`
}

// Count returns the number of ranked entries.
func (r SelectionResult) Count() int { return len(r.Stocks) }
