package scoring

import (
	"math"

	"github.com/openclaw/stock/internal/contracts"
)

// scoreLongTerm applies the value/growth weight table. Awards are
// proportions of each component's cap so the table stays consistent when a
// strategy file rebalances the caps. Metrics at their zero value are
// unknown and award nothing.
func (m *Model) scoreLongTerm(in Input) contracts.ScoreBreakdown {
	w := m.cfg.LongTerm
	f := in.Fundamentals
	var signals []string

	// Profitability: ROE at target earns a full third, short of target a
	// prorated share, matching growth and margin thirds.
	var profitability float64
	third := w.ProfitabilityCap / 3
	if f.ROE >= w.MinROE {
		profitability += third
		signals = append(signals, "roe_target")
	} else if f.ROE > 0 {
		profitability += math.Floor(f.ROE / w.MinROE * third)
	}
	if f.ProfitGrowth >= w.MinProfitGrowth {
		profitability += third
		signals = append(signals, "profit_growth")
	}
	if f.GrossMargin > w.GrossMarginMin {
		profitability += third
		signals = append(signals, "high_gross_margin")
	}
	profitability = clamp(profitability, w.ProfitabilityCap)

	// Valuation: the PE bands are exclusive, so the maximum is the full
	// award for PE plus PB plus PEG.
	var valuation float64
	peFull := w.ValuationCap * 0.4
	if f.PETTM > 0 {
		switch {
		case f.PETTM < w.LowPE:
			valuation += peFull
			signals = append(signals, "low_pe")
		case f.PETTM < w.MaxPE:
			valuation += peFull / 2
		}
	}
	if f.PB > 0 && f.PB < w.LowPB {
		valuation += w.ValuationCap * 0.4
		signals = append(signals, "low_pb")
	}
	if f.PEG > 0 && f.PEG < w.PEGMax {
		valuation += w.ValuationCap * 0.2
		signals = append(signals, "peg_below_one")
	}
	valuation = clamp(valuation, w.ValuationCap)

	var growth float64
	if f.RevenueGrowth > w.RevenueGrowthMin {
		growth += w.GrowthCap / 2
		signals = append(signals, "revenue_growth")
	}
	if f.ForecastUpgrade {
		growth += w.GrowthCap / 2
		signals = append(signals, "forecast_upgrade")
	}
	growth = clamp(growth, w.GrowthCap)

	// Quality: the remaining third of the cap is reserved for working
	// capital metrics the snapshot does not carry yet.
	var quality float64
	if f.DebtRatio > 0 && f.DebtRatio < w.DebtRatioMax {
		quality += w.QualityCap / 3
		signals = append(signals, "low_debt")
	}
	if f.OCFToProfit >= w.OCFToProfitMin {
		quality += w.QualityCap / 3
		signals = append(signals, "cash_backed_profit")
	}
	quality = clamp(quality, w.QualityCap)

	var ownership float64
	if f.InstHoldingTrend > 0 {
		ownership += w.OwnershipCap / 2
		signals = append(signals, "institutions_adding")
	}
	if f.ShareholderCountTrend < 0 {
		ownership += w.OwnershipCap / 2
		signals = append(signals, "holders_concentrating")
	}
	ownership = clamp(ownership, w.OwnershipCap)

	return contracts.ScoreBreakdown{
		Components: []contracts.ScoreComponent{
			{Name: contracts.CompProfitability, Score: profitability, Max: w.ProfitabilityCap},
			{Name: contracts.CompValuation, Score: valuation, Max: w.ValuationCap},
			{Name: contracts.CompGrowth, Score: growth, Max: w.GrowthCap},
			{Name: contracts.CompQuality, Score: quality, Max: w.QualityCap},
			{Name: contracts.CompOwnership, Score: ownership, Max: w.OwnershipCap},
		},
		Signals: signals,
	}
}
