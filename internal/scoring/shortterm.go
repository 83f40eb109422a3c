package scoring

import (
	"math"

	"github.com/openclaw/stock/internal/contracts"
)

// scoreShortTerm applies the momentum weight table: additive signal points
// for the technical leg, a saturating scale for capital flow, sector
// co-movement for sentiment, and a flat award for positive news.
func (m *Model) scoreShortTerm(in Input) contracts.ScoreBreakdown {
	w := m.cfg.ShortTerm
	var signals []string

	// Technical: a fixed award per matched signal, capped.
	var technical float64
	if in.Signals.MABullish {
		technical += w.SignalPoints
		signals = append(signals, "ma_bullish_alignment")
	}
	if in.Signals.MACDCross == contracts.GoldenCross {
		technical += w.SignalPoints
		signals = append(signals, "macd_golden_cross")
	}
	if ratio, ok := in.Indicators.LastValue(contracts.IndVolRatio); ok && ratio >= w.VolumeSurgeRatio {
		technical += w.SignalPoints
		signals = append(signals, "volume_breakout")
	}
	if in.Quote.ChangePct > in.BenchmarkPct {
		technical += w.SignalPoints
		signals = append(signals, "relative_strength")
	}
	technical = clamp(technical, w.TechnicalCap)

	// Capital flow: tanh saturation keeps a single-day spike from
	// dominating; outflows score zero rather than negative.
	var flow float64
	if in.Flow.NetInflow > 0 {
		flow = w.CapitalFlowCap * math.Tanh(in.Flow.NetInflow/w.FlowSaturation)
		signals = append(signals, "net_inflow")
	}
	flow = clamp(flow, w.CapitalFlowCap)

	// Sentiment: sector co-movement plus same-sector limit-up count.
	var sentiment float64
	if in.Sentiment.SectorChangePct >= w.SectorMoveThreshold {
		sentiment += w.SentimentCap / 2
		signals = append(signals, "sector_momentum")
	}
	switch {
	case in.Sentiment.LimitUpCount >= w.LimitUpFull:
		sentiment += w.SentimentCap / 2
		signals = append(signals, "sector_limit_ups")
	case in.Sentiment.LimitUpCount >= 1:
		sentiment += w.SentimentCap / 4
		signals = append(signals, "sector_limit_ups")
	}
	sentiment = clamp(sentiment, w.SentimentCap)

	var news float64
	if in.News.HasPositive() {
		news = w.NewsCap
		signals = append(signals, "positive_news")
	}

	return contracts.ScoreBreakdown{
		Components: []contracts.ScoreComponent{
			{Name: contracts.CompTechnical, Score: technical, Max: w.TechnicalCap},
			{Name: contracts.CompCapitalFlow, Score: flow, Max: w.CapitalFlowCap},
			{Name: contracts.CompSentiment, Score: sentiment, Max: w.SentimentCap},
			{Name: contracts.CompNews, Score: news, Max: w.NewsCap},
		},
		Signals: signals,
	}
}
