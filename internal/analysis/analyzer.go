package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/fundamentals"
	"github.com/openclaw/stock/internal/indicators"
	"github.com/openclaw/stock/internal/scoring"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/logger"
)

// StockReport is the full picture for one security: quote, indicator
// snapshot, derived signals, support/resistance, fundamental levels and
// both strategy scores. It carries no presentation formatting; renderers
// live outside this module.
type StockReport struct {
	Symbol       string                        `json:"symbol"`
	Name         string                        `json:"name"`
	AsOf         time.Time                     `json:"as_of"`
	Quote        contracts.Quote               `json:"quote"`
	Indicators   map[string]float64            `json:"indicators"`
	Signals      contracts.TechnicalSignals    `json:"signals"`
	Levels       indicators.SupportResistance  `json:"levels"`
	Fundamentals contracts.FundamentalSnapshot `json:"fundamentals"`
	Assessment   contracts.FundamentalLevels   `json:"assessment"`
	ShortTerm    contracts.ScoreBreakdown      `json:"short_term"`
	LongTerm     contracts.ScoreBreakdown      `json:"long_term"`
}

// Analyzer assembles single-symbol reports from the data source and the
// computation stages.
type Analyzer struct {
	source    contracts.MarketDataSource
	engine    *indicators.Engine
	levels    *indicators.SupportResistanceCalculator
	evaluator *fundamentals.Evaluator
	model     *scoring.Model
	cfg       *strategyconfig.Config
	logger    *logger.Logger
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(source contracts.MarketDataSource, cfg *strategyconfig.Config, log *logger.Logger) *Analyzer {
	return &Analyzer{
		source:    source,
		engine:    indicators.NewEngine(log, cfg.Indicators),
		levels:    indicators.NewSupportResistanceCalculator(log),
		evaluator: fundamentals.NewEvaluator(log, cfg.Fundamentals),
		model:     scoring.NewModel(log, cfg),
		cfg:       cfg,
		logger:    log.WithField("module", "analysis"),
	}
}

// Analyze builds a report for one symbol as of the given time.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, asOf time.Time) (StockReport, error) {
	quote, err := a.source.Quote(ctx, symbol)
	if err != nil {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	start := asOf.AddDate(0, 0, -a.cfg.Screening.LookbackDays)
	series, err := a.source.PriceSeries(ctx, symbol, "daily", start, asOf, "qfq")
	if err != nil {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	if len(series) == 0 {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, contracts.ErrInsufficientHistory)
	}

	set, err := a.engine.Compute(ctx, symbol, series, contracts.AllIndicatorKinds()...)
	if err != nil {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	signals := indicators.DeriveSignals(set, series)

	levels, err := a.levels.Calculate(ctx, symbol, series, indicators.SRPivot, 0)
	if err != nil {
		// Thin history degrades to a report without levels.
		a.logger.WithField("symbol", symbol).WithError(err).Debug("Support/resistance unavailable")
		levels = indicators.SupportResistance{}
	}

	fund, err := a.source.Fundamentals(ctx, symbol)
	if err != nil {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	fund.DerivePEG()

	in := scoring.Input{
		Symbol:       symbol,
		Quote:        quote,
		Indicators:   set,
		Signals:      signals,
		Fundamentals: fund,
		Levels:       a.evaluator.Evaluate(ctx, fund),
	}

	if flow, err := a.source.CapitalFlow(ctx, symbol, a.cfg.Screening.FundFlowDays); err == nil {
		in.Flow = flow
	}
	if sentiment, err := a.source.Sentiment(ctx, symbol); err == nil {
		in.Sentiment = sentiment
	}
	if news, err := a.source.News(ctx, symbol); err == nil {
		in.News = news
	}

	shortTerm, err := a.model.Score(ctx, contracts.ShortTerm, in)
	if err != nil {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	longTerm, err := a.model.Score(ctx, contracts.LongTerm, in)
	if err != nil {
		return StockReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	report := StockReport{
		Symbol:       symbol,
		Name:         quote.Name,
		AsOf:         asOf,
		Quote:        quote,
		Indicators:   latestValues(set),
		Signals:      signals,
		Levels:       levels,
		Fundamentals: fund,
		Assessment:   in.Levels,
		ShortTerm:    shortTerm,
		LongTerm:     longTerm,
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"short_term": shortTerm.TotalScore,
		"long_term":  longTerm.TotalScore,
	}).Info("Analysis completed")

	return report, nil
}

// latestValues flattens the indicator set to its last defined values.
func latestValues(set contracts.IndicatorSet) map[string]float64 {
	out := make(map[string]float64, len(set))
	for name := range set {
		if v, ok := set.LastValue(name); ok {
			out[name] = v
		}
	}
	return out
}
