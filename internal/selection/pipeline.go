package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/fundamentals"
	"github.com/openclaw/stock/internal/indicators"
	"github.com/openclaw/stock/internal/scoring"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/logger"
)

// Options bounds the pipeline's use of the data source.
type Options struct {
	Workers           int     // concurrent per-symbol workers
	RequestsPerSecond float64 // data source call budget
	Burst             int
	// BenchmarkPct is the reference index change used for the relative
	// strength signal. Zero means "beat a flat market".
	BenchmarkPct float64
}

// DefaultOptions returns conservative pipeline bounds.
func DefaultOptions() Options {
	return Options{
		Workers:           8,
		RequestsPerSecond: 10,
		Burst:             5,
	}
}

// Pipeline runs a selection pass: screen the universe, compute indicators,
// score the survivors and rank them. Symbols are independent units of work
// on a bounded worker pool; a failing symbol lands on the failure side list
// and never aborts the run.
type Pipeline struct {
	source    contracts.MarketDataSource
	engine    *indicators.Engine
	evaluator *fundamentals.Evaluator
	model     *scoring.Model
	screener  *Screener
	cfg       *strategyconfig.Config
	opts      Options
	limiter   *rate.Limiter
	logger    *logger.Logger
}

// NewPipeline creates a new selection pipeline.
func NewPipeline(
	source contracts.MarketDataSource,
	cfg *strategyconfig.Config,
	opts Options,
	log *logger.Logger,
) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultOptions().RequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultOptions().Burst
	}

	return &Pipeline{
		source:    source,
		engine:    indicators.NewEngine(log, cfg.Indicators),
		evaluator: fundamentals.NewEvaluator(log, cfg.Fundamentals),
		model:     scoring.NewModel(log, cfg),
		screener:  NewScreener(cfg.Screening, log),
		cfg:       cfg,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:    log.WithField("module", "selection"),
	}
}

// outcome is one worker's verdict on one candidate. At most one of the
// three fields is set; all nil/empty means the candidate was screened out.
type outcome struct {
	stock    *contracts.SelectedStock
	failure  *contracts.SymbolFailure
	excluded string // failing filter name
}

// Run executes one selection pass over the universe as of the given time.
func (p *Pipeline) Run(ctx context.Context, profile contracts.StrategyProfile, asOf time.Time, universe []Candidate) (contracts.SelectionResult, error) {
	if len(universe) == 0 {
		return contracts.SelectionResult{}, fmt.Errorf("selection run: empty universe")
	}
	if limit := p.cfg.Screening.UniverseLimit; limit > 0 && len(universe) > limit {
		p.logger.WithFields(map[string]interface{}{
			"universe": len(universe),
			"limit":    limit,
		}).Warn("Universe truncated to limit")
		universe = universe[:limit]
	}

	p.logger.WithFields(map[string]interface{}{
		"profile":  profile.String(),
		"universe": len(universe),
		"workers":  p.opts.Workers,
	}).Info("Starting selection run")

	jobs := make(chan Candidate, len(universe))
	results := make(chan outcome, len(universe))

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				results <- p.evaluate(ctx, profile, asOf, c)
			}
		}()
	}

	for _, c := range universe {
		jobs <- c
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		scored   []contracts.SelectedStock
		failures []contracts.SymbolFailure
		filtered = make(map[string]int)
	)
	for out := range results {
		switch {
		case out.stock != nil:
			scored = append(scored, *out.stock)
		case out.failure != nil:
			failures = append(failures, *out.failure)
		default:
			filtered[out.excluded]++
		}
	}

	result := contracts.SelectionResult{
		Profile:  profile,
		AsOf:     asOf,
		Stocks:   Rank(scored, p.cfg.Screening.TopN),
		Failures: failures,
	}

	p.logger.WithFields(map[string]interface{}{
		"selected": result.Count(),
		"scored":   len(scored),
		"filtered": filtered,
		"failed":   len(failures),
	}).Info("Selection run completed")

	return result, nil
}

// evaluate runs the per-symbol pipeline: quote and fundamentals first so
// hard filters cut before any indicator work, then series, indicators,
// signals, flow, sentiment, news and finally the score.
func (p *Pipeline) evaluate(ctx context.Context, profile contracts.StrategyProfile, asOf time.Time, c Candidate) outcome {
	quote, err := p.fetchQuote(ctx, c.Symbol)
	if err != nil {
		return p.fail(c.Symbol, err)
	}
	fund, err := p.fetchFundamentals(ctx, c.Symbol)
	if err != nil {
		return p.fail(c.Symbol, err)
	}

	if filter := p.screener.Check(c, quote, fund); filter != "" {
		p.logger.WithFields(map[string]interface{}{
			"symbol": c.Symbol,
			"filter": filter,
		}).Debug("Candidate screened out")
		return outcome{excluded: filter}
	}

	series, err := p.fetchSeries(ctx, c.Symbol, asOf)
	if err != nil {
		return p.fail(c.Symbol, err)
	}

	set, err := p.engine.Compute(ctx, c.Symbol, series, contracts.AllIndicatorKinds()...)
	if err != nil {
		return p.fail(c.Symbol, err)
	}
	signals := indicators.DeriveSignals(set, series)

	in := scoring.Input{
		Symbol:       c.Symbol,
		Quote:        quote,
		Indicators:   set,
		Signals:      signals,
		BenchmarkPct: p.opts.BenchmarkPct,
		Fundamentals: fund,
		Levels:       p.evaluator.Evaluate(ctx, fund),
	}

	if profile == contracts.ShortTerm {
		// Flow, sentiment and news only move the short-term score; skip
		// the calls on a long-term pass.
		in.Flow, err = p.fetchFlow(ctx, c.Symbol)
		if err != nil {
			return p.fail(c.Symbol, err)
		}
		in.Sentiment, err = p.fetchSentiment(ctx, c.Symbol)
		if err != nil {
			return p.fail(c.Symbol, err)
		}
		in.News, err = p.fetchNews(ctx, c.Symbol)
		if err != nil {
			return p.fail(c.Symbol, err)
		}
	}

	breakdown, err := p.model.Score(ctx, profile, in)
	if err != nil {
		return p.fail(c.Symbol, err)
	}

	return outcome{stock: &contracts.SelectedStock{
		Symbol:       c.Symbol,
		Name:         c.Name,
		Price:        quote.Price,
		ChangePct:    quote.ChangePct,
		Volume:       quote.Volume,
		TurnoverRate: quote.TurnoverRate,
		Breakdown:    breakdown,
	}}
}

func (p *Pipeline) fail(symbol string, err error) outcome {
	var unavailable *contracts.DataUnavailableError
	if !errors.As(err, &unavailable) && !errors.Is(err, contracts.ErrInsufficientHistory) {
		// Collaborator errors outside the taxonomy are still isolated to
		// the symbol, just logged louder.
		p.logger.WithField("symbol", symbol).WithError(err).Warn("Symbol evaluation failed")
	} else {
		p.logger.WithField("symbol", symbol).WithError(err).Debug("Symbol skipped")
	}
	return outcome{failure: &contracts.SymbolFailure{Symbol: symbol, Reason: err.Error()}}
}

func (p *Pipeline) fetchQuote(ctx context.Context, symbol string) (contracts.Quote, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.Quote{}, err
	}
	return p.source.Quote(ctx, symbol)
}

func (p *Pipeline) fetchFundamentals(ctx context.Context, symbol string) (contracts.FundamentalSnapshot, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.FundamentalSnapshot{}, err
	}
	fund, err := p.source.Fundamentals(ctx, symbol)
	if err != nil {
		return contracts.FundamentalSnapshot{}, err
	}
	fund.DerivePEG()
	return fund, nil
}

func (p *Pipeline) fetchSeries(ctx context.Context, symbol string, asOf time.Time) (contracts.PriceSeries, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := asOf.AddDate(0, 0, -p.cfg.Screening.LookbackDays)
	series, err := p.source.PriceSeries(ctx, symbol, "daily", start, asOf, "qfq")
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("series %s: %w", symbol, contracts.ErrInsufficientHistory)
	}
	return series, nil
}

func (p *Pipeline) fetchFlow(ctx context.Context, symbol string) (contracts.CapitalFlowSnapshot, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.CapitalFlowSnapshot{}, err
	}
	return p.source.CapitalFlow(ctx, symbol, p.cfg.Screening.FundFlowDays)
}

func (p *Pipeline) fetchSentiment(ctx context.Context, symbol string) (contracts.SectorSentiment, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.SectorSentiment{}, err
	}
	return p.source.Sentiment(ctx, symbol)
}

func (p *Pipeline) fetchNews(ctx context.Context, symbol string) (contracts.NewsSnapshot, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.NewsSnapshot{}, err
	}
	return p.source.News(ctx, symbol)
}
