package indicators

import (
	"context"
	"fmt"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/logger"
)

// Config holds the indicator windows. Defaults follow common A-share charting
// conventions; strategy files may override them.
type Config struct {
	MAWindows  []int   `yaml:"ma_windows" json:"ma_windows"`
	MACDFast   int     `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow   int     `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal int     `yaml:"macd_signal" json:"macd_signal"`
	RSIWindows []int   `yaml:"rsi_windows" json:"rsi_windows"`
	KDJN       int     `yaml:"kdj_n" json:"kdj_n"`
	KDJM1      int     `yaml:"kdj_m1" json:"kdj_m1"`
	KDJM2      int     `yaml:"kdj_m2" json:"kdj_m2"`
	BollWindow int     `yaml:"boll_window" json:"boll_window"`
	BollStdDev float64 `yaml:"boll_std_dev" json:"boll_std_dev"`
	VolShort   int     `yaml:"vol_short" json:"vol_short"`
	VolLong    int     `yaml:"vol_long" json:"vol_long"`
}

// DefaultConfig returns the standard windows: MA 5/10/20/60/120/250,
// MACD 12/26/9, RSI 6/12/24, KDJ 9/3/3, Bollinger 20 with 2 standard
// deviations, volume MA 5/10.
func DefaultConfig() Config {
	return Config{
		MAWindows:  []int{5, 10, 20, 60, 120, 250},
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		RSIWindows: []int{6, 12, 24},
		KDJN:       9,
		KDJM1:      3,
		KDJM2:      3,
		BollWindow: 20,
		BollStdDev: 2.0,
		VolShort:   5,
		VolLong:    10,
	}
}

// Engine computes technical indicator series from price bars. All series in
// the returned set are aligned 1:1 with the input; warm-up entries are
// absent, never zero.
type Engine struct {
	logger *logger.Logger
	cfg    Config
}

// NewEngine creates a new indicator engine.
func NewEngine(log *logger.Logger, cfg Config) *Engine {
	return &Engine{
		logger: log,
		cfg:    cfg,
	}
}

// Compute calculates the requested indicator families for a price series.
// An empty kinds list means all supported families. A family whose minimum
// window exceeds the series length yields fully absent series; other
// families proceed unaffected.
func (e *Engine) Compute(ctx context.Context, symbol string, series contracts.PriceSeries, kinds ...contracts.IndicatorKind) (contracts.IndicatorSet, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("compute indicators for %s: empty price series", symbol)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("compute indicators for %s: %w", symbol, err)
	}

	if len(kinds) == 0 {
		kinds = contracts.AllIndicatorKinds()
	}

	set := make(contracts.IndicatorSet)
	for _, kind := range kinds {
		switch kind {
		case contracts.KindMA:
			e.computeMA(series, set)
		case contracts.KindMACD:
			e.computeMACD(series, set)
		case contracts.KindKDJ:
			e.computeKDJ(series, set)
		case contracts.KindRSI:
			e.computeRSI(series, set)
		case contracts.KindBollinger:
			e.computeBollinger(series, set)
		case contracts.KindVolume:
			e.computeVolume(series, set)
		default:
			return nil, fmt.Errorf("compute indicators for %s: unknown kind %v", symbol, kind)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
		"series": len(set),
	}).Debug("Calculated technical indicators")

	return set, nil
}
