package strategyconfig

import (
	"fmt"
)

// ConfigurationError marks an internally inconsistent strategy. It fails the
// process at startup; nothing downstream re-checks the configuration per
// evaluation.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ConfigurationError{"meta.strategy_id", "required"}
	}

	// === Indicators ===
	if len(cfg.Indicators.MAWindows) == 0 {
		return ConfigurationError{"indicators.ma_windows", "at least one window required"}
	}
	for _, w := range cfg.Indicators.MAWindows {
		if w <= 0 {
			return ConfigurationError{"indicators.ma_windows", "windows must be positive"}
		}
	}
	if cfg.Indicators.MACDFast <= 0 || cfg.Indicators.MACDSlow <= 0 || cfg.Indicators.MACDSignal <= 0 {
		return ConfigurationError{"indicators.macd", "periods must be positive"}
	}
	if cfg.Indicators.MACDFast >= cfg.Indicators.MACDSlow {
		return ConfigurationError{"indicators.macd", "fast period must be shorter than slow period"}
	}
	for _, w := range cfg.Indicators.RSIWindows {
		if w <= 0 {
			return ConfigurationError{"indicators.rsi_windows", "windows must be positive"}
		}
	}
	if cfg.Indicators.KDJN <= 0 || cfg.Indicators.KDJM1 <= 0 || cfg.Indicators.KDJM2 <= 0 {
		return ConfigurationError{"indicators.kdj", "periods must be positive"}
	}
	if cfg.Indicators.BollWindow <= 0 || cfg.Indicators.BollStdDev <= 0 {
		return ConfigurationError{"indicators.boll", "window and std dev must be positive"}
	}
	if cfg.Indicators.VolShort <= 0 || cfg.Indicators.VolLong <= 0 {
		return ConfigurationError{"indicators.volume", "windows must be positive"}
	}

	// === Weight tables ===
	if sum := cfg.ShortTerm.CapSum(); sum != 100 {
		return ConfigurationError{"short_term", fmt.Sprintf("component caps must sum to 100, got %g", sum)}
	}
	if cfg.ShortTerm.SignalPoints <= 0 {
		return ConfigurationError{"short_term.signal_points", "must be positive"}
	}
	if cfg.ShortTerm.FlowSaturation <= 0 {
		return ConfigurationError{"short_term.flow_saturation", "must be positive"}
	}
	if cfg.ShortTerm.VolumeSurgeRatio <= 1 {
		return ConfigurationError{"short_term.volume_surge_ratio", "must be greater than 1"}
	}

	if sum := cfg.LongTerm.CapSum(); sum != 100 {
		return ConfigurationError{"long_term", fmt.Sprintf("component caps must sum to 100, got %g", sum)}
	}
	if cfg.LongTerm.MinROE <= 0 {
		return ConfigurationError{"long_term.min_roe", "must be positive"}
	}
	if cfg.LongTerm.LowPE >= cfg.LongTerm.MaxPE {
		return ConfigurationError{"long_term", "low_pe must be below max_pe"}
	}

	// === Fundamentals ===
	if cfg.Fundamentals.UndervaluedPE >= cfg.Fundamentals.OvervaluedPE {
		return ConfigurationError{"fundamentals", "undervalued_pe must be below overvalued_pe"}
	}
	if cfg.Fundamentals.ModerateROE >= cfg.Fundamentals.StrongROE {
		return ConfigurationError{"fundamentals", "moderate_roe must be below strong_roe"}
	}

	// === Screening ===
	if cfg.Screening.TopN <= 0 {
		return ConfigurationError{"screening.top_n", "must be positive"}
	}
	if cfg.Screening.MaxPrice > 0 && cfg.Screening.MinPrice > cfg.Screening.MaxPrice {
		return ConfigurationError{"screening", "min_price must not exceed max_price"}
	}
	if cfg.Screening.LookbackDays <= 0 {
		return ConfigurationError{"screening.lookback_days", "must be positive"}
	}

	// === Alerts ===
	if cfg.Alerts.RSIOversold <= 0 || cfg.Alerts.RSIOverbought >= 100 {
		return ConfigurationError{"alerts", "rsi thresholds must lie inside (0, 100)"}
	}
	if cfg.Alerts.RSIOversold >= cfg.Alerts.RSIOverbought {
		return ConfigurationError{"alerts", "rsi_oversold must be below rsi_overbought"}
	}

	return nil
}
