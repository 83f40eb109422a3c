package strategyconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateCapSums(t *testing.T) {
	cfg := Default()
	cfg.ShortTerm.TechnicalCap = 50 // 50+30+20+10 = 110

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for short-term caps not summing to 100")
	}

	var ce ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
	if ce.Field != "short_term" {
		t.Errorf("expected field short_term, got %s", ce.Field)
	}

	cfg = Default()
	cfg.LongTerm.OwnershipCap = 0 // 90 total
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for long-term caps not summing to 100")
	}
}

func TestValidateThresholdOrdering(t *testing.T) {
	cfg := Default()
	cfg.Alerts.RSIOversold = 80 // above overbought 70
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for inverted RSI thresholds")
	}

	cfg = Default()
	cfg.Indicators.MACDFast = 30 // not shorter than slow 26
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for MACD fast >= slow")
	}

	cfg = Default()
	cfg.Screening.TopN = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for top_n = 0")
	}
}

func writeStrategyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write strategy file: %v", err)
	}
	return path
}

func TestLoadPartialOverride(t *testing.T) {
	path := writeStrategyFile(t, `
meta:
  strategy_id: aggressive-momentum
  version: "2.1"
screening:
  top_n: 20
  lookback_days: 120
alerts:
  rsi_overbought: 75
  rsi_oversold: 25
`)

	cfg, raw, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected raw yaml bytes")
	}

	if cfg.Meta.StrategyID != "aggressive-momentum" {
		t.Errorf("expected overridden strategy_id, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Screening.TopN != 20 {
		t.Errorf("expected top_n=20, got %d", cfg.Screening.TopN)
	}
	if cfg.Alerts.RSIOverbought != 75 {
		t.Errorf("expected rsi_overbought=75, got %g", cfg.Alerts.RSIOverbought)
	}

	// Untouched sections keep their defaults.
	if cfg.ShortTerm.TechnicalCap != 40 {
		t.Errorf("expected default technical_cap=40, got %g", cfg.ShortTerm.TechnicalCap)
	}
	if cfg.Indicators.BollWindow != 20 {
		t.Errorf("expected default boll_window=20, got %d", cfg.Indicators.BollWindow)
	}
}

func TestLoadUnknownFieldFails(t *testing.T) {
	path := writeStrategyFile(t, `
meta:
  strategy_id: typo-test
sceening:
  top_n: 20
`)

	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown top-level field")
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	path := writeStrategyFile(t, `
meta:
  strategy_id: broken
short_term:
  technical_cap: 90
  capital_flow_cap: 30
  sentiment_cap: 20
  news_cap: 10
  signal_points: 10
  flow_saturation: 50000000
  volume_surge_ratio: 1.5
`)

	_, _, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for caps summing past 100")
	}
	var ce ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
}

func TestHashDeterministic(t *testing.T) {
	cfg := Default()

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	cfg.Screening.TopN = 10
	hash3, _ := Hash(cfg)
	if hash == hash3 {
		t.Error("hash must change when the config changes")
	}
}
