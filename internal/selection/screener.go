package selection

import (
	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/logger"
)

// Candidate is one symbol in the selection universe. Sector is supplied by
// the universe source; an empty sector only fails when an allowlist is set.
type Candidate struct {
	Symbol string
	Name   string
	Sector string
}

// Screener applies hard cuts before scoring so scoring is never spent on a
// disqualified candidate.
type Screener struct {
	cfg    strategyconfig.Screening
	logger *logger.Logger
}

// NewScreener creates a new screener.
func NewScreener(cfg strategyconfig.Screening, log *logger.Logger) *Screener {
	return &Screener{
		cfg:    cfg,
		logger: log,
	}
}

// Check runs every hard filter against one candidate. It returns the name
// of the first failing filter, or an empty string when the candidate passes.
func (s *Screener) Check(c Candidate, quote contracts.Quote, fund contracts.FundamentalSnapshot) string {
	if s.cfg.MinPrice > 0 && quote.Price < s.cfg.MinPrice {
		return "min_price"
	}
	if s.cfg.MaxPrice > 0 && quote.Price > s.cfg.MaxPrice {
		return "max_price"
	}
	if s.cfg.MinVolume > 0 && quote.Volume < s.cfg.MinVolume {
		return "min_volume"
	}
	if s.cfg.MinROE > 0 && fund.ROE < s.cfg.MinROE {
		return "min_roe"
	}
	if s.cfg.MaxPE > 0 {
		// Zero or negative TTM earnings never pass a PE ceiling.
		if fund.PETTM <= 0 || fund.PETTM > s.cfg.MaxPE {
			return "max_pe"
		}
	}
	if len(s.cfg.Sectors) > 0 && !s.sectorAllowed(c.Sector) {
		return "sector"
	}
	return ""
}

func (s *Screener) sectorAllowed(sector string) bool {
	for _, allowed := range s.cfg.Sectors {
		if sector == allowed {
			return true
		}
	}
	return false
}
