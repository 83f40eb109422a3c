package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/strategyconfig"
)

func TestScreenerCheck(t *testing.T) {
	cfg := strategyconfig.Screening{
		MinPrice:  2,
		MaxPrice:  100,
		MinVolume: 10000,
		MinROE:    8,
		MaxPE:     40,
		Sectors:   []string{"tech", "liquor"},
	}
	s := NewScreener(cfg, newTestLogger())

	base := Candidate{Symbol: "600519", Sector: "tech"}
	goodQuote := contracts.Quote{Price: 20, Volume: 50000}
	goodFund := contracts.FundamentalSnapshot{PETTM: 25, ROE: 12}

	tests := []struct {
		name  string
		cand  Candidate
		quote contracts.Quote
		fund  contracts.FundamentalSnapshot
		want  string
	}{
		{"passes", base, goodQuote, goodFund, ""},
		{"below min price", base, contracts.Quote{Price: 1.5, Volume: 50000}, goodFund, "min_price"},
		{"above max price", base, contracts.Quote{Price: 150, Volume: 50000}, goodFund, "max_price"},
		{"thin volume", base, contracts.Quote{Price: 20, Volume: 500}, goodFund, "min_volume"},
		{"weak roe", base, goodQuote, contracts.FundamentalSnapshot{PETTM: 25, ROE: 3}, "min_roe"},
		{"expensive", base, goodQuote, contracts.FundamentalSnapshot{PETTM: 60, ROE: 12}, "max_pe"},
		{"loss making", base, goodQuote, contracts.FundamentalSnapshot{PETTM: -5, ROE: 12}, "max_pe"},
		{"wrong sector", Candidate{Symbol: "600519", Sector: "mining"}, goodQuote, goodFund, "sector"},
		{"no sector on record", Candidate{Symbol: "600519"}, goodQuote, goodFund, "sector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Check(tt.cand, tt.quote, tt.fund))
		})
	}
}

func TestScreenerDisabledFiltersPassEverything(t *testing.T) {
	s := NewScreener(strategyconfig.Screening{}, newTestLogger())

	got := s.Check(Candidate{Symbol: "X"}, contracts.Quote{Price: 0.01}, contracts.FundamentalSnapshot{PETTM: -1})
	assert.Equal(t, "", got)
}

func TestRankOrderAndTruncation(t *testing.T) {
	stock := func(symbol string, total float64) contracts.SelectedStock {
		return contracts.SelectedStock{
			Symbol:    symbol,
			Breakdown: contracts.ScoreBreakdown{TotalScore: total},
		}
	}

	ranked := Rank([]contracts.SelectedStock{
		stock("C", 80),
		stock("A", 65),
		stock("B", 80),
		stock("D", 90),
	}, 3)

	assert.Len(t, ranked, 3)
	assert.Equal(t, "D", ranked[0].Symbol)
	assert.Equal(t, "B", ranked[1].Symbol) // tie with C, symbol ascending
	assert.Equal(t, "C", ranked[2].Symbol)
	for i, s := range ranked {
		assert.Equal(t, i+1, s.Rank)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []contracts.SelectedStock{
		{Symbol: "B", Breakdown: contracts.ScoreBreakdown{TotalScore: 10}},
		{Symbol: "A", Breakdown: contracts.ScoreBreakdown{TotalScore: 90}},
	}

	_ = Rank(in, 0)

	assert.Equal(t, "B", in[0].Symbol)
	assert.Equal(t, 0, in[0].Rank)
}
