package contracts

import "fmt"

// IndicatorKind identifies a family of technical indicators. The set is
// closed: the engine resolves each kind to its computation at call time, so
// callers can request a subset without stringly-typed dispatch.
type IndicatorKind int

const (
	KindMA IndicatorKind = iota
	KindMACD
	KindKDJ
	KindRSI
	KindBollinger
	KindVolume
)

// AllIndicatorKinds returns every supported kind, in computation order.
func AllIndicatorKinds() []IndicatorKind {
	return []IndicatorKind{KindMA, KindMACD, KindKDJ, KindRSI, KindBollinger, KindVolume}
}

// String returns the kind name used in requests and logs.
func (k IndicatorKind) String() string {
	switch k {
	case KindMA:
		return "ma"
	case KindMACD:
		return "macd"
	case KindKDJ:
		return "kdj"
	case KindRSI:
		return "rsi"
	case KindBollinger:
		return "boll"
	case KindVolume:
		return "volume"
	default:
		return fmt.Sprintf("indicator(%d)", int(k))
	}
}

// ParseIndicatorKind maps a kind name back to its enum value.
func ParseIndicatorKind(name string) (IndicatorKind, error) {
	for _, k := range AllIndicatorKinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown indicator kind %q", name)
}

// Series column names produced by the indicator engine.
const (
	IndMA5       = "ma5"
	IndMA10      = "ma10"
	IndMA20      = "ma20"
	IndMA60      = "ma60"
	IndMA120     = "ma120"
	IndMA250     = "ma250"
	IndMACDDif   = "macd_dif"
	IndMACDDea   = "macd_dea"
	IndMACDHist  = "macd_hist"
	IndKDJK      = "kdj_k"
	IndKDJD      = "kdj_d"
	IndKDJJ      = "kdj_j"
	IndRSI6      = "rsi6"
	IndRSI12     = "rsi12"
	IndRSI24     = "rsi24"
	IndBollUpper = "boll_upper"
	IndBollMid   = "boll_mid"
	IndBollLower = "boll_lower"
	IndVolMA5    = "vol_ma5"
	IndVolMA10   = "vol_ma10"
	IndVolRatio  = "vol_ratio"
)

// Series is a numeric series aligned 1:1 with its input bars. Entries at
// indexes below ValidFrom are undefined (insufficient history), never a
// computed zero. A series where ValidFrom equals the length carries no
// defined values at all.
type Series struct {
	Values    []float64 `json:"values"`
	ValidFrom int       `json:"valid_from"`
}

// AbsentSeries returns a series of the given length with no defined entries.
func AbsentSeries(length int) Series {
	return Series{Values: make([]float64, length), ValidFrom: length}
}

// Len returns the aligned length of the series.
func (s Series) Len() int { return len(s.Values) }

// Defined reports whether index i carries a computed value.
func (s Series) Defined(i int) bool {
	return i >= s.ValidFrom && i < len(s.Values)
}

// At returns the value at index i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if !s.Defined(i) {
		return 0, false
	}
	return s.Values[i], true
}

// Last returns the most recent defined value, if any.
func (s Series) Last() (float64, bool) {
	return s.At(len(s.Values) - 1)
}

// IndicatorSet maps series names to aligned series. All members share the
// input length; absence of warm-up values is carried per series.
type IndicatorSet map[string]Series

// Get looks up a series by name.
func (set IndicatorSet) Get(name string) (Series, bool) {
	s, ok := set[name]
	return s, ok
}

// LastValue returns the latest defined value of a named series.
func (set IndicatorSet) LastValue(name string) (float64, bool) {
	s, ok := set[name]
	if !ok {
		return 0, false
	}
	return s.Last()
}
