package contracts

// Cross is the result of comparing a fast series against a slow one on a
// single bar.
type Cross int

const (
	CrossNone Cross = iota
	GoldenCross
	DeathCross
)

func (c Cross) String() string {
	switch c {
	case GoldenCross:
		return "golden_cross"
	case DeathCross:
		return "death_cross"
	default:
		return "none"
	}
}

// OscillatorState classifies a bounded oscillator reading.
type OscillatorState int

const (
	OscNeutral OscillatorState = iota
	Overbought
	Oversold
)

func (o OscillatorState) String() string {
	switch o {
	case Overbought:
		return "overbought"
	case Oversold:
		return "oversold"
	default:
		return "neutral"
	}
}

// BandPosition classifies the close relative to the Bollinger band.
type BandPosition int

const (
	WithinBand BandPosition = iota
	BreakoutUp
	BreakoutDown
)

func (b BandPosition) String() string {
	switch b {
	case BreakoutUp:
		return "breakout_up"
	case BreakoutDown:
		return "breakout_down"
	default:
		return "within_band"
	}
}

// Trend classifies the moving-average ordering of a series.
type Trend int

const (
	TrendUnknown Trend = iota
	Uptrend
	Downtrend
	Sideways
)

func (t Trend) String() string {
	switch t {
	case Uptrend:
		return "uptrend"
	case Downtrend:
		return "downtrend"
	case Sideways:
		return "sideways"
	default:
		return "unknown"
	}
}

// OverallSignal is the aggregate vote over individual technical signals.
type OverallSignal int

const (
	SignalNeutral OverallSignal = iota
	SignalBuy
	SignalStrongBuy
	SignalSell
	SignalStrongSell
)

func (s OverallSignal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalStrongBuy:
		return "strong_buy"
	case SignalSell:
		return "sell"
	case SignalStrongSell:
		return "strong_sell"
	default:
		return "neutral"
	}
}

// TechnicalSignals bundles the per-bar signal readings derived from an
// IndicatorSet for the latest bar of a series.
type TechnicalSignals struct {
	MACDCross   Cross           `json:"macd_cross"`
	MACross     Cross           `json:"ma_cross"` // MA5 vs MA20
	MABullish   bool            `json:"ma_bullish"`
	MABearish   bool            `json:"ma_bearish"`
	KDJ         OscillatorState `json:"kdj"`
	RSI         OscillatorState `json:"rsi"`
	Boll        BandPosition    `json:"boll"`
	Trend       Trend           `json:"trend"`
	VolumeSurge bool            `json:"volume_surge"`
	Overall     OverallSignal   `json:"overall"`
}
