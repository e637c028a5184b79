package model

// Opt is a float that may be undefined, e.g. during an indicator warm-up window.
type Opt struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Opt { return Opt{Value: v, Valid: true} }

// None is the undefined value.
func None() Opt { return Opt{} }

// IndicatorBar is a PriceBar annotated with the strategy indicators.
type IndicatorBar struct {
	PriceBar
	RSI         Opt
	MAShort     Opt
	MALong      Opt
	Momentum    Opt
	VolumeRatio Opt
}

// Defined reports whether every indicator on the bar has a value.
func (b IndicatorBar) Defined() bool {
	return b.RSI.Valid && b.MAShort.Valid && b.MALong.Valid && b.Momentum.Valid && b.VolumeRatio.Valid
}
