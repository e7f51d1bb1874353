package scoring

// Orientation says which direction of a metric earns more points.
type Orientation int

const (
	// HigherIsBetter is used for rates that should rise (resolution, on-time, success).
	HigherIsBetter Orientation = iota
	// LowerIsBetter is used for counts and rates that should fall (complaints, outages).
	LowerIsBetter
)

// Anchor selects which threshold a lower-is-better interpolation is measured
// from. Both describe the same line; they differ only in floating-point
// evaluation order.
type Anchor int

const (
	// AnchorBaseline interpolates upward from Floor at the baseline.
	AnchorBaseline Anchor = iota
	// AnchorChallenge interpolates downward from Max at the challenge.
	AnchorChallenge
)

// Band is a user-supplied pair of assessment thresholds.
type Band struct {
	Baseline  float64 `json:"baseline" yaml:"baseline" mapstructure:"baseline"`
	Challenge float64 `json:"challenge" yaml:"challenge" mapstructure:"challenge"`
}

// Degenerate reports whether both thresholds coincide.
func (b Band) Degenerate() bool {
	return b.Baseline == b.Challenge
}

// Curve is a piecewise-linear score: Max at or beyond the challenge, Floor at
// the baseline, a straight line in between and zero past the baseline.
// Max, Floor and Gain are module constants, never user input.
type Curve struct {
	Max   float64
	Floor float64
	// Gain is the points earned between baseline and challenge. Zero means
	// Max - Floor.
	Gain   float64
	Better Orientation
	Anchor Anchor
}

// Rise is the number of points earned between baseline and challenge.
func (c Curve) Rise() float64 {
	if c.Gain != 0 {
		return c.Gain
	}
	return c.Max - c.Floor
}

// Raw scores value against band without rounding.
//
// A degenerate band awards Max for every value. Inverted bands (a challenge
// on the wrong side of the baseline) are not rejected; they collapse to
// Max-or-zero.
func (c Curve) Raw(value float64, band Band) float64 {
	if band.Degenerate() {
		return c.Max
	}

	if c.Better == HigherIsBetter {
		switch {
		case value >= band.Challenge:
			return c.Max
		case value >= band.Baseline:
			perUnit := c.Rise() / (band.Challenge - band.Baseline)
			return c.Floor + perUnit*(value-band.Baseline)
		default:
			return 0
		}
	}

	switch {
	case value <= band.Challenge:
		return c.Max
	case value <= band.Baseline:
		perUnit := c.Rise() / (band.Baseline - band.Challenge)
		if c.Anchor == AnchorChallenge {
			return c.Max - perUnit*(value-band.Challenge)
		}
		return c.Floor + perUnit*(band.Baseline-value)
	default:
		return 0
	}
}

// Score is Raw rounded to two decimals.
func (c Curve) Score(value float64, band Band) float64 {
	return Round2(c.Raw(value, band))
}
