package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Round2 rounds x to two decimal places.
//
// Rounding goes through the shortest decimal formatting of the exact binary
// value, so halfway cases resolve to even the same way a decimal calculator
// working on the stored double would (2.675 -> 2.67, 0.125 -> 0.12).
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}

// RoundInt rounds x to the nearest integer, ties to even.
func RoundInt(x float64) int {
	return int(math.RoundToEven(x))
}

// Rounding controls when component scores are rounded relative to totals.
type Rounding int

const (
	// RoundEachStep rounds every interpolated sub-score and then the combined
	// total. Totals can drift by about 0.01 from the unrounded figure.
	RoundEachStep Rounding = iota
	// RoundFinal combines unrounded sub-scores and rounds only the total.
	// Reported sub-scores are still rounded for display.
	RoundFinal
)

// String implements fmt.Stringer.
func (r Rounding) String() string {
	switch r {
	case RoundFinal:
		return "final"
	default:
		return "step"
	}
}

// ParseRounding converts a flag or config value to a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "step":
		return RoundEachStep, nil
	case "final":
		return RoundFinal, nil
	default:
		return RoundEachStep, fmt.Errorf("invalid rounding %q: must be step or final", s)
	}
}

// combine joins two raw sub-scores with op under the rounding policy.
func combine(r Rounding, a, b float64, op func(x, y float64) float64) float64 {
	if r == RoundFinal {
		return Round2(op(a, b))
	}
	return Round2(op(Round2(a), Round2(b)))
}

func add(x, y float64) float64 { return x + y }

// scale multiplies a raw score by a factor under the rounding policy. The
// factor is user-configured and is never rounded.
func scale(r Rounding, score, factor float64) float64 {
	if r == RoundFinal {
		return Round2(score * factor)
	}
	return Round2(Round2(score) * factor)
}
