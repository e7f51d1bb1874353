package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/dotcommander/districtkpi/internal/types"
)

// FactorTable maps an interruption count to a severity multiplier. Index 3
// covers three or more interruptions.
type FactorTable [4]float64

// Factor looks up the multiplier for count. Counts of three or more share the
// last entry; negative counts are treated as zero.
func (t FactorTable) Factor(count int) float64 {
	switch {
	case count < 0:
		count = 0
	case count > len(t)-1:
		count = len(t) - 1
	}
	return t[count]
}

// UnmarshalJSON implements json.Unmarshaler. The document must list exactly
// one factor per table entry.
func (t *FactorTable) UnmarshalJSON(data []byte) error {
	var factors []float64
	if err := json.Unmarshal(data, &factors); err != nil {
		return err
	}
	if len(factors) != len(t) {
		return fmt.Errorf("outage factors: need exactly %d values, got %d", len(t), len(factors))
	}
	copy(t[:], factors)
	return nil
}

// OutageParams configures the dedicated-circuit outage program.
type OutageParams struct {
	OutageRate Band        `json:"outageRate"`
	Factors    FactorTable `json:"factors"`
}

// OutageInput is one district's outage rate (percent) and AAA circuit
// interruption count.
type OutageInput struct {
	OutageRate    float64 `json:"outageRate"`
	Interruptions int     `json:"interruptions"`
}

// OutageRow is one line of the outage result table.
type OutageRow struct {
	District      types.District `json:"district"`
	OutageRate    float64        `json:"outageRate"`
	RateScore     float64        `json:"rateScore"`
	Interruptions int            `json:"interruptions"`
	Factor        float64        `json:"factor"`
	Total         float64        `json:"total"`
}

// OutageResult lists the six districts followed by the city row.
type OutageResult struct {
	Rows [types.SlotCount]OutageRow `json:"rows"`
}

// City returns the synthesized city row.
func (r *OutageResult) City() OutageRow {
	return r.Rows[types.City]
}

// OutageRateScore scores a circuit outage rate.
func (p OutageParams) OutageRateScore(rate float64) float64 {
	return OutageRateCurve.Score(rate, p.OutageRate)
}

// Factor returns the interruption multiplier for count.
func (p OutageParams) Factor(count int) float64 {
	return p.Factors.Factor(count)
}

// Row scores one district or the city. The total is multiplicative.
func (p OutageParams) Row(d types.District, in OutageInput, r Rounding) OutageRow {
	rateRaw := OutageRateCurve.Raw(in.OutageRate, p.OutageRate)
	factor := p.Factor(in.Interruptions)

	return OutageRow{
		District:      d,
		OutageRate:    in.OutageRate,
		RateScore:     Round2(rateRaw),
		Interruptions: in.Interruptions,
		Factor:        factor,
		Total:         scale(r, rateRaw, factor),
	}
}

// Score builds the full table. The city row uses the mean rate and the
// rounded mean interruption count.
func (p OutageParams) Score(in [types.DistrictCount]OutageInput, r Rounding) *OutageResult {
	res := &OutageResult{}
	for _, d := range types.AllDistricts() {
		res.Rows[d] = p.Row(d, in[d], r)
	}
	res.Rows[types.City] = p.Row(types.City, AggregateOutage(in), r)
	return res
}
