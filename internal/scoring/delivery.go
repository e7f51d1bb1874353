package scoring

import "github.com/dotcommander/districtkpi/internal/types"

// DeliveryParams configures the delivery program. Both bands are shared by
// every district.
type DeliveryParams struct {
	OnTime  Band `json:"onTime"`
	Success Band `json:"success"`
}

// DeliveryInput is one district's delivery rates (percent).
type DeliveryInput struct {
	OnTimeRate  float64 `json:"onTimeRate"`
	SuccessRate float64 `json:"successRate"`
}

// DeliveryRow is one line of the delivery result table.
type DeliveryRow struct {
	District     types.District `json:"district"`
	OnTimeRate   float64        `json:"onTimeRate"`
	OnTimeScore  float64        `json:"onTimeScore"`
	SuccessRate  float64        `json:"successRate"`
	SuccessScore float64        `json:"successScore"`
	Total        float64        `json:"total"`
}

// DeliveryResult lists the six districts followed by the city row.
type DeliveryResult struct {
	Rows [types.SlotCount]DeliveryRow `json:"rows"`
}

// City returns the synthesized city row.
func (r *DeliveryResult) City() DeliveryRow {
	return r.Rows[types.City]
}

// OnTimeScore scores a delivery on-time rate.
func (p DeliveryParams) OnTimeScore(rate float64) float64 {
	return OnTimeCurve.Score(rate, p.OnTime)
}

// SuccessScore scores a delivery success rate.
func (p DeliveryParams) SuccessScore(rate float64) float64 {
	return SuccessCurve.Score(rate, p.Success)
}

// Row scores one district or the city.
func (p DeliveryParams) Row(d types.District, in DeliveryInput, r Rounding) DeliveryRow {
	onTimeRaw := OnTimeCurve.Raw(in.OnTimeRate, p.OnTime)
	successRaw := SuccessCurve.Raw(in.SuccessRate, p.Success)

	return DeliveryRow{
		District:     d,
		OnTimeRate:   in.OnTimeRate,
		OnTimeScore:  Round2(onTimeRaw),
		SuccessRate:  in.SuccessRate,
		SuccessScore: Round2(successRaw),
		Total:        combine(r, onTimeRaw, successRaw, add),
	}
}

// Score builds the full table. The city row re-scores the mean rates; it is
// never the mean of the district scores.
func (p DeliveryParams) Score(in [types.DistrictCount]DeliveryInput, r Rounding) *DeliveryResult {
	res := &DeliveryResult{}
	for _, d := range types.AllDistricts() {
		res.Rows[d] = p.Row(d, in[d], r)
	}
	res.Rows[types.City] = p.Row(types.City, AggregateDelivery(in), r)
	return res
}
