package scoring

import (
	"encoding/json"

	"github.com/dotcommander/districtkpi/internal/types"
)

// ThresholdTable holds complaint thresholds for every district and City.
// It is encoded as an object keyed by district so partial documents only
// override the districts they name.
type ThresholdTable [types.SlotCount]Band

// MarshalJSON implements json.Marshaler.
func (t ThresholdTable) MarshalJSON() ([]byte, error) {
	m := make(map[types.District]Band, len(t))
	for _, d := range types.AllSlots() {
		m[d] = t[d]
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ThresholdTable) UnmarshalJSON(data []byte) error {
	var m map[types.District]Band
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for d, b := range m {
		t[d] = b
	}
	return nil
}

// ComplaintParams configures the complaint and repeat-fault program.
// ResolveRate is shared by every district; complaint thresholds are set per
// district, City included.
type ComplaintParams struct {
	ResolveRate Band           `json:"resolveRate"`
	Thresholds  ThresholdTable `json:"thresholds"`
}

// ComplaintInput is one district's complaint metrics for the period.
type ComplaintInput struct {
	Complaints  int     `json:"complaints"`
	Repeated    bool    `json:"repeated"`
	ResolveRate float64 `json:"resolveRate"`
}

// ComplaintRow is one line of the complaint result table.
type ComplaintRow struct {
	District       types.District `json:"district"`
	Complaints     int            `json:"complaints"`
	Repeated       bool           `json:"repeated"`
	ResolveRate    float64        `json:"resolveRate"`
	ComplaintScore float64        `json:"complaintScore"`
	ResolveScore   float64        `json:"resolveScore"`
	Total          float64        `json:"total"`
}

// ComplaintResult lists the six districts followed by the city row.
type ComplaintResult struct {
	Rows [types.SlotCount]ComplaintRow `json:"rows"`
}

// City returns the synthesized city row.
func (r *ComplaintResult) City() ComplaintRow {
	return r.Rows[types.City]
}

// ComplaintScore scores a complaint count against the district's thresholds.
// A repeat complaint zeroes any district except the city aggregate.
func (p ComplaintParams) ComplaintScore(d types.District, complaints int, repeated bool) float64 {
	return Round2(p.complaintRaw(d, complaints, repeated))
}

func (p ComplaintParams) complaintRaw(d types.District, complaints int, repeated bool) float64 {
	if repeated && !d.IsCity() {
		return 0
	}
	return ComplaintCurve.Raw(float64(complaints), p.Thresholds[d])
}

// ResolveRateScore scores a repeat-fault resolution rate (percent).
func (p ComplaintParams) ResolveRateScore(rate float64) float64 {
	return ResolveRateCurve.Score(rate, p.ResolveRate)
}

// Row scores one district, or the city when d is types.City.
func (p ComplaintParams) Row(d types.District, in ComplaintInput, r Rounding) ComplaintRow {
	complaintRaw := p.complaintRaw(d, in.Complaints, in.Repeated)
	resolveRaw := ResolveRateCurve.Raw(in.ResolveRate, p.ResolveRate)

	return ComplaintRow{
		District:       d,
		Complaints:     in.Complaints,
		Repeated:       in.Repeated,
		ResolveRate:    in.ResolveRate,
		ComplaintScore: Round2(complaintRaw),
		ResolveScore:   Round2(resolveRaw),
		Total:          combine(r, complaintRaw, resolveRaw, add),
	}
}

// Score builds the full table: each district, then the city row scored on
// the aggregated inputs.
func (p ComplaintParams) Score(in [types.DistrictCount]ComplaintInput, r Rounding) *ComplaintResult {
	res := &ComplaintResult{}
	for _, d := range types.AllDistricts() {
		res.Rows[d] = p.Row(d, in[d], r)
	}
	res.Rows[types.City] = p.Row(types.City, AggregateComplaint(in), r)
	return res
}
