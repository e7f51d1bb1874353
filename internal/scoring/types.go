package scoring

import "github.com/dotcommander/districtkpi/internal/types"

// Module score ceilings.
const (
	ComplaintMax   = 1.5
	ResolveRateMax = 1.5
	OnTimeMax      = 2.0
	SuccessMax     = 2.0
	OutageRateMax  = 4.0

	ComplaintTotalMax = ComplaintMax + ResolveRateMax
	DeliveryTotalMax  = OnTimeMax + SuccessMax
	OutageTotalMax    = OutageRateMax
)

// gainShare is the share of a 1.5-point ceiling earned between baseline and
// challenge. It is a variable so the product is a float64 multiplication
// (0.6000000000000001), not an exact constant.
var gainShare = 0.4

// Module curves. Every program awards 60% of its ceiling at the baseline.
var (
	ComplaintCurve = Curve{
		Max:    ComplaintMax,
		Floor:  0.9,
		Gain:   ComplaintMax * gainShare,
		Better: LowerIsBetter,
		Anchor: AnchorChallenge,
	}
	ResolveRateCurve = Curve{
		Max:    ResolveRateMax,
		Floor:  0.9,
		Gain:   ResolveRateMax * gainShare,
		Better: HigherIsBetter,
	}
	OnTimeCurve = Curve{
		Max:    OnTimeMax,
		Floor:  1.2,
		Better: HigherIsBetter,
	}
	SuccessCurve = Curve{
		Max:    SuccessMax,
		Floor:  1.2,
		Better: HigherIsBetter,
	}
	OutageRateCurve = Curve{
		Max:    OutageRateMax,
		Floor:  2.4,
		Better: LowerIsBetter,
		Anchor: AnchorBaseline,
	}
)

// Parameters holds the thresholds of all three programs.
type Parameters struct {
	Complaint ComplaintParams `json:"complaint"`
	Delivery  DeliveryParams  `json:"delivery"`
	Outage    OutageParams    `json:"outage"`
}

// DefaultParameters returns the thresholds the assessment ships with.
func DefaultParameters() Parameters {
	var thresholds ThresholdTable
	for d, base := range map[types.District]float64{
		types.East:    3,
		types.Gaoxin:  1,
		types.West:    2,
		types.Renhe:   2,
		types.Miyi:    2,
		types.Yanbian: 2,
		types.City:    12,
	} {
		thresholds[d] = Band{Baseline: base, Challenge: 0}
	}

	return Parameters{
		Complaint: ComplaintParams{
			ResolveRate: Band{Baseline: 85, Challenge: 100},
			Thresholds:  thresholds,
		},
		Delivery: DeliveryParams{
			OnTime:  Band{Baseline: 94, Challenge: 96},
			Success: Band{Baseline: 90, Challenge: 95},
		},
		Outage: OutageParams{
			OutageRate: Band{Baseline: 4.0, Challenge: 3.5},
			Factors:    FactorTable{1.0, 0.8, 0.6, 0.0},
		},
	}
}

// Inputs carries the raw period metrics for each program. A nil section
// means the program is not scored.
type Inputs struct {
	Complaint *[types.DistrictCount]ComplaintInput
	Delivery  *[types.DistrictCount]DeliveryInput
	Outage    *[types.DistrictCount]OutageInput
}

// Empty reports whether no program has inputs.
func (in Inputs) Empty() bool {
	return in.Complaint == nil && in.Delivery == nil && in.Outage == nil
}

// Modules lists the programs that have inputs, in report order.
func (in Inputs) Modules() []types.Module {
	var mods []types.Module
	if in.Complaint != nil {
		mods = append(mods, types.ModuleComplaint)
	}
	if in.Delivery != nil {
		mods = append(mods, types.ModuleDelivery)
	}
	if in.Outage != nil {
		mods = append(mods, types.ModuleOutage)
	}
	return mods
}

// Only returns a copy of in restricted to the given programs.
func (in Inputs) Only(mods ...types.Module) Inputs {
	var out Inputs
	for _, m := range mods {
		switch m {
		case types.ModuleComplaint:
			out.Complaint = in.Complaint
		case types.ModuleDelivery:
			out.Delivery = in.Delivery
		case types.ModuleOutage:
			out.Outage = in.Outage
		}
	}
	return out
}

// Result holds one table per scored program.
type Result struct {
	Complaint *ComplaintResult `json:"complaint,omitempty"`
	Delivery  *DeliveryResult  `json:"delivery,omitempty"`
	Outage    *OutageResult    `json:"outage,omitempty"`
}

// Modules lists the programs present in the result, in report order.
func (r Result) Modules() []types.Module {
	var mods []types.Module
	if r.Complaint != nil {
		mods = append(mods, types.ModuleComplaint)
	}
	if r.Delivery != nil {
		mods = append(mods, types.ModuleDelivery)
	}
	if r.Outage != nil {
		mods = append(mods, types.ModuleOutage)
	}
	return mods
}
