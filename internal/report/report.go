// Package report turns engine results into documents that formatters render.
package report

import (
	"time"

	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/google/uuid"
)

// Tool is the name reported in document headers.
const Tool = "districtkpi"

// Version is stamped into reports; the binary overrides it at startup.
var Version = "dev"

// Report is one scored period.
type Report struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Period      string             `json:"period,omitempty"`
	Source      string             `json:"source,omitempty"`
	Rounding    string             `json:"rounding"`
	Parameters  scoring.Parameters `json:"parameters"`
	Result      scoring.Result     `json:"result"`
}

// New evaluates in with e and wraps the result in a Report.
func New(label string, e *scoring.Engine, in scoring.Inputs) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Period:      label,
		Rounding:    e.Rounding.String(),
		Parameters:  e.Params,
		Result:      e.Evaluate(in),
	}
}

// Modules lists the scored programs in report order.
func (r *Report) Modules() []types.Module {
	return r.Result.Modules()
}

// CityTotals returns the city total of every scored program.
func (r *Report) CityTotals() map[types.Module]float64 {
	totals := make(map[types.Module]float64, 3)
	if r.Result.Complaint != nil {
		totals[types.ModuleComplaint] = r.Result.Complaint.City().Total
	}
	if r.Result.Delivery != nil {
		totals[types.ModuleDelivery] = r.Result.Delivery.City().Total
	}
	if r.Result.Outage != nil {
		totals[types.ModuleOutage] = r.Result.Outage.City().Total
	}
	return totals
}

// Failure records a period that could not be scored.
type Failure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Batch is everything a formatter renders in one run: successfully scored
// periods in input order, plus failures.
type Batch struct {
	Reports  []*Report `json:"reports"`
	Failures []Failure `json:"failures,omitempty"`
	Lang     string    `json:"-"`
}

// Single wraps one report in a Batch.
func Single(r *Report, lang string) *Batch {
	return &Batch{Reports: []*Report{r}, Lang: lang}
}
