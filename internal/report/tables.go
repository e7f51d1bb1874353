package report

import (
	"fmt"
	"strconv"

	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is one program rendered for display: six district rows, the city
// row, and the city breakdown notes.
type Table struct {
	Module     types.Module
	Title      string
	Headers    []string
	Rows       [][]string
	NotesTitle string
	Notes      []string
}

// Tables renders every scored program of r in report order.
func (r *Report) Tables(l *Labels) []Table {
	var tables []Table
	if res := r.Result.Complaint; res != nil {
		tables = append(tables, complaintTable(res, r.Parameters.Complaint, l))
	}
	if res := r.Result.Delivery; res != nil {
		tables = append(tables, deliveryTable(res, r.Parameters.Delivery, l))
	}
	if res := r.Result.Outage; res != nil {
		tables = append(tables, outageTable(res, r.Parameters.Outage, l))
	}
	return tables
}

// DistrictName is the display name of d in the labels' language.
func (l *Labels) DistrictName(d types.District) string {
	if l.tag == language.English {
		return cases.Title(language.English).String(d.Key())
	}
	return d.Name()
}

func score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func rate(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func complaintTable(res *scoring.ComplaintResult, p scoring.ComplaintParams, l *Labels) Table {
	t := Table{
		Module: types.ModuleComplaint,
		Title:  l.T("title.complaint"),
		Headers: []string{
			l.T("col.district"), l.T("col.complaints"), l.T("col.repeated"), l.T("col.resolveRate"),
			l.T("col.complaintScore"), l.T("col.resolveScore"), l.T("col.total"),
		},
		NotesTitle: l.T("notes.title"),
	}
	for _, row := range res.Rows {
		t.Rows = append(t.Rows, []string{
			l.DistrictName(row.District),
			l.Count(row.Complaints),
			l.Bool(row.Repeated),
			rate(row.ResolveRate),
			score(row.ComplaintScore),
			score(row.ResolveScore),
			score(row.Total),
		})
	}

	city := res.City()
	repeated := l.T("word.absent")
	if city.Repeated {
		repeated = l.T("word.present")
	}
	band := p.Thresholds[types.City]
	t.Notes = []string{
		l.T("note.complaints", city.Complaints),
		l.T("note.repeated", repeated),
		l.T("note.resolveMean", city.ResolveRate),
		l.T("note.complaintScore", city.ComplaintScore, number(scoring.ComplaintMax), number(band.Challenge), number(band.Baseline)),
		l.T("note.resolveScore", city.ResolveScore, number(scoring.ResolveRateMax), p.ResolveRate.Baseline, p.ResolveRate.Challenge),
		l.T("note.total", city.Total, number(scoring.ComplaintTotalMax)),
	}
	return t
}

func deliveryTable(res *scoring.DeliveryResult, p scoring.DeliveryParams, l *Labels) Table {
	t := Table{
		Module: types.ModuleDelivery,
		Title:  l.T("title.delivery"),
		Headers: []string{
			l.T("col.district"), l.T("col.onTimeRate"), l.T("col.onTimeScore"),
			l.T("col.successRate"), l.T("col.successScore"), l.T("col.total"),
		},
		NotesTitle: l.T("notes.title"),
	}
	for _, row := range res.Rows {
		t.Rows = append(t.Rows, []string{
			l.DistrictName(row.District),
			rate(row.OnTimeRate),
			score(row.OnTimeScore),
			rate(row.SuccessRate),
			score(row.SuccessScore),
			score(row.Total),
		})
	}

	city := res.City()
	t.Notes = []string{
		l.T("note.onTimeMean", city.OnTimeRate),
		l.T("note.onTimeScore", city.OnTimeScore, number(scoring.OnTimeMax), p.OnTime.Baseline, p.OnTime.Challenge),
		l.T("note.successMean", city.SuccessRate),
		l.T("note.successScore", city.SuccessScore, number(scoring.SuccessMax), p.Success.Baseline, p.Success.Challenge),
		l.T("note.total", city.Total, number(scoring.DeliveryTotalMax)),
	}
	return t
}

func outageTable(res *scoring.OutageResult, p scoring.OutageParams, l *Labels) Table {
	t := Table{
		Module: types.ModuleOutage,
		Title:  l.T("title.outage"),
		Headers: []string{
			l.T("col.district"), l.T("col.outageRate"), l.T("col.rateScore"),
			l.T("col.interruptions"), l.T("col.factor"), l.T("col.total"),
		},
		NotesTitle: l.T("notes.title"),
	}
	for _, row := range res.Rows {
		t.Rows = append(t.Rows, []string{
			l.DistrictName(row.District),
			rate(row.OutageRate),
			score(row.RateScore),
			l.Count(row.Interruptions),
			number(row.Factor),
			score(row.Total),
		})
	}

	city := res.City()
	t.Notes = []string{
		l.T("note.outageMean", city.OutageRate),
		l.T("note.outageScore", city.RateScore, number(scoring.OutageRateMax), p.OutageRate.Baseline, p.OutageRate.Challenge),
		l.T("note.interruptionsMean", city.Interruptions),
		l.T("note.factor", number(city.Factor)),
		l.T("note.total", city.Total, number(scoring.OutageTotalMax)),
	}
	return t
}
