// Package wizard collects a period's district metrics through an interactive
// form.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dotcommander/districtkpi/internal/period"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/spf13/cast"
	"golang.org/x/term"
)

// Field bounds.
const (
	MaxRate          = 100.0
	MaxInterruptions = 10
)

// Values prefilled into the form.
const (
	DefaultResolveRate = "85"
	DefaultOnTimeRate  = "95"
	DefaultSuccessRate = "93"
	DefaultOutageRate  = "3.00"
	DefaultCount       = "0"
	DefaultRepeated    = "n"
)

// Options configures a wizard run.
type Options struct {
	// Label is the initial period label.
	Label string
	// Modules limits the form to these programs; empty means all three.
	Modules []types.Module
	// Lang selects prompt language ("zh" or "en").
	Lang string
}

// answers holds the raw text of every field for one district.
type answers struct {
	complaints    string
	repeated      string
	resolveRate   string
	onTimeRate    string
	successRate   string
	outageRate    string
	interruptions string
}

func newAnswers() *answers {
	return &answers{
		complaints:    DefaultCount,
		repeated:      DefaultRepeated,
		resolveRate:   DefaultResolveRate,
		onTimeRate:    DefaultOnTimeRate,
		successRate:   DefaultSuccessRate,
		outageRate:    DefaultOutageRate,
		interruptions: DefaultCount,
	}
}

// RunPeriodWizard runs an interactive huh form and returns the period it
// collected.
func RunPeriodWizard(in io.Reader, out io.Writer, opts Options) (*period.Period, error) {
	modules := opts.Modules
	if len(modules) == 0 {
		modules = types.AllModules()
	}
	l := report.NewLabels(opts.Lang)

	label := opts.Label
	var district [types.DistrictCount]*answers
	for i := range district {
		district[i] = newAnswers()
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title(l.T("report.period")).
				Placeholder("2025-09").
				Value(&label),
		),
	}
	for _, m := range modules {
		groups = append(groups, moduleGroup(m, district, l))
	}

	form := huh.NewForm(groups...).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return buildPeriod(strings.TrimSpace(label), modules, district)
}

func moduleGroup(m types.Module, district [types.DistrictCount]*answers, l *report.Labels) *huh.Group {
	var fields []huh.Field
	title := func(d types.District, col string) string {
		return l.DistrictName(d) + " · " + l.T(col)
	}

	for _, d := range types.AllDistricts() {
		a := district[d]
		switch m {
		case types.ModuleComplaint:
			fields = append(fields,
				huh.NewInput().Title(title(d, "col.complaints")).Value(&a.complaints).Validate(ValidateCount),
				huh.NewInput().Title(title(d, "col.repeated")).Description("y/n").Value(&a.repeated).Validate(ValidateFlag),
				huh.NewInput().Title(title(d, "col.resolveRate")).Value(&a.resolveRate).Validate(ValidateRate),
			)
		case types.ModuleDelivery:
			fields = append(fields,
				huh.NewInput().Title(title(d, "col.onTimeRate")).Value(&a.onTimeRate).Validate(ValidateRate),
				huh.NewInput().Title(title(d, "col.successRate")).Value(&a.successRate).Validate(ValidateRate),
			)
		case types.ModuleOutage:
			fields = append(fields,
				huh.NewInput().Title(title(d, "col.outageRate")).Value(&a.outageRate).Validate(ValidateRate),
				huh.NewInput().Title(title(d, "col.interruptions")).Value(&a.interruptions).Validate(ValidateInterruptions),
			)
		}
	}
	return huh.NewGroup(fields...).Title(l.T("title." + string(m)))
}

// buildPeriod converts validated answers. Rates keep two decimals.
func buildPeriod(label string, modules []types.Module, district [types.DistrictCount]*answers) (*period.Period, error) {
	p := &period.Period{Label: label}
	for _, m := range modules {
		switch m {
		case types.ModuleComplaint:
			p.Complaint = make(map[types.District]period.ComplaintRecord, types.DistrictCount)
		case types.ModuleDelivery:
			p.Delivery = make(map[types.District]period.DeliveryRecord, types.DistrictCount)
		case types.ModuleOutage:
			p.Outage = make(map[types.District]period.OutageRecord, types.DistrictCount)
		}
	}

	for _, d := range types.AllDistricts() {
		a := district[d]
		if p.Complaint != nil {
			complaints, err := ParseCount(a.complaints)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			repeated, err := ParseFlag(a.repeated)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			resolve, err := ParseRate(a.resolveRate)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			p.Complaint[d] = period.ComplaintRecord{Complaints: complaints, Repeated: repeated, ResolveRate: resolve}
		}
		if p.Delivery != nil {
			onTime, err := ParseRate(a.onTimeRate)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			success, err := ParseRate(a.successRate)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			p.Delivery[d] = period.DeliveryRecord{OnTimeRate: onTime, SuccessRate: success}
		}
		if p.Outage != nil {
			rate, err := ParseRate(a.outageRate)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			interruptions, err := ParseInterruptions(a.interruptions)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d, err)
			}
			p.Outage[d] = period.OutageRecord{OutageRate: rate, Interruptions: interruptions}
		}
	}
	return p, nil
}

// ParseRate parses a percentage in [0, 100], rounded to two decimals.
func ParseRate(s string) (float64, error) {
	v, err := cast.ToFloat64E(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 || v > MaxRate {
		return 0, fmt.Errorf("rate %v out of range 0-100", v)
	}
	return scoring.Round2(v), nil
}

// ParseCount parses a non-negative whole number.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	// cast reads prefixes such as 0x and 0o; only plain decimals are counts.
	digits := s
	if i := strings.IndexByte(digits, '.'); i >= 0 && strings.Trim(digits[i+1:], "0") == "" {
		digits = digits[:i]
	}
	if _, err := strconv.Atoi(digits); err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if trimmed := strings.TrimLeft(s, "0"); trimmed != "" && len(trimmed) < len(s) {
		s = trimmed
	}
	v, err := cast.ToIntE(s)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("count %d must not be negative", v)
	}
	return v, nil
}

// ParseInterruptions parses an AAA interruption count in [0, 10].
func ParseInterruptions(s string) (int, error) {
	v, err := ParseCount(s)
	if err != nil {
		return 0, err
	}
	if v > MaxInterruptions {
		return 0, fmt.Errorf("interruptions %d out of range 0-%d", v, MaxInterruptions)
	}
	return v, nil
}

// ParseFlag parses a yes/no answer.
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "是", "有":
		return true, nil
	case "n", "no", "否", "无":
		return false, nil
	}
	v, err := cast.ToBoolE(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("answer y or n, got %q", s)
	}
	return v, nil
}

// ValidateRate is the huh validator for rate fields.
func ValidateRate(s string) error {
	_, err := ParseRate(s)
	return err
}

// ValidateCount is the huh validator for complaint counts.
func ValidateCount(s string) error {
	_, err := ParseCount(s)
	return err
}

// ValidateInterruptions is the huh validator for interruption counts.
func ValidateInterruptions(s string) error {
	_, err := ParseInterruptions(s)
	return err
}

// ValidateFlag is the huh validator for yes/no fields.
func ValidateFlag(s string) error {
	_, err := ParseFlag(s)
	return err
}
