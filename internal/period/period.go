// Package period reads and writes period files: the per-district raw metrics
// of one assessment period, in YAML or JSON.
package period

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dotcommander/districtkpi/internal/cue"
	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	yamlv3 "gopkg.in/yaml.v3"
)

// ErrNoModules is returned for a period that has no program section.
var ErrNoModules = errors.New("period has no complaint, delivery or outage section")

// ComplaintRecord is one district's complaint metrics.
type ComplaintRecord struct {
	Complaints  int     `yaml:"complaints" json:"complaints"`
	Repeated    bool    `yaml:"repeated" json:"repeated"`
	ResolveRate float64 `yaml:"resolveRate" json:"resolveRate"`
}

// DeliveryRecord is one district's delivery rates.
type DeliveryRecord struct {
	OnTimeRate  float64 `yaml:"onTimeRate" json:"onTimeRate"`
	SuccessRate float64 `yaml:"successRate" json:"successRate"`
}

// OutageRecord is one district's outage rate and interruption count.
type OutageRecord struct {
	OutageRate    float64 `yaml:"outageRate" json:"outageRate"`
	Interruptions int     `yaml:"interruptions" json:"interruptions"`
}

// Period is a decoded period file. Each section is keyed by district and,
// when present, names all six districts.
type Period struct {
	Label     string                             `yaml:"period,omitempty" json:"period,omitempty"`
	Complaint map[types.District]ComplaintRecord `yaml:"complaint,omitempty" json:"complaint,omitempty"`
	Delivery  map[types.District]DeliveryRecord  `yaml:"delivery,omitempty" json:"delivery,omitempty"`
	Outage    map[types.District]OutageRecord    `yaml:"outage,omitempty" json:"outage,omitempty"`
}

// Load reads and validates a period file.
func Load(path string) (*Period, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading period file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML or JSON period document. District keys
// may be config keys ("east") or display names ("东区").
func Parse(data []byte) (*Period, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("empty period document")
	}

	normalizeDistrictKeys(doc)

	if err := cue.Shared().ValidatePeriod(doc); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error encoding period: %w", err)
	}
	var p Period
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("error decoding period: %w", err)
	}

	if p.Empty() {
		return nil, ErrNoModules
	}
	return &p, nil
}

// decodeDocument decodes into a generic document, keeping whole numbers as
// ints so the schema can tell counts from rates.
func decodeDocument(data []byte) (map[string]any, error) {
	data, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", err)
		}
		return normalizeNumbers(doc).(map[string]any), nil
	}

	var doc map[string]any
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return doc, nil
}

// toUTF8 passes UTF-8 through and decodes anything else as GBK, the
// encoding spreadsheet exports use for district names.
func toUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("period file is neither UTF-8 nor GBK: %w", err)
	}
	return out, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeNumbers(val)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// normalizeDistrictKeys rewrites display-name keys to config keys. Unknown
// keys are left alone for the schema to reject.
func normalizeDistrictKeys(doc map[string]any) {
	for _, m := range types.AllModules() {
		section, ok := doc[string(m)].(map[string]any)
		if !ok {
			continue
		}
		for key, val := range section {
			d, err := types.ParseDistrict(key)
			if err != nil || d.Key() == key {
				continue
			}
			delete(section, key)
			section[d.Key()] = val
		}
	}
}

// Empty reports whether no program section is present.
func (p *Period) Empty() bool {
	return len(p.Complaint) == 0 && len(p.Delivery) == 0 && len(p.Outage) == 0
}

// Modules lists the programs present, in report order.
func (p *Period) Modules() []types.Module {
	return p.Inputs().Modules()
}

// Inputs converts the period to engine inputs. A district missing from a
// present section scores as zero input.
func (p *Period) Inputs() scoring.Inputs {
	var in scoring.Inputs
	if len(p.Complaint) > 0 {
		var arr [types.DistrictCount]scoring.ComplaintInput
		for _, d := range types.AllDistricts() {
			rec := p.Complaint[d]
			arr[d] = scoring.ComplaintInput{
				Complaints:  rec.Complaints,
				Repeated:    rec.Repeated,
				ResolveRate: rec.ResolveRate,
			}
		}
		in.Complaint = &arr
	}
	if len(p.Delivery) > 0 {
		var arr [types.DistrictCount]scoring.DeliveryInput
		for _, d := range types.AllDistricts() {
			rec := p.Delivery[d]
			arr[d] = scoring.DeliveryInput{OnTimeRate: rec.OnTimeRate, SuccessRate: rec.SuccessRate}
		}
		in.Delivery = &arr
	}
	if len(p.Outage) > 0 {
		var arr [types.DistrictCount]scoring.OutageInput
		for _, d := range types.AllDistricts() {
			rec := p.Outage[d]
			arr[d] = scoring.OutageInput{OutageRate: rec.OutageRate, Interruptions: rec.Interruptions}
		}
		in.Outage = &arr
	}
	return in
}

// Marshal encodes the period as "json" or "yaml".
func Marshal(p *Period, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(p, "", "  ")
	case "yaml", "yml", "":
		return yamlv3.Marshal(p)
	default:
		return nil, fmt.Errorf("unsupported period format %q", format)
	}
}

// Save writes the period to path; the extension picks JSON or YAML.
func Save(p *Period, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != "json" {
		format = "yaml"
	}
	data, err := Marshal(p, format)
	if err != nil {
		return fmt.Errorf("error marshaling period: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing period file: %w", err)
	}
	return nil
}
