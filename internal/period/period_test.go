package period

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dotcommander/districtkpi/internal/cue"
	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const sampleYAML = `period: "2025-09"
complaint:
  east:    {complaints: 0, resolveRate: 85}
  gaoxin:  {complaints: 1, resolveRate: 90}
  west:    {complaints: 2, repeated: true, resolveRate: 95}
  renhe:   {complaints: 0, resolveRate: 100}
  miyi:    {complaints: 0, resolveRate: 80}
  yanbian: {complaints: 3, resolveRate: 88}
outage:
  东区: {outageRate: 3.0, interruptions: 0}
  高新: {outageRate: 3.75, interruptions: 1}
  西区: {outageRate: 4.5, interruptions: 2}
  仁和: {outageRate: 3.5, interruptions: 3}
  米易: {outageRate: 4.0, interruptions: 0}
  盐边: {outageRate: 3.25, interruptions: 1}
`

func TestParseYAML(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "2025-09", p.Label)
	assert.Equal(t, []types.Module{types.ModuleComplaint, types.ModuleOutage}, p.Modules())
	assert.Len(t, p.Complaint, types.DistrictCount)
	assert.True(t, p.Complaint[types.West].Repeated)
	assert.False(t, p.Complaint[types.East].Repeated)
	assert.Equal(t, OutageRecord{OutageRate: 3.75, Interruptions: 1}, p.Outage[types.Gaoxin])
	assert.Nil(t, p.Delivery)

	in := p.Inputs()
	require.NotNil(t, in.Complaint)
	assert.Nil(t, in.Delivery)
	require.NotNil(t, in.Outage)
	assert.Equal(t, scoring.ComplaintInput{Complaints: 3, ResolveRate: 88}, in.Complaint[types.Yanbian])
	assert.Equal(t, 3, in.Outage[types.Renhe].Interruptions)
}

func TestParseJSON(t *testing.T) {
	data := `{
	"delivery": {
		"east":    {"onTimeRate": 94, "successRate": 93},
		"gaoxin":  {"onTimeRate": 96, "successRate": 93},
		"west":    {"onTimeRate": 95, "successRate": 93},
		"renhe":   {"onTimeRate": 93, "successRate": 93},
		"miyi":    {"onTimeRate": 97, "successRate": 93},
		"yanbian": {"onTimeRate": 95, "successRate": 93.5}
	}
}`
	p, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Empty(t, p.Label)
	assert.Equal(t, []types.Module{types.ModuleDelivery}, p.Modules())
	assert.Equal(t, DeliveryRecord{OnTimeRate: 95, SuccessRate: 93.5}, p.Delivery[types.Yanbian])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		validation bool
	}{
		{"empty", "", false},
		{"no modules", "period: x\n", false},
		{"malformed yaml", "complaint: [\n", false},
		{"malformed json", `{"delivery": `, false},
		{"missing district", "delivery:\n  east: {onTimeRate: 95, successRate: 93}\n", true},
		{"rate out of range", `{"delivery": {"east": {"onTimeRate": 101, "successRate": 93}, "gaoxin": {"onTimeRate": 95, "successRate": 93}, "west": {"onTimeRate": 95, "successRate": 93}, "renhe": {"onTimeRate": 95, "successRate": 93}, "miyi": {"onTimeRate": 95, "successRate": 93}, "yanbian": {"onTimeRate": 95, "successRate": 93}}}`, true},
		{"unknown field", "period: x\nextra: 1\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.data))
			assert.Error(t, err)
			assert.Nil(t, p)

			var verrs cue.ValidationErrors
			assert.Equal(t, tt.validation, errors.As(err, &verrs), err.Error())
		})
	}

	_, err := Parse([]byte("period: x\n"))
	assert.ErrorIs(t, err, ErrNoModules)
}

func TestParseGBK(t *testing.T) {
	encoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(sampleYAML))
	require.NoError(t, err)
	require.NotEqual(t, []byte(sampleYAML), encoded)

	p, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, OutageRecord{OutageRate: 4.5, Interruptions: 2}, p.Outage[types.West])
}

func TestSaveAndLoad(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"sep.period.yaml", filepath.Join("sub", "sep.period.json")} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(p, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, p, loaded)
		})
	}
}

func TestSaveYAMLUsesDistrictKeys(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(p, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "east:")
	assert.Contains(t, string(data), "resolveRate:")
	assert.NotContains(t, string(data), "东区")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := Marshal(&Period{}, "toml")
	assert.Error(t, err)
}
