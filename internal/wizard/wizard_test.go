package wizard

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dotcommander/districtkpi/internal/period"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lines feeds answers one byte at a time so every accessible prompt reads
// exactly its own line.
func lines(answers ...string) *bytes.Buffer {
	return bytes.NewBufferString(strings.Join(answers, "\n") + "\n")
}

func TestRunPeriodWizard_Delivery(t *testing.T) {
	input := lines(
		"2025-09",
		"94", "93",
		"96", "93",
		"95", "93",
		"93", "93",
		"97", "93",
		"95.555", "93.5",
	)
	out := &bytes.Buffer{}

	p, err := RunPeriodWizard(iotest.OneByteReader(input), out, Options{Modules: []types.Module{types.ModuleDelivery}})
	require.NoError(t, err)

	assert.Equal(t, "2025-09", p.Label)
	assert.Equal(t, []types.Module{types.ModuleDelivery}, p.Modules())
	assert.Len(t, p.Delivery, types.DistrictCount)
	assert.Equal(t, period.DeliveryRecord{OnTimeRate: 94, SuccessRate: 93}, p.Delivery[types.East])
	assert.Equal(t, period.DeliveryRecord{OnTimeRate: 95.56, SuccessRate: 93.5}, p.Delivery[types.Yanbian])
	assert.Nil(t, p.Complaint)
	assert.Nil(t, p.Outage)
}

func TestRunPeriodWizard_ComplaintAndOutage(t *testing.T) {
	answers := []string{"Q3"}
	for i := 0; i < types.DistrictCount; i++ {
		repeated := "n"
		if i == int(types.West) {
			repeated = "y"
		}
		answers = append(answers, "1", repeated, "90")
	}
	for i := 0; i < types.DistrictCount; i++ {
		answers = append(answers, "3.75", "2")
	}

	p, err := RunPeriodWizard(iotest.OneByteReader(lines(answers...)), &bytes.Buffer{}, Options{
		Modules: []types.Module{types.ModuleComplaint, types.ModuleOutage},
		Lang:    "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "Q3", p.Label)
	assert.True(t, p.Complaint[types.West].Repeated)
	assert.False(t, p.Complaint[types.East].Repeated)
	assert.Equal(t, period.ComplaintRecord{Complaints: 1, ResolveRate: 90}, p.Complaint[types.Miyi])
	assert.Equal(t, period.OutageRecord{OutageRate: 3.75, Interruptions: 2}, p.Outage[types.Renhe])
	assert.Nil(t, p.Delivery)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"85", 85, false},
		{" 92.5 ", 92.5, false},
		{"99.999", 100, false},
		{"3.00%", 3, false},
		{"0", 0, false},
		{"100", 100, false},
		{"100.01", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, ValidateRate(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{"007", 7, false},
		{"3.0", 3, false},
		{"3.5", 0, true},
		{"-1", 0, true},
		{"x", 0, true},
		{"010", 10, false},
		{"0x10", 0, true},
		{"0o7", 0, true},
		{"0b11", 0, true},
		{"1_000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, ValidateCount(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInterruptions(t *testing.T) {
	v, err := ParseInterruptions("10")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	assert.Error(t, ValidateInterruptions("11"))
	assert.Error(t, ValidateInterruptions("-1"))
	assert.NoError(t, ValidateInterruptions("0"))
}

func TestParseFlag(t *testing.T) {
	for _, s := range []string{"y", "YES", "是", "有", "true", "1"} {
		v, err := ParseFlag(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"n", "No", "否", "无", "false", "0"} {
		v, err := ParseFlag(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	assert.Error(t, ValidateFlag("maybe"))
}

func TestBuildPeriod_Defaults(t *testing.T) {
	var district [types.DistrictCount]*answers
	for i := range district {
		district[i] = newAnswers()
	}

	p, err := buildPeriod("", types.AllModules(), district)
	require.NoError(t, err)

	assert.Equal(t, period.ComplaintRecord{ResolveRate: 85}, p.Complaint[types.Gaoxin])
	assert.Equal(t, period.DeliveryRecord{OnTimeRate: 95, SuccessRate: 93}, p.Delivery[types.West])
	assert.Equal(t, period.OutageRecord{OutageRate: 3}, p.Outage[types.Yanbian])
}

func TestBuildPeriod_InvalidAnswer(t *testing.T) {
	var district [types.DistrictCount]*answers
	for i := range district {
		district[i] = newAnswers()
	}
	district[types.Miyi].interruptions = "12"

	_, err := buildPeriod("", []types.Module{types.ModuleOutage}, district)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "miyi")
}
