package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllDistricts(t *testing.T) {
	districts := AllDistricts()
	require.Len(t, districts, DistrictCount)
	assert.Equal(t, East, districts[0])
	assert.Equal(t, Yanbian, districts[DistrictCount-1])
	for _, d := range districts {
		assert.False(t, d.IsCity())
	}

	slots := AllSlots()
	require.Len(t, slots, SlotCount)
	assert.True(t, slots[SlotCount-1].IsCity())
}

func TestParseDistrict(t *testing.T) {
	tests := []struct {
		in      string
		want    District
		wantErr bool
	}{
		{"east", East, false},
		{"EAST", East, false},
		{" gaoxin ", Gaoxin, false},
		{"东区", East, false},
		{"盐边", Yanbian, false},
		{"全市", City, false},
		{"city", City, false},
		{"north", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDistrict(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistrictNames(t *testing.T) {
	assert.Equal(t, "东区", East.Name())
	assert.Equal(t, "高新", Gaoxin.Name())
	assert.Equal(t, "全市", City.Name())
	assert.Equal(t, "renhe", Renhe.Key())
	assert.Equal(t, "miyi", Miyi.String())
	assert.False(t, District(42).Valid())
	assert.Equal(t, "district(42)", District(42).Key())
}

func TestParseModule(t *testing.T) {
	for _, m := range AllModules() {
		got, err := ParseModule(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseModule(" Outage ")
	require.NoError(t, err)
	assert.Equal(t, ModuleOutage, got)

	_, err = ParseModule("billing")
	assert.Error(t, err)
}

func TestDistrictText(t *testing.T) {
	b, err := Renhe.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "renhe", string(b))

	var d District
	require.NoError(t, d.UnmarshalText([]byte("米易")))
	assert.Equal(t, Miyi, d)

	assert.Error(t, d.UnmarshalText([]byte("atlantis")))

	_, err = District(-1).MarshalText()
	assert.Error(t, err)
}
