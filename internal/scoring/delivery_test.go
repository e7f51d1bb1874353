package scoring

import (
	"testing"

	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestOnTimeAndSuccessScore(t *testing.T) {
	p := DefaultParameters().Delivery

	assert.Equal(t, 1.2, p.OnTimeScore(94))
	assert.Equal(t, 1.6, p.OnTimeScore(95))
	assert.Equal(t, 2.0, p.OnTimeScore(96))
	assert.Equal(t, 0.0, p.OnTimeScore(93.99))

	assert.Equal(t, 1.2, p.SuccessScore(90))
	assert.Equal(t, 1.68, p.SuccessScore(93))
	assert.Equal(t, 2.0, p.SuccessScore(95))
	assert.Equal(t, 0.0, p.SuccessScore(89))
}

func TestDeliveryParams_Score(t *testing.T) {
	p := DefaultParameters().Delivery
	onTime := []float64{94, 96, 95, 93, 97, 95}

	var in [types.DistrictCount]DeliveryInput
	for i, rate := range onTime {
		in[i] = DeliveryInput{OnTimeRate: rate, SuccessRate: 93}
	}

	res := p.Score(in, RoundEachStep)

	wantOnTime := []float64{1.2, 2.0, 1.6, 0, 2.0, 1.6}
	var scoreSum float64
	for _, d := range types.AllDistricts() {
		row := res.Rows[d]
		assert.Equal(t, d, row.District)
		assert.Equal(t, wantOnTime[d], row.OnTimeScore, d.Name())
		assert.Equal(t, 1.68, row.SuccessScore, d.Name())
		assert.Equal(t, Round2(wantOnTime[d]+1.68), row.Total, d.Name())
		scoreSum += row.OnTimeScore
	}

	city := res.City()
	assert.Equal(t, 95.0, city.OnTimeRate)
	assert.Equal(t, 93.0, city.SuccessRate)
	assert.Equal(t, 1.6, city.OnTimeScore)
	assert.NotEqual(t, Round2(scoreSum/6), city.OnTimeScore, "city must re-score the mean rate, not average scores")
	assert.Equal(t, 3.28, city.Total)
	assert.LessOrEqual(t, city.Total, DeliveryTotalMax)
}

func TestDeliveryRow_RoundingPolicy(t *testing.T) {
	p := DeliveryParams{
		OnTime:  Band{Baseline: 94, Challenge: 97},
		Success: Band{Baseline: 90, Challenge: 93},
	}
	in := DeliveryInput{OnTimeRate: 95, SuccessRate: 91}

	step := p.Row(types.East, in, RoundEachStep)
	assert.Equal(t, 1.47, step.OnTimeScore)
	assert.Equal(t, 1.47, step.SuccessScore)
	assert.Equal(t, 2.94, step.Total)

	final := p.Row(types.East, in, RoundFinal)
	assert.Equal(t, 1.47, final.OnTimeScore)
	assert.Equal(t, 1.47, final.SuccessScore)
	assert.Equal(t, 2.93, final.Total)
}
