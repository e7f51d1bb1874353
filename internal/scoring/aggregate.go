package scoring

import "github.com/dotcommander/districtkpi/internal/types"

// AggregateComplaint derives the city complaint input: complaint counts are
// summed, the repeat flag is OR-ed, and the resolution rate is the two-decimal
// mean. The repeat flag is informational; the city row ignores it.
func AggregateComplaint(in [types.DistrictCount]ComplaintInput) ComplaintInput {
	var city ComplaintInput
	rates := make([]float64, 0, len(in))
	for _, rec := range in {
		city.Complaints += rec.Complaints
		city.Repeated = city.Repeated || rec.Repeated
		rates = append(rates, rec.ResolveRate)
	}
	city.ResolveRate = meanRounded(rates)
	return city
}

// AggregateDelivery derives the city delivery input from unweighted means.
func AggregateDelivery(in [types.DistrictCount]DeliveryInput) DeliveryInput {
	onTime := make([]float64, 0, len(in))
	success := make([]float64, 0, len(in))
	for _, rec := range in {
		onTime = append(onTime, rec.OnTimeRate)
		success = append(success, rec.SuccessRate)
	}
	return DeliveryInput{
		OnTimeRate:  meanRounded(onTime),
		SuccessRate: meanRounded(success),
	}
}

// AggregateOutage derives the city outage input: the two-decimal mean rate and
// the mean interruption count rounded to an integer.
func AggregateOutage(in [types.DistrictCount]OutageInput) OutageInput {
	rates := make([]float64, 0, len(in))
	total := 0
	for _, rec := range in {
		rates = append(rates, rec.OutageRate)
		total += rec.Interruptions
	}
	return OutageInput{
		OutageRate:    meanRounded(rates),
		Interruptions: RoundInt(float64(total) / float64(len(in))),
	}
}

// meanRounded is the arithmetic mean, summed in district order, rounded to two
// decimals.
func meanRounded(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Round2(sum / float64(len(values)))
}
