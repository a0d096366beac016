// backend/src/subscriptions/recurrence.go
package subscriptions

import (
	"math"
	"sort"

	"github.com/username/foliolens/backend/src/models"
)

const dayMillis = 24 * 60 * 60 * 1000

// DetectRecurrence fits a cadence to a set of transaction timestamps. The
// median of the day gaps between consecutive transactions picks the interval;
// confidence is the fraction of gaps within the interval's tolerance of that
// median. Fewer than two timestamps is always unknown.
func DetectRecurrence(timestamps []int64, th Thresholds) models.RecurrencePattern {
	if len(timestamps) < 2 {
		return models.RecurrencePattern{Interval: models.IntervalUnknown}
	}

	sorted := make([]int64, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, float64(sorted[i]-sorted[i-1])/dayMillis)
	}

	sortedGaps := make([]float64, len(gaps))
	copy(sortedGaps, gaps)
	sort.Float64s(sortedGaps)
	medianGap := sortedGaps[len(sortedGaps)/2]

	interval := models.IntervalUnknown
	tolerance := th.GapToleranceDays
	switch {
	case math.Abs(medianGap-7) <= th.GapToleranceDays:
		interval = models.IntervalWeekly
	case math.Abs(medianGap-14) <= th.GapToleranceDays:
		interval = models.IntervalBiWeekly
	case medianGap >= 28 && medianGap <= 31:
		interval = models.IntervalMonthly
	case medianGap >= 360 && medianGap <= 370:
		interval = models.IntervalYearly
		tolerance = th.YearlyToleranceDays
	}

	consistent := 0
	for _, gap := range gaps {
		if math.Abs(gap-medianGap) <= tolerance {
			consistent++
		}
	}

	return models.RecurrencePattern{
		Interval:     interval,
		Confidence:   float64(consistent) / float64(len(gaps)),
		NextExpected: sorted[len(sorted)-1] + int64(medianGap*dayMillis),
	}
}

// Days without a charge before a subscription is considered lapsed, per
// interval. Unknown falls back to the monthly window, though unknown
// intervals are rejected before activity is ever checked.
var activityWindows = map[string]float64{
	models.IntervalWeekly:   21,
	models.IntervalBiWeekly: 35,
	models.IntervalMonthly:  60,
	models.IntervalYearly:   400,
	models.IntervalUnknown:  60,
}

// IsActive reports whether the newest transaction is recent enough for the
// given cadence. The reference time is explicit so callers control "today".
func IsActive(lastTransaction int64, interval string, now int64) bool {
	window, ok := activityWindows[interval]
	if !ok {
		window = activityWindows[models.IntervalUnknown]
	}
	daysSince := float64(now-lastTransaction) / dayMillis
	return daysSince <= window
}
