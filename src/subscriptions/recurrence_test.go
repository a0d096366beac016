package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/foliolens/backend/src/models"
)

func dayTs(day int) int64 {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day).UnixMilli()
}

func timestampsAtDays(days ...int) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = dayTs(d)
	}
	return out
}

func TestDetectRecurrenceIntervals(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name         string
		days         []int
		wantInterval string
	}{
		{name: "weekly", days: []int{0, 7, 14, 21}, wantInterval: models.IntervalWeekly},
		{name: "weekly with drift", days: []int{0, 8, 14, 23}, wantInterval: models.IntervalWeekly},
		{name: "bi-weekly", days: []int{0, 14, 28, 42}, wantInterval: models.IntervalBiWeekly},
		{name: "monthly 30 day gaps", days: []int{0, 30, 61, 90}, wantInterval: models.IntervalMonthly},
		{name: "monthly lower bound", days: []int{0, 28, 56}, wantInterval: models.IntervalMonthly},
		{name: "monthly upper bound", days: []int{0, 31, 62}, wantInterval: models.IntervalMonthly},
		{name: "yearly", days: []int{0, 365, 730}, wantInterval: models.IntervalYearly},
		{name: "irregular", days: []int{0, 3, 50, 51}, wantInterval: models.IntervalUnknown},
		{name: "too sparse gap", days: []int{0, 45, 90}, wantInterval: models.IntervalUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := DetectRecurrence(timestampsAtDays(tt.days...), th)
			assert.Equal(t, tt.wantInterval, pattern.Interval)
		})
	}
}

func TestDetectRecurrenceConfidence(t *testing.T) {
	th := DefaultThresholds()

	// Gaps 30, 31, 29: median 30, all within tolerance of 3.
	steady := DetectRecurrence(timestampsAtDays(0, 30, 61, 90), th)
	assert.Equal(t, models.IntervalMonthly, steady.Interval)
	assert.InDelta(t, 1.0, steady.Confidence, 1e-9)

	// Gaps 30, 45, 20: median 30, only the first gap is consistent.
	ragged := DetectRecurrence(timestampsAtDays(0, 30, 75, 95), th)
	assert.Equal(t, models.IntervalMonthly, ragged.Interval)
	assert.InDelta(t, 1.0/3.0, ragged.Confidence, 1e-9)
}

func TestDetectRecurrenceYearlyTolerance(t *testing.T) {
	th := DefaultThresholds()

	// Gaps 365 and 361: median 365, both within the wider yearly tolerance.
	pattern := DetectRecurrence(timestampsAtDays(0, 365, 726), th)
	assert.Equal(t, models.IntervalYearly, pattern.Interval)
	assert.InDelta(t, 1.0, pattern.Confidence, 1e-9)
}

func TestDetectRecurrenceNextExpected(t *testing.T) {
	th := DefaultThresholds()

	pattern := DetectRecurrence(timestampsAtDays(0, 30, 60), th)
	assert.Equal(t, dayTs(90), pattern.NextExpected)
}

func TestDetectRecurrenceTooFewPoints(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, models.IntervalUnknown, DetectRecurrence(nil, th).Interval)
	assert.Equal(t, models.IntervalUnknown, DetectRecurrence(timestampsAtDays(5), th).Interval)
}

func TestDetectRecurrenceUnsortedInput(t *testing.T) {
	th := DefaultThresholds()

	pattern := DetectRecurrence(timestampsAtDays(60, 0, 30), th)
	assert.Equal(t, models.IntervalMonthly, pattern.Interval)
	assert.InDelta(t, 1.0, pattern.Confidence, 1e-9)
}

func TestIsActive(t *testing.T) {
	now := dayTs(100)

	tests := []struct {
		name     string
		lastDay  int
		interval string
		want     bool
	}{
		{name: "weekly fresh", lastDay: 90, interval: models.IntervalWeekly, want: true},
		{name: "weekly at boundary", lastDay: 79, interval: models.IntervalWeekly, want: true},
		{name: "weekly lapsed", lastDay: 78, interval: models.IntervalWeekly, want: false},
		{name: "bi-weekly window", lastDay: 66, interval: models.IntervalBiWeekly, want: true},
		{name: "bi-weekly lapsed", lastDay: 64, interval: models.IntervalBiWeekly, want: false},
		{name: "monthly window", lastDay: 40, interval: models.IntervalMonthly, want: true},
		{name: "monthly lapsed", lastDay: 39, interval: models.IntervalMonthly, want: false},
		{name: "yearly window", lastDay: -299, interval: models.IntervalYearly, want: true},
		{name: "yearly lapsed", lastDay: -301, interval: models.IntervalYearly, want: false},
		{name: "unrecognized interval uses monthly window", lastDay: 40, interval: "quarterly", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(dayTs(tt.lastDay), tt.interval, now))
		})
	}
}
