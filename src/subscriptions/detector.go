// backend/src/subscriptions/detector.go

// Package subscriptions flags clusters of bank transactions that recur on a
// regular cadence with a stable amount. The pipeline: normalize descriptions
// into merchant keys, merge near-identical keys by edit distance, sub-group
// each merchant's charges by amount with a sliding window, then fit a
// recurrence pattern to each sub-group's dates.
package subscriptions

import (
	"math"
	"sort"
	"time"

	"github.com/username/foliolens/backend/src/models"
)

// Thresholds are the detector's decision constants. They are configuration,
// not law: tests exercise boundary values directly and AmountToleranceUnits
// is an acknowledged tunable (a fixed window may be too tight for large
// recurring charges).
type Thresholds struct {
	MinOccurrences       int     // minimum transactions per sub-group
	MinTimeSpanDays      float64 // earliest-to-latest span required
	MinDateConsistency   float64 // minimum recurrence confidence
	GapToleranceDays     float64 // weekly/bi-weekly/monthly gap tolerance
	YearlyToleranceDays  float64
	AmountToleranceUnits float64 // sliding-window width for amount grouping
	MaxMergeDistance     int     // edit distance for merchant key merging
	HighConfidence       float64
	MediumConfidence     float64
	AmountVarianceHigh   float64
	AmountVarianceMedium float64
}

// DefaultThresholds returns the tuned production values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinOccurrences:       2,
		MinTimeSpanDays:      60,
		MinDateConsistency:   0.75,
		GapToleranceDays:     3,
		YearlyToleranceDays:  5,
		AmountToleranceUnits: 2.0,
		MaxMergeDistance:     3,
		HighConfidence:       0.9,
		MediumConfidence:     0.75,
		AmountVarianceHigh:   0.10,
		AmountVarianceMedium: 1.00,
	}
}

// Detector runs the subscription pipeline with a fixed set of thresholds.
type Detector struct {
	thresholds Thresholds
}

func NewDetector(thresholds Thresholds) *Detector {
	return &Detector{thresholds: thresholds}
}

// merchantGroup keeps first-seen ordering so detection output is stable.
type merchantGroup struct {
	key          string
	transactions []models.BankTransaction
}

type amountGroup struct {
	baseAmount   float64
	transactions []models.BankTransaction
}

// Detect runs the full pipeline over one statement's transactions. The
// reference time decides active-versus-lapsed; it is a parameter rather than
// a wall-clock read so the detector stays pure.
func (d *Detector) Detect(transactions []models.BankTransaction, now time.Time) []models.SubscriptionCandidate {
	th := d.thresholds
	nowMillis := now.UnixMilli()

	var candidates []models.SubscriptionCandidate
	for _, merchant := range d.groupBySimilarMerchants(transactions) {
		for _, group := range d.groupBySimilarAmounts(merchant.transactions) {
			if len(group.transactions) < th.MinOccurrences {
				continue
			}

			timestamps := make([]int64, 0, len(group.transactions))
			for _, t := range group.transactions {
				timestamps = append(timestamps, t.Timestamp)
			}
			earliest, latest := minMax(timestamps)
			if float64(latest-earliest)/dayMillis < th.MinTimeSpanDays {
				continue
			}

			pattern := DetectRecurrence(timestamps, th)
			if pattern.Interval == models.IntervalUnknown || pattern.Confidence < th.MinDateConsistency {
				continue
			}

			mean, variance := amountStats(group.transactions)

			tier := models.ConfidenceLow
			if pattern.Confidence >= th.HighConfidence && variance < th.AmountVarianceHigh {
				tier = models.ConfidenceHigh
			} else if pattern.Confidence >= th.MediumConfidence && variance < th.AmountVarianceMedium {
				tier = models.ConfidenceMedium
			}

			candidates = append(candidates, models.SubscriptionCandidate{
				MerchantLabel:   mostFrequentDescription(group.transactions),
				NormalizedKey:   merchant.key,
				Transactions:    group.transactions,
				Pattern:         pattern,
				TypicalAmount:   mean,
				AmountVariance:  variance,
				ConfidenceTier:  tier,
				IsActive:        IsActive(latest, pattern.Interval, nowMillis),
				LastTransaction: latest,
			})
		}
	}
	return candidates
}

// groupBySimilarMerchants buckets by normalized key, then folds keys within
// MaxMergeDistance edits of an earlier key into that key's group. The merge
// is one-directional: a consumed key is never compared again.
func (d *Detector) groupBySimilarMerchants(transactions []models.BankTransaction) []merchantGroup {
	var groups []merchantGroup
	index := make(map[string]int)

	for _, t := range transactions {
		key := NormalizeDescription(t.Description)
		if i, ok := index[key]; ok {
			groups[i].transactions = append(groups[i].transactions, t)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, merchantGroup{key: key, transactions: []models.BankTransaction{t}})
	}

	consumed := make(map[int]bool)
	for i := 0; i < len(groups); i++ {
		if consumed[i] {
			continue
		}
		for j := i + 1; j < len(groups); j++ {
			if consumed[j] {
				continue
			}
			if LevenshteinDistance(groups[i].key, groups[j].key) <= d.thresholds.MaxMergeDistance {
				groups[i].transactions = append(groups[i].transactions, groups[j].transactions...)
				consumed[j] = true
			}
		}
	}

	merged := groups[:0:0]
	for i, g := range groups {
		if !consumed[i] {
			merged = append(merged, g)
		}
	}
	return merged
}

// groupBySimilarAmounts sorts by absolute amount and absorbs, from each
// unclustered base, every subsequent amount within the tolerance window.
// Singleton windows are discarded.
func (d *Detector) groupBySimilarAmounts(transactions []models.BankTransaction) []amountGroup {
	sorted := make([]models.BankTransaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Amount) < math.Abs(sorted[j].Amount)
	})

	var groups []amountGroup
	for i := 0; i < len(sorted); {
		base := math.Abs(sorted[i].Amount)
		group := []models.BankTransaction{sorted[i]}

		j := i + 1
		for j < len(sorted) && math.Abs(sorted[j].Amount)-base <= d.thresholds.AmountToleranceUnits {
			group = append(group, sorted[j])
			j++
		}

		if len(group) >= 2 {
			groups = append(groups, amountGroup{baseAmount: base, transactions: group})
		}
		i = j
	}
	return groups
}

// amountStats returns the mean and population variance of the absolute
// amounts.
func amountStats(transactions []models.BankTransaction) (mean, variance float64) {
	for _, t := range transactions {
		mean += math.Abs(t.Amount)
	}
	mean /= float64(len(transactions))

	for _, t := range transactions {
		diff := math.Abs(t.Amount) - mean
		variance += diff * diff
	}
	variance /= float64(len(transactions))
	return mean, variance
}

// mostFrequentDescription picks the display label for a sub-group, ties
// broken by first appearance.
func mostFrequentDescription(transactions []models.BankTransaction) string {
	counts := make(map[string]int)
	var label string
	best := 0
	for _, t := range transactions {
		counts[t.Description]++
		if counts[t.Description] > best {
			best = counts[t.Description]
			label = t.Description
		}
	}
	return label
}

func minMax(values []int64) (lo, hi int64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
