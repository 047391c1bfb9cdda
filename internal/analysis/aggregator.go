package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// sumWindow adds up one hour's worth of intervals.
func sumWindow(window []models.IntervalCount) models.IntervalCount {
	var total models.IntervalCount
	for _, c := range window {
		total.NB += c.NB
		total.SB += c.SB
		total.EB += c.EB
		total.WB += c.WB
	}
	return total
}

// newHourlyBin derives the major/minor metrics for a summed hour.
// The minor value is the higher of the two minor approaches, never their sum.
func newHourlyBin(hour int, totals models.IntervalCount, axis models.Axis) models.HourlyBin {
	maj1, maj2 := axis.Major()
	min1, min2 := axis.Minor()
	b := models.HourlyBin{
		Hour:      hour,
		Totals:    totals,
		MajorSum:  totals.Get(maj1) + totals.Get(maj2),
		MinorHigh: math.Max(totals.Get(min1), totals.Get(min2)),
	}
	b.Combined = b.MajorSum + b.MinorHigh
	return b
}

// RankBins assigns ordinal ranks by combined volume, highest first. Ties keep
// hour order, so the earlier hour gets the better rank and every rank is used
// exactly once. bins is modified in place.
func RankBins(bins []models.HourlyBin) {
	order := make([]int, len(bins))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bins[order[i]].Combined > bins[order[j]].Combined // Descending
	})
	for rank, idx := range order {
		bins[idx].Rank = rank + 1
	}
}

// SelectTop returns the bins with Rank <= n, ordered by rank.
func SelectTop(bins []models.HourlyBin, n int) []models.HourlyBin {
	top := make([]models.HourlyBin, 0, n)
	for _, b := range bins {
		if b.Rank >= 1 && b.Rank <= n {
			top = append(top, b)
		}
	}
	sort.Slice(top, func(i, j int) bool {
		return top[i].Rank < top[j].Rank
	})
	return top
}

// AggregateHourly bins intervals into hourly totals, ranks the hours over the
// whole day and selects the top eight. The number of intervals must be a
// non-zero multiple of intervalsPerHour and cover at most 24 hours.
func AggregateHourly(intervals []models.IntervalCount, intervalsPerHour int, axis models.Axis) (*HourlyProfile, error) {
	if err := axis.Validate(); err != nil {
		return nil, err
	}
	if intervalsPerHour < 1 {
		return nil, fmt.Errorf("%w: intervals per hour must be at least 1, got %d", models.ErrInvalidConfiguration, intervalsPerHour)
	}
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: interval sequence is empty", models.ErrInvalidInput)
	}
	if len(intervals)%intervalsPerHour != 0 {
		return nil, fmt.Errorf("%w: %d intervals is not a multiple of %d per hour", models.ErrIncompleteAggregation, len(intervals), intervalsPerHour)
	}
	numHours := len(intervals) / intervalsPerHour
	if numHours > MaxHours {
		return nil, fmt.Errorf("%w: %d hours of counts exceeds one %d-hour day", models.ErrInvalidInput, numHours, MaxHours)
	}
	for i, c := range intervals {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("interval %d: %w", i+1, err)
		}
	}

	bins := make([]models.HourlyBin, 0, numHours)
	for h := 0; h < numHours; h++ {
		window := intervals[h*intervalsPerHour : (h+1)*intervalsPerHour]
		b := newHourlyBin(h, sumWindow(window), axis)
		if !models.IsVolume(b.Combined) {
			return nil, fmt.Errorf("%w: hour %s volumes overflow", models.ErrInvalidInput, b.Label())
		}
		bins = append(bins, b)
	}
	RankBins(bins)

	return &HourlyProfile{
		Bins:      bins,
		Top:       SelectTop(bins, TopHours),
		MajorAxis: axis,
	}, nil
}
