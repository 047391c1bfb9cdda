package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// DaySummary describes the whole count day rather than only the top hours.
type DaySummary struct {
	Hours          int                  `json:"hours"`
	TotalVolume    float64              `json:"total_volume"` // all four approaches
	ApproachTotals models.IntervalCount `json:"approach_totals"`
	MajorShare     float64              `json:"major_share"` // fraction of TotalVolume on the major street
	PeakHour       models.HourlyBin     `json:"peak_hour"`   // Rank 1
	MeanCombined   float64              `json:"mean_combined"`
	StdDevCombined float64              `json:"stddev_combined"` // population
	RangeCombined  float64              `json:"range_combined"`
	TopHoursShare  float64              `json:"top_hours_share"` // fraction of the day's combined volume in the top hours
}

// Summarize computes day-level statistics over every hourly bin of p.
func Summarize(p *HourlyProfile) (DaySummary, error) {
	if p == nil || len(p.Bins) == 0 {
		return DaySummary{}, fmt.Errorf("%w: no hourly bins to summarize", models.ErrInvalidInput)
	}

	combined := make([]float64, len(p.Bins))
	var s DaySummary
	for i, b := range p.Bins {
		combined[i] = b.Combined
		s.ApproachTotals.NB += b.Totals.NB
		s.ApproachTotals.SB += b.Totals.SB
		s.ApproachTotals.EB += b.Totals.EB
		s.ApproachTotals.WB += b.Totals.WB
	}
	s.Hours = len(p.Bins)
	for _, d := range models.Directions {
		s.TotalVolume += s.ApproachTotals.Get(d)
	}
	if s.TotalVolume > 0 {
		maj1, maj2 := p.MajorAxis.Major()
		s.MajorShare = (s.ApproachTotals.Get(maj1) + s.ApproachTotals.Get(maj2)) / s.TotalVolume
	}

	// MaxIdx returns the first maximum, which is the Rank 1 hour under
	// hour-order tie breaking.
	s.PeakHour = p.Bins[floats.MaxIdx(combined)]
	s.MeanCombined, s.StdDevCombined = stat.PopMeanStdDev(combined, nil)
	s.RangeCombined = floats.Max(combined) - floats.Min(combined)

	if dayCombined := floats.Sum(combined); dayCombined > 0 {
		var top float64
		for _, b := range p.Top {
			top += b.Combined
		}
		s.TopHoursShare = top / dayCombined
	}

	for _, v := range []float64{s.TotalVolume, s.MeanCombined, s.StdDevCombined, s.RangeCombined, s.TopHoursShare} {
		if !models.IsVolume(v) {
			return DaySummary{}, fmt.Errorf("%w: day totals overflow", models.ErrInvalidInput)
		}
	}
	return s, nil
}
