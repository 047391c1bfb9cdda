package analysis

import "github.com/user/warrant_analyzer_go/internal/models"

// TopHours is the size of the representative sample set.
const TopHours = 8

// MaxHours is the length of the analysis day.
const MaxHours = 24

// HourlyProfile holds the ranked hourly bins for one count day.
type HourlyProfile struct {
	Bins      []models.HourlyBin // in hour order, Rank populated
	Top       []models.HourlyBin // Rank <= TopHours, in rank order
	MajorAxis models.Axis
}

// Samples returns the (major, minor) pairs of the top hours in rank order.
func (p *HourlyProfile) Samples() []models.Sample {
	samples := make([]models.Sample, 0, len(p.Top))
	for _, b := range p.Top {
		samples = append(samples, b.Sample())
	}
	return samples
}

// PeakVolumes returns the largest major-street total and the largest
// higher-minor-approach volume found among the top hours. The two maxima may
// come from different hours.
func (p *HourlyProfile) PeakVolumes() models.Sample {
	var peak models.Sample
	for _, b := range p.Top {
		if b.MajorSum > peak.Major {
			peak.Major = b.MajorSum
		}
		if b.MinorHigh > peak.Minor {
			peak.Minor = b.MinorHigh
		}
	}
	return peak
}
