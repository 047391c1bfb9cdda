package parser

import "github.com/user/warrant_analyzer_go/internal/models"

// DefaultIntervalsPerHour is the number of 15-minute slices in an hour.
const DefaultIntervalsPerHour = 4

// ParsedVolumeData holds the interval rows read from a turning-movement count sheet,
// in file order.
type ParsedVolumeData struct {
	Intervals   []models.IntervalCount
	Columns     map[models.Direction]int // CSV column index per approach
	ParseErrors []string                 // non-fatal problems found while parsing
}

// NewParsedVolumeData initializes an empty ParsedVolumeData.
func NewParsedVolumeData() *ParsedVolumeData {
	return &ParsedVolumeData{
		Intervals:   make([]models.IntervalCount, 0, 24*DefaultIntervalsPerHour),
		Columns:     make(map[models.Direction]int, len(models.Directions)),
		ParseErrors: make([]string, 0),
	}
}

// NumIntervals is the number of data rows parsed.
func (p *ParsedVolumeData) NumIntervals() int {
	return len(p.Intervals)
}
