package warrant

import (
	"fmt"
	"math"
	"sort"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// DefaultSeriesStep is the major-volume spacing of plotted curve points.
const DefaultSeriesStep = 10

// MaxSeriesPoints caps the points rendered for one curve.
const MaxSeriesPoints = 10000

// Point is one plotted (major, minor) coordinate of a curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CurveSeries is a curve rendered as points for charting.
type CurveSeries struct {
	Lanes  models.LaneConfig `json:"lanes"`
	Area   models.AreaType   `json:"area"`
	Label  string            `json:"label"`
	Points []Point           `json:"points"`
}

// seriesLabel follows the figure legends, e.g. "2+ lanes & 1 lane".
func seriesLabel(l models.LaneConfig) string {
	lane := func(n int) string {
		if n >= MaxLanes {
			return "2+ lanes"
		}
		return "1 lane"
	}
	return fmt.Sprintf("%s & %s", lane(l.Major), lane(l.Minor))
}

// Series samples the configuration's curve from its plot start to the right
// edge of the chart domain, inclusive, every step vph.
func (s *CurveSet) Series(key ConfigKey, step float64) (CurveSeries, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return CurveSeries{}, fmt.Errorf("%w: series step must be positive and finite, got %v", models.ErrInvalidInput, step)
	}
	curve, err := s.Lookup(key)
	if err != nil {
		return CurveSeries{}, err
	}
	span := max(s.Domain.XMax-curve.PlotFrom, 0)
	if span/step >= MaxSeriesPoints {
		return CurveSeries{}, fmt.Errorf("%w: series step %v gives more than %d points", models.ErrInvalidInput, step, MaxSeriesPoints)
	}
	n := int(span/step) + 1
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x := curve.PlotFrom + float64(i)*step
		points = append(points, Point{X: x, Y: curve.Y(x)})
	}
	return CurveSeries{Lanes: key.Lanes, Area: key.Area, Label: seriesLabel(key.Lanes), Points: points}, nil
}

// AreaSeries renders every lane configuration's curve for one area type,
// ordered 1x1, 2x1, 1x2, 2x2 as in the published figures.
func (s *CurveSet) AreaSeries(area models.AreaType, step float64) ([]CurveSeries, error) {
	keys := make([]ConfigKey, 0, 4)
	for k := range s.Curves {
		if k.Area == area {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no %s curves for area %q", models.ErrUnsupportedConfiguration, s.Name, area)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Lanes.Minor != keys[j].Lanes.Minor {
			return keys[i].Lanes.Minor < keys[j].Lanes.Minor
		}
		return keys[i].Lanes.Major < keys[j].Lanes.Major
	})

	series := make([]CurveSeries, 0, len(keys))
	for _, k := range keys {
		cs, err := s.Series(k, step)
		if err != nil {
			return nil, err
		}
		series = append(series, cs)
	}
	return series, nil
}
