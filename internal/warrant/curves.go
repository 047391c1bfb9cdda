package warrant

import (
	"fmt"
	"maps"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// MinHoursAbove is the number of samples that must lie strictly above a
// curve for a curve warrant to be satisfied.
const MinHoursAbove = 4

// CurveModel is a fitted minor-street volume curve: y = A + B·x + C·x² for
// x below Breakpoint, and the flat Saturation value from Breakpoint on.
type CurveModel struct {
	Breakpoint float64 // x*, major street total (vph)
	Saturation float64 // ySat, minor street floor (vph)
	A, B, C    float64
	PlotFrom   float64 // first plotted major volume
}

// Y returns the minimum higher-approach minor volume at major volume x.
func (m CurveModel) Y(x float64) float64 {
	if x >= m.Breakpoint {
		return m.Saturation
	}
	return m.A + m.B*x + m.C*x*x
}

// ChartDomain is the plotting window of a curve family.
type ChartDomain struct {
	XMin      float64 `json:"x_min"`
	XMax      float64 `json:"x_max"`
	YMax      float64 `json:"y_max"`
	XTickStep float64 `json:"x_tick_step"`
}

// CurveSet is one warrant's family of curves, one per configuration.
type CurveSet struct {
	ID     string // "warrant_2", "warrant_3"
	Name   string
	Domain ChartDomain
	Curves map[ConfigKey]CurveModel
}

// warrant2Curves is the Four-Hour Vehicle Volume family (urban and 70% rural figures).
var warrant2Curves = &CurveSet{
	ID:     "warrant_2",
	Name:   "Warrant 2: Four-Hour Vehicle Volume",
	Domain: ChartDomain{XMin: 300, XMax: 1400, YMax: 500, XTickStep: 100},
	Curves: map[ConfigKey]CurveModel{
		{Lanes: models.LaneConfig{Major: 1, Minor: 1}, Area: models.Urban}: {
			Breakpoint: 1092, Saturation: 80, A: 550.22697349, B: -0.6996510769, C: 0.0002462697, PlotFrom: 380,
		},
		{Lanes: models.LaneConfig{Major: 1, Minor: 1}, Area: models.Rural}: {
			Breakpoint: 782, Saturation: 60, A: 377.22710663, B: -0.6793503652, C: 0.0003501046, PlotFrom: 270,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 1}, Area: models.Urban}: {
			Breakpoint: 1340, Saturation: 80, A: 651.50622395, B: -0.7483745392, C: 0.000240228, PlotFrom: 390,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 1}, Area: models.Rural}: {
			Breakpoint: 940, Saturation: 60, A: 460.53837044, B: -0.7635806818, C: 0.0003591016, PlotFrom: 270,
		},
		{Lanes: models.LaneConfig{Major: 1, Minor: 2}, Area: models.Urban}: {
			Breakpoint: 1118, Saturation: 115, A: 651.50622395, B: -0.7483745392, C: 0.000240228, PlotFrom: 390,
		},
		{Lanes: models.LaneConfig{Major: 1, Minor: 2}, Area: models.Rural}: {
			Breakpoint: 797, Saturation: 80, A: 460.53837044, B: -0.7635806818, C: 0.0003591016, PlotFrom: 270,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 2}, Area: models.Urban}: {
			Breakpoint: 1295, Saturation: 115, A: 879.232228, B: -1.011380233, C: 0.0003253082, PlotFrom: 450,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 2}, Area: models.Rural}: {
			Breakpoint: 890, Saturation: 80, A: 613.77772474, B: -0.9893678281, C: 0.0004377428, PlotFrom: 320,
		},
	},
}

// warrant3Curves is the Peak Hour family (urban and 70% rural figures).
var warrant3Curves = &CurveSet{
	ID:     "warrant_3",
	Name:   "Warrant 3: Peak Hour Volume",
	Domain: ChartDomain{XMin: 400, XMax: 1800, YMax: 600, XTickStep: 100},
	Curves: map[ConfigKey]CurveModel{
		{Lanes: models.LaneConfig{Major: 1, Minor: 1}, Area: models.Urban}: {
			Breakpoint: 1516, Saturation: 100, A: 745.652000052, B: -0.7548866636, C: 0.00021703, PlotFrom: 440,
		},
		{Lanes: models.LaneConfig{Major: 1, Minor: 1}, Area: models.Rural}: {
			Breakpoint: 1054, Saturation: 75, A: 520.01155026, B: -0.7647561999, C: 0.0003250549, PlotFrom: 310,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 1}, Area: models.Urban}: {
			Breakpoint: 1759, Saturation: 100, A: 837.59424427, B: -0.7219511908, C: 0.0001720248, PlotFrom: 515,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 1}, Area: models.Rural}: {
			Breakpoint: 1196, Saturation: 75, A: 593.38729059, B: -0.7471500045, C: 0.000262383, PlotFrom: 360,
		},
		{Lanes: models.LaneConfig{Major: 1, Minor: 2}, Area: models.Urban}: {
			Breakpoint: 1461, Saturation: 150, A: 837.59424427, B: -0.7219511908, C: 0.0001720248, PlotFrom: 515,
		},
		{Lanes: models.LaneConfig{Major: 1, Minor: 2}, Area: models.Rural}: {
			Breakpoint: 1040, Saturation: 100, A: 593.38729059, B: -0.7471500045, C: 0.000262383, PlotFrom: 360,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 2}, Area: models.Urban}: {
			Breakpoint: 1672, Saturation: 150, A: 1060.5405451, B: -0.889969286, C: 0.0002059999, PlotFrom: 590,
		},
		{Lanes: models.LaneConfig{Major: 2, Minor: 2}, Area: models.Rural}: {
			Breakpoint: 1183, Saturation: 100, A: 771.842673, B: -0.9817221615, C: 0.0003498922, PlotFrom: 410,
		},
	},
}

// Clone returns a copy of s that shares no map with it.
func (s *CurveSet) Clone() *CurveSet {
	c := *s
	c.Curves = maps.Clone(s.Curves)
	return &c
}

// Warrant2Curves returns a copy of the published Four-Hour Vehicle Volume family.
func Warrant2Curves() *CurveSet { return warrant2Curves.Clone() }

// Warrant3Curves returns a copy of the published Peak Hour family.
func Warrant3Curves() *CurveSet { return warrant3Curves.Clone() }

// Lookup returns the curve for a configuration.
func (s *CurveSet) Lookup(key ConfigKey) (CurveModel, error) {
	m, ok := s.Curves[key]
	if !ok {
		return CurveModel{}, fmt.Errorf("%w: no %s curve for %s", models.ErrUnsupportedConfiguration, s.Name, key)
	}
	return m, nil
}

// CurveOutcome is the result of testing samples against one curve.
type CurveOutcome struct {
	Satisfied  bool
	HoursAbove int
}

// Evaluate counts the samples whose minor volume lies strictly above the
// configuration's curve at the sample's major volume. The warrant is
// satisfied when at least MinHoursAbove samples do.
func (s *CurveSet) Evaluate(laneMajor, laneMinor int, rural bool, samples []models.Sample) (CurveOutcome, error) {
	curve, err := s.Lookup(NewConfigKey(laneMajor, laneMinor, rural))
	if err != nil {
		return CurveOutcome{}, err
	}
	for i, smp := range samples {
		if err := smp.Validate(); err != nil {
			return CurveOutcome{}, fmt.Errorf("sample %d: %w", i+1, err)
		}
	}

	above := 0
	for _, smp := range samples {
		if smp.Minor > curve.Y(smp.Major) {
			above++
		}
	}
	return CurveOutcome{Satisfied: above >= MinHoursAbove, HoursAbove: above}, nil
}
