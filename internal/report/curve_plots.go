package report

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/user/warrant_analyzer_go/internal/models"
	"github.com/user/warrant_analyzer_go/internal/warrant"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// plotColors is the curve palette, one colour per lane configuration.
var plotColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, // Blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, // Orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}, // Green
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}, // Red
}

// CreateCurvePlot draws a warrant's curve family for one area type and
// overlays the top-hour samples. The curve for the site's own lane
// configuration is drawn heavier. The image is returned as PNG bytes.
func CreateCurvePlot(set *warrant.CurveSet, area models.AreaType, active models.LaneConfig, samples []models.Sample) ([]byte, error) {
	if set == nil {
		return nil, fmt.Errorf("no curve set to plot")
	}
	series, err := set.AreaSeries(area, warrant.DefaultSeriesStep)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", set.Name, area)
	p.X.Label.Text = "Major Street - Total of Both Approaches (VPH)"
	p.Y.Label.Text = "Minor Street - Higher-Volume Approach (VPH)"
	p.X.Min = set.Domain.XMin
	p.X.Max = set.Domain.XMax
	p.Y.Min = 0
	p.Y.Max = set.Domain.YMax
	p.X.Tick.Marker = plot.ConstantTicks(generateTicks(int(set.Domain.XMin), int(set.Domain.XMax), int(set.Domain.XTickStep)))
	p.Add(plotter.NewGrid())

	for i, s := range series {
		pts := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %v", s.Label, err)
		}
		line.Color = plotColors[i%len(plotColors)]
		line.LineStyle.Width = vg.Points(1)
		if s.Lanes == active {
			line.LineStyle.Width = vg.Points(2.5)
		}
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	if len(samples) > 0 {
		pts := make(plotter.XYs, 0, len(samples))
		for _, smp := range samples {
			pts = append(pts, plotter.XY{X: smp.Major, Y: smp.Minor})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create sample scatter: %v", err)
		}
		scatter.GlyphStyle.Color = color.Black
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("Top 8 hours", scatter)
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	writer, err := p.WriterTo(vg.Points(800), vg.Points(450), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

// generateTicks creates labelled ticks from min to max every step.
func generateTicks(min, max, step int) []plot.Tick {
	if step <= 0 {
		return []plot.Tick{{Value: float64(min), Label: fmt.Sprintf("%d", min)}}
	}
	var ticks []plot.Tick
	for i := min; i <= max; i += step {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
	}
	if len(ticks) == 0 { // Default tick if no steps fit
		ticks = append(ticks, plot.Tick{Value: float64(min), Label: fmt.Sprintf("%d", min)})
	}
	return ticks
}
