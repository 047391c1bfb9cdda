package report

import (
	"bytes"
	"fmt"

	"github.com/user/warrant_analyzer_go/internal/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// hourlyGrid exposes hourly approach volumes as a plotter.GridXYZ:
// columns are hours, rows are approaches.
type hourlyGrid struct {
	bins []models.HourlyBin
	rows []models.Direction
}

func (g hourlyGrid) Dims() (c, r int)   { return len(g.bins), len(g.rows) }
func (g hourlyGrid) X(c int) float64    { return float64(c) }
func (g hourlyGrid) Y(r int) float64    { return float64(r) }
func (g hourlyGrid) Z(c, r int) float64 { return g.bins[c].Totals.Get(g.rows[r]) }

// CreateHourlyHeatmap renders hourly volume per approach, with the major
// approaches on the bottom rows. The image is returned as PNG bytes.
func CreateHourlyHeatmap(bins []models.HourlyBin, axis models.Axis, plotTitle string) ([]byte, error) {
	if len(bins) == 0 {
		return nil, fmt.Errorf("no hourly bins to plot heatmap")
	}
	maj1, maj2 := axis.Major()
	min1, min2 := axis.Minor()
	grid := hourlyGrid{bins: bins, rows: []models.Direction{maj1, maj2, min1, min2}}

	numCols, numRows := grid.Dims()
	lo, hi := grid.Z(0, 0), grid.Z(0, 0)
	for c := 0; c < numCols; c++ {
		for r := 0; r < numRows; r++ {
			z := grid.Z(c, r)
			if z < lo {
				lo = z
			}
			if z > hi {
				hi = z
			}
		}
	}
	if lo == hi {
		hi = lo + 1
	}

	p := plot.New()
	p.Title.Text = plotTitle
	p.X.Label.Text = "Hour Ending"
	p.Y.Label.Text = "Approach"

	yTicks := make([]plot.Tick, numRows)
	for i, d := range grid.rows {
		yTicks[i] = plot.Tick{Value: float64(i), Label: string(d)}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(numRows) - 0.5

	xTicks := make([]plot.Tick, 0, numCols)
	for c := 0; c < numCols; c += 2 {
		xTicks = append(xTicks, plot.Tick{Value: float64(c), Label: bins[c].Label()})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.X.Min = -0.5
	p.X.Max = float64(numCols) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = lo
	hm.Max = hi
	p.Add(hm)

	writer, err := p.WriterTo(vg.Points(1000), vg.Points(300), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write heatmap to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
