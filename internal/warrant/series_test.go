package warrant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/warrant_analyzer_go/internal/models"
)

func TestCurveSetSeries(t *testing.T) {
	series, err := Warrant2Curves().Series(NewConfigKey(1, 1, false), DefaultSeriesStep)
	require.NoError(t, err)

	require.Len(t, series.Points, 103) // 380..1400 every 10
	assert.Equal(t, 380.0, series.Points[0].X)
	assert.Equal(t, 1400.0, series.Points[len(series.Points)-1].X)
	assert.Equal(t, "1 lane & 1 lane", series.Label)
	assert.Equal(t, models.Urban, series.Area)

	curve := Warrant2Curves().Curves[NewConfigKey(1, 1, false)]
	for _, p := range series.Points {
		assert.Equal(t, curve.Y(p.X), p.Y)
		if p.X >= curve.Breakpoint {
			assert.Equal(t, 80.0, p.Y)
		}
	}
}

func TestCurveSetSeriesErrors(t *testing.T) {
	_, err := Warrant3Curves().Series(NewConfigKey(1, 1, false), 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Warrant3Curves().Series(NewConfigKey(3, 3, false), 10)
	assert.ErrorIs(t, err, models.ErrUnsupportedConfiguration)

	_, err = Warrant3Curves().AreaSeries(models.AreaType("suburban"), 10)
	assert.ErrorIs(t, err, models.ErrUnsupportedConfiguration)
}

func TestCurveSetAreaSeries(t *testing.T) {
	series, err := Warrant3Curves().AreaSeries(models.Rural, 50)
	require.NoError(t, err)
	require.Len(t, series, 4)

	wantOrder := []models.LaneConfig{{Major: 1, Minor: 1}, {Major: 2, Minor: 1}, {Major: 1, Minor: 2}, {Major: 2, Minor: 2}}
	for i, s := range series {
		assert.Equal(t, wantOrder[i], s.Lanes)
		assert.Equal(t, models.Rural, s.Area)
		assert.NotEmpty(t, s.Points)
		assert.LessOrEqual(t, s.Points[len(s.Points)-1].X, Warrant3Curves().Domain.XMax)
	}
	assert.Equal(t, "2+ lanes & 1 lane", series[1].Label)
	assert.Equal(t, "2+ lanes & 2+ lanes", series[3].Label)
}

func TestCurveSetSeriesStepBounds(t *testing.T) {
	key := NewConfigKey(1, 1, false) // W3 urban 1x1 plots 440..1800

	for _, step := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -10, 0.0001, 0.1} {
		_, err := Warrant3Curves().Series(key, step)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "step %v", step)
	}

	// 1360 / 0.137 is just under the cap.
	series, err := Warrant3Curves().Series(key, 0.137)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(series.Points), MaxSeriesPoints)

	series, err = Warrant3Curves().Series(key, 5000)
	require.NoError(t, err)
	assert.Len(t, series.Points, 1)
}
