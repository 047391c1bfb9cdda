package warrant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/warrant_analyzer_go/internal/models"
)

func TestCurveModelY(t *testing.T) {
	curve := Warrant2Curves().Curves[NewConfigKey(1, 1, false)]

	t.Run("polynomial below the breakpoint", func(t *testing.T) {
		assert.InDelta(t, 261.96886004, curve.Y(500), 1e-6)
		assert.InDelta(t, 550.22697349, curve.Y(0), 1e-9)
	})

	t.Run("saturation at and past the breakpoint", func(t *testing.T) {
		atBreak := curve.A + curve.B*curve.Breakpoint + curve.C*curve.Breakpoint*curve.Breakpoint
		require.NotEqual(t, curve.Saturation, atBreak)
		assert.Equal(t, 80.0, curve.Y(1092))
		assert.Equal(t, 80.0, curve.Y(5000))
		assert.NotEqual(t, 80.0, curve.Y(1091.9))
	})
}

func TestCurveSaturationIsLiteralForEveryConfiguration(t *testing.T) {
	for _, set := range []*CurveSet{Warrant2Curves(), Warrant3Curves()} {
		for key, curve := range set.Curves {
			assert.Equal(t, curve.Saturation, curve.Y(curve.Breakpoint), "%s %s", set.Name, key)
			assert.Equal(t, curve.Saturation, curve.Y(curve.Breakpoint+250), "%s %s", set.Name, key)
			assert.Greater(t, curve.Y(curve.PlotFrom), curve.Saturation, "%s %s", set.Name, key)
		}
	}
}

func TestWarrantCurvesAreStoredSeparately(t *testing.T) {
	for _, key := range AllConfigKeys() {
		assert.NotEqual(t, Warrant2Curves().Curves[key], Warrant3Curves().Curves[key], key.String())
	}
}

// samplesAbove returns eight saturated-region samples, n of them above the curve.
func samplesAbove(curve CurveModel, n int) []models.Sample {
	samples := make([]models.Sample, 8)
	for i := range samples {
		minor := curve.Saturation // on the curve is not above it
		if i < n {
			minor = curve.Saturation + 1
		}
		samples[i] = models.Sample{Major: curve.Breakpoint + float64(10*i), Minor: minor}
	}
	return samples
}

func TestCurveSetEvaluateBoundary(t *testing.T) {
	for _, set := range []*CurveSet{Warrant2Curves(), Warrant3Curves()} {
		for _, key := range AllConfigKeys() {
			curve := set.Curves[key]
			rural := key.Area.IsRural()

			got, err := set.Evaluate(key.Lanes.Major, key.Lanes.Minor, rural, samplesAbove(curve, 4))
			require.NoError(t, err)
			assert.Equal(t, CurveOutcome{Satisfied: true, HoursAbove: 4}, got, "%s %s", set.Name, key)

			got, err = set.Evaluate(key.Lanes.Major, key.Lanes.Minor, rural, samplesAbove(curve, 3))
			require.NoError(t, err)
			assert.Equal(t, CurveOutcome{Satisfied: false, HoursAbove: 3}, got, "%s %s", set.Name, key)
		}
	}
}

func TestCurveSetEvaluatePolynomialRegion(t *testing.T) {
	// Warrant 3, urban 1x1 at 1200 vph major: y = 745.652000052 - 905.86399632 + 312.5232 ≈ 152.31.
	samples := []models.Sample{
		{Major: 1200, Minor: 153}, {Major: 1200, Minor: 160}, {Major: 1200, Minor: 200}, {Major: 1200, Minor: 152},
		{Major: 1200, Minor: 100}, {Major: 1200, Minor: 100}, {Major: 1200, Minor: 100}, {Major: 1200, Minor: 100},
	}
	got, err := Warrant3Curves().Evaluate(1, 1, false, samples)
	require.NoError(t, err)
	assert.Equal(t, CurveOutcome{Satisfied: false, HoursAbove: 3}, got)

	samples[3].Minor = 152.4
	got, err = Warrant3Curves().Evaluate(1, 1, false, samples)
	require.NoError(t, err)
	assert.Equal(t, CurveOutcome{Satisfied: true, HoursAbove: 4}, got)
}

func TestCurveSetEvaluateErrors(t *testing.T) {
	ok := []models.Sample{{Major: 1000, Minor: 100}}

	_, err := Warrant2Curves().Evaluate(3, 1, false, ok)
	assert.ErrorIs(t, err, models.ErrUnsupportedConfiguration)

	_, err = Warrant3Curves().Evaluate(0, 2, true, ok)
	assert.ErrorIs(t, err, models.ErrUnsupportedConfiguration)

	for _, bad := range []models.Sample{{Major: -1, Minor: 10}, {Major: 10, Minor: math.Inf(1)}, {Major: math.NaN(), Minor: 10}} {
		_, err = Warrant2Curves().Evaluate(1, 1, false, append(ok, bad))
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
}

func TestCurveSetEvaluateIsIdempotent(t *testing.T) {
	samples := samplesAbove(Warrant2Curves().Curves[NewConfigKey(2, 2, true)], 5)
	first, err := Warrant2Curves().Evaluate(2, 2, true, samples)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Warrant2Curves().Evaluate(2, 2, true, samples)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
