package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/warrant_analyzer_go/internal/models"
	"github.com/user/warrant_analyzer_go/internal/warrant"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func peakDay() []models.IntervalCount {
	intervals := make([]models.IntervalCount, 0, 96)
	for h := 0; h < 24; h++ {
		q := models.IntervalCount{NB: 10, SB: 10, EB: 5, WB: 5}
		if h >= 7 && h < 15 {
			q = models.IntervalCount{NB: 150, SB: 150, EB: 25, WB: 20}
		}
		for i := 0; i < 4; i++ {
			intervals = append(intervals, q)
		}
	}
	return intervals
}

func population(n int) *int { return &n }

func urbanSite() SiteRequest {
	return SiteRequest{MajorAxis: "ns", SpeedLimit: 35, Speed85th: 38, Population: population(50000), LanesMajor: 1, LanesMinor: 1}
}

func newTestRouter(maxBody int64) *gin.Engine {
	return NewRouter(warrant.NewEngine(nil), nil, maxBody)
}

func do(t *testing.T, router http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func postJSON(t *testing.T, router http.Handler, req any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return do(t, router, http.MethodPost, "/api/v1/evaluate", body)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(1 << 20)
	for _, path := range []string{"/health", "/api/v1/health"} {
		w, out := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", out["status"])
	}
}

func TestEvaluate(t *testing.T) {
	router := newTestRouter(1 << 20)

	w, out := postJSON(t, router, EvaluateRequest{Site: urbanSite(), Intervals: peakDay()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.NotEmpty(t, out["run_id"])
	assert.Equal(t, "urban", out["area_type"])
	assert.NotContains(t, out, "curves")
	assert.NotContains(t, out, "errors")
	assert.Len(t, out["hours"], 24)
	assert.Len(t, out["samples"], 8)

	result := out["result"].(map[string]any)
	w1 := result["warrant_1"].(map[string]any)
	assert.Equal(t, false, w1["condition_a"])
	assert.Equal(t, true, w1["condition_b"])
	w2 := result["warrant_2"].(map[string]any)
	assert.Equal(t, true, w2["satisfied"])
	assert.Equal(t, float64(8), w2["hours_above"])
	w3 := result["warrant_3"].(map[string]any)
	assert.Equal(t, false, w3["satisfied"])
}

func TestEvaluateIncludeCurves(t *testing.T) {
	router := newTestRouter(1 << 20)
	w, out := postJSON(t, router, EvaluateRequest{Site: urbanSite(), Intervals: peakDay(), IncludeCurves: true})
	require.Equal(t, http.StatusOK, w.Code)

	curves := out["curves"].(map[string]any)
	assert.Len(t, curves["warrant_2"], 4)
	assert.Len(t, curves["warrant_3"], 4)
}

func TestEvaluateZeroPopulationIsRural(t *testing.T) {
	router := newTestRouter(1 << 20)
	site := urbanSite()
	site.Population = population(0)
	w, out := postJSON(t, router, EvaluateRequest{Site: site, Intervals: peakDay()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rural", out["area_type"])
}

func TestEvaluateHourlyRows(t *testing.T) {
	router := newTestRouter(1 << 20)
	hourly := make([]models.IntervalCount, 24)
	for h := range hourly {
		hourly[h] = models.IntervalCount{NB: 40, SB: 40, EB: 20, WB: 20}
	}
	w, out := postJSON(t, router, EvaluateRequest{Site: urbanSite(), IntervalsPerHour: 1, Intervals: hourly})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, out["hours"], 24)
}

func TestEvaluateLaneErrorsAreReported(t *testing.T) {
	router := newTestRouter(1 << 20)
	site := urbanSite()
	site.LanesMinor = 0
	w, out := postJSON(t, router, EvaluateRequest{Site: site, Intervals: peakDay()})
	require.Equal(t, http.StatusOK, w.Code)

	errs := out["errors"].(map[string]any)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs["warrant_2"], "invalid configuration")
}

func TestEvaluateRejects(t *testing.T) {
	router := newTestRouter(1 << 20)

	badAxis := urbanSite()
	badAxis.MajorAxis = "XY"
	noAxis := urbanSite()
	noAxis.MajorAxis = ""
	noPopulation := urbanSite()
	noPopulation.Population = nil
	negativePopulation := urbanSite()
	negativePopulation.Population = population(-1)
	negative := peakDay()
	negative[3].EB = -1

	tests := []struct {
		name   string
		req    EvaluateRequest
		status int
	}{
		{"incomplete hour", EvaluateRequest{Site: urbanSite(), Intervals: peakDay()[:95]}, http.StatusUnprocessableEntity},
		{"empty intervals", EvaluateRequest{Site: urbanSite(), Intervals: []models.IntervalCount{}}, http.StatusUnprocessableEntity},
		{"negative volume", EvaluateRequest{Site: urbanSite(), Intervals: negative}, http.StatusUnprocessableEntity},
		{"unknown axis", EvaluateRequest{Site: badAxis, Intervals: peakDay()}, http.StatusUnprocessableEntity},
		{"missing axis", EvaluateRequest{Site: noAxis, Intervals: peakDay()}, http.StatusBadRequest},
		{"missing intervals", EvaluateRequest{Site: urbanSite()}, http.StatusBadRequest},
		{"missing population", EvaluateRequest{Site: noPopulation, Intervals: peakDay()}, http.StatusBadRequest},
		{"negative population", EvaluateRequest{Site: negativePopulation, Intervals: peakDay()}, http.StatusBadRequest},
		{"hourly sums overflow", EvaluateRequest{Site: urbanSite(), IntervalsPerHour: 2, Intervals: []models.IntervalCount{{NB: 1e308, SB: 1e308}, {NB: 1e308, SB: 1e308}}}, http.StatusUnprocessableEntity},
		{"negative intervals per hour", EvaluateRequest{Site: urbanSite(), IntervalsPerHour: -1, Intervals: peakDay()}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := postJSON(t, router, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, out["error"])
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		w, _ := do(t, router, http.MethodPost, "/api/v1/evaluate", []byte("{"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequestSizeLimit(t *testing.T) {
	router := newTestRouter(64)
	w, out := postJSON(t, router, EvaluateRequest{Site: urbanSite(), Intervals: peakDay()})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, float64(64), out["max_size"])
}

func countSheet(intervals []models.IntervalCount) []byte {
	var b strings.Builder
	b.WriteString("Time,NB,SB,EB,WB\n")
	for i, q := range intervals {
		fmt.Fprintf(&b, "%d,%g,%g,%g,%g\n", i, q.NB, q.SB, q.EB, q.WB)
	}
	return []byte(b.String())
}

const csvSiteQuery = "major_axis=NS&speed_limit=35&speed_85th=38&population=50000&lanes_major=1&lanes_minor=1"

func TestEvaluateCSV(t *testing.T) {
	router := newTestRouter(1 << 20)

	w, out := do(t, router, http.MethodPost, "/api/v1/evaluate/csv?"+csvSiteQuery, countSheet(peakDay()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, out, "parse_warnings")
	w2 := out["result"].(map[string]any)["warrant_2"].(map[string]any)
	assert.Equal(t, true, w2["satisfied"])

	sheet := strings.Replace(string(countSheet(peakDay())), "0,10,10,5,5", "0,10,,5,5", 1)
	w, out = do(t, router, http.MethodPost, "/api/v1/evaluate/csv?"+csvSiteQuery+"&include_curves=true", []byte(sheet))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, out["parse_warnings"], 1)
	assert.Contains(t, out, "curves")
}

func TestEvaluateCSVRejects(t *testing.T) {
	router := newTestRouter(1 << 20)

	w, _ := do(t, router, http.MethodPost, "/api/v1/evaluate/csv?"+csvSiteQuery, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, router, http.MethodPost, "/api/v1/evaluate/csv?major_axis=NS", countSheet(peakDay()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	noPopulation := strings.Replace(csvSiteQuery, "&population=50000", "", 1)
	w, _ = do(t, router, http.MethodPost, "/api/v1/evaluate/csv?"+noPopulation, countSheet(peakDay()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sheet := strings.Replace(string(countSheet(peakDay())), "0,10,10,5,5", "0,10,abc,5,5", 1)
	w, _ = do(t, router, http.MethodPost, "/api/v1/evaluate/csv?"+csvSiteQuery, []byte(sheet))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCurves(t *testing.T) {
	router := newTestRouter(1 << 20)

	w, out := do(t, router, http.MethodGet, "/api/v1/curves/2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "warrant_2", out["id"])
	assert.Equal(t, "urban", out["area"])
	assert.Equal(t, float64(1400), out["domain"].(map[string]any)["x_max"])
	series := out["series"].([]any)
	require.Len(t, series, 4)
	first := series[0].(map[string]any)
	assert.Equal(t, "1 lane & 1 lane", first["label"])

	w, out = do(t, router, http.MethodGet, "/api/v1/curves/warrant_3?area=Rural&step=100", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rural", out["area"])
}

func TestCurvesRejects(t *testing.T) {
	router := newTestRouter(1 << 20)

	tests := []struct {
		target string
		status int
	}{
		{"/api/v1/curves/9", http.StatusNotFound},
		{"/api/v1/curves/2?area=suburban", http.StatusBadRequest},
		{"/api/v1/curves/2?step=-5", http.StatusBadRequest},
		{"/api/v1/curves/2?step=abc", http.StatusBadRequest},
		{"/api/v1/curves/2?step=0.0001", http.StatusBadRequest},
		{"/api/v1/curves/3?step=NaN", http.StatusBadRequest},
		{"/api/v1/curves/3?step=Inf", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w, out := do(t, router, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, out["error"])
		})
	}
}
