package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/warrant_analyzer_go/internal/models"
	"github.com/user/warrant_analyzer_go/internal/parser"
	"github.com/user/warrant_analyzer_go/internal/report"
	"github.com/user/warrant_analyzer_go/internal/warrant"
)

// SiteRequest carries the intersection parameters, from a JSON body or
// from query parameters.
type SiteRequest struct {
	MajorAxis  string  `json:"major_axis" form:"major_axis" binding:"required"`
	SpeedLimit float64 `json:"speed_limit" form:"speed_limit" binding:"required,gt=0"`
	Speed85th  float64 `json:"speed_85th" form:"speed_85th" binding:"required,gt=0"`
	Population *int    `json:"population" form:"population" binding:"required,min=0"`
	LanesMajor int     `json:"lanes_major" form:"lanes_major"`
	LanesMinor int     `json:"lanes_minor" form:"lanes_minor"`
}

// params converts a bound request. Population is a pointer so that an
// omitted value fails binding instead of reading as a rural zero.
func (s SiteRequest) params() models.SiteParameters {
	p := models.SiteParameters{
		MajorAxis:  models.Axis(strings.ToUpper(strings.TrimSpace(s.MajorAxis))),
		SpeedLimit: s.SpeedLimit,
		Speed85th:  s.Speed85th,
		LanesMajor: s.LanesMajor,
		LanesMinor: s.LanesMinor,
	}
	if s.Population != nil {
		p.Population = *s.Population
	}
	return p
}

// EvaluateRequest is the body of POST /api/v1/evaluate. IntervalsPerHour
// of zero uses the server default.
type EvaluateRequest struct {
	Site             SiteRequest            `json:"site"`
	IntervalsPerHour int                    `json:"intervals_per_hour"`
	Intervals        []models.IntervalCount `json:"intervals" binding:"required"`
	IncludeCurves    bool                   `json:"include_curves"`
}

// csvQuery holds the query parameters of POST /api/v1/evaluate/csv.
type csvQuery struct {
	SiteRequest
	IntervalsPerHour int  `form:"intervals_per_hour"`
	IncludeCurves    bool `form:"include_curves"`
}

// EvaluateResponse is the report document plus any count sheet warnings.
type EvaluateResponse struct {
	*report.Document
	ParseWarnings []string `json:"parse_warnings,omitempty"`
}

type curvesQuery struct {
	Area string  `form:"area"`
	Step float64 `form:"step"`
}

// CurvesResponse is the body of GET /api/v1/curves/:warrant.
type CurvesResponse struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Area   models.AreaType       `json:"area"`
	Domain warrant.ChartDomain   `json:"domain"`
	Series []warrant.CurveSeries `json:"series"`
}

// Handler serves warrant evaluations over HTTP.
type Handler struct {
	engine *warrant.Engine
	logger *zap.Logger
}

func NewHandler(engine *warrant.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, logger: logger}
}

// statusFor maps an evaluation error kind to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrIncompleteAggregation),
		errors.Is(err, models.ErrInvalidConfiguration),
		errors.Is(err, models.ErrUnsupportedConfiguration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err), zap.String("client_ip", c.ClientIP()))
	} else {
		h.logger.Warn(msg, zap.Error(err), zap.String("client_ip", c.ClientIP()))
	}
	c.JSON(status, gin.H{"error": msg, "detail": err.Error()})
}

func (h *Handler) engineFor(intervalsPerHour int) *warrant.Engine {
	if intervalsPerHour == 0 {
		return h.engine
	}
	return h.engine.With(warrant.WithIntervalsPerHour(intervalsPerHour))
}

// evaluate runs the engine and builds the response document.
func (h *Handler) evaluate(c *gin.Context, engine *warrant.Engine, intervals []models.IntervalCount, site models.SiteParameters, includeCurves bool, warnings []string) {
	ev, err := engine.Evaluate(intervals, site)
	if err != nil {
		h.respondError(c, statusFor(err), "Evaluation failed", err)
		return
	}

	var sets []*warrant.CurveSet
	if includeCurves {
		sets = engine.CurveSets()
	}
	doc := report.NewDocument(ev, report.NewRunID(), sets...)
	h.logger.Info("Evaluation completed",
		zap.String("run_id", doc.RunID),
		zap.String("area_type", string(ev.Area)),
		zap.Bool("warrant_1", ev.Result.Warrant1.Satisfied()),
		zap.Bool("warrant_2", ev.Result.Warrant2.Satisfied),
		zap.Bool("warrant_3", ev.Result.Warrant3.Satisfied))

	c.JSON(http.StatusOK, EvaluateResponse{Document: doc, ParseWarnings: warnings})
}

// Evaluate handles POST /api/v1/evaluate with a JSON body.
func (h *Handler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		h.respondError(c, status, "Invalid request format", err)
		return
	}
	h.evaluate(c, h.engineFor(req.IntervalsPerHour), req.Intervals, req.Site.params(), req.IncludeCurves, nil)
}

// EvaluateCSV handles POST /api/v1/evaluate/csv. The body is a count sheet
// and the site parameters come from the query string.
func (h *Handler) EvaluateCSV(c *gin.Context) {
	var q csvQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid site parameters", err)
		return
	}

	parsed, err := parser.ParseIntervalCountsReader(c.Request.Body)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		h.respondError(c, status, "Invalid count sheet", err)
		return
	}
	for _, msg := range parsed.ParseErrors {
		h.logger.Warn("Count sheet warning", zap.String("detail", msg))
	}

	h.evaluate(c, h.engineFor(q.IntervalsPerHour), parsed.Intervals, q.SiteRequest.params(), q.IncludeCurves, parsed.ParseErrors)
}

// Curves handles GET /api/v1/curves/:warrant, where :warrant is "2", "3"
// or a curve set ID such as "warrant_2".
func (h *Handler) Curves(c *gin.Context) {
	id := c.Param("warrant")
	if !strings.HasPrefix(id, "warrant_") {
		id = "warrant_" + id
	}
	set, err := h.engine.CurveSet(id)
	if err != nil {
		h.respondError(c, http.StatusNotFound, "Unknown warrant", err)
		return
	}

	var q curvesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid query", err)
		return
	}
	if q.Area == "" {
		q.Area = string(models.Urban)
	}
	if q.Step == 0 {
		q.Step = warrant.DefaultSeriesStep
	}
	area, err := models.ParseAreaType(strings.ToLower(q.Area))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid area type", err)
		return
	}

	series, err := set.AreaSeries(area, q.Step)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		h.respondError(c, status, "Could not render curves", err)
		return
	}

	c.JSON(http.StatusOK, CurvesResponse{
		ID:     set.ID,
		Name:   set.Name,
		Area:   area,
		Domain: set.Domain,
		Series: series,
	})
}
