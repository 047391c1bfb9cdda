package warrant

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/user/warrant_analyzer_go/internal/analysis"
	"github.com/user/warrant_analyzer_go/internal/models"
)

// Engine wires aggregation and the three warrants together. It holds private
// copies of its tables, never modifies them and is safe for concurrent use.
type Engine struct {
	conditions       ConditionTable
	warrant2         *CurveSet
	warrant3         *CurveSet
	intervalsPerHour int
	logger           *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithIntervalsPerHour sets the aggregation window size.
func WithIntervalsPerHour(n int) Option {
	return func(e *Engine) { e.intervalsPerHour = n }
}

// WithTables replaces the threshold and curve tables. The engine keeps copies,
// so later changes by the caller have no effect. A nil curve set leaves that
// warrant unevaluable.
func WithTables(conditions ConditionTable, warrant2, warrant3 *CurveSet) Option {
	return func(e *Engine) {
		e.conditions = maps.Clone(conditions)
		e.warrant2 = cloneSet(warrant2)
		e.warrant3 = cloneSet(warrant3)
	}
}

func cloneSet(s *CurveSet) *CurveSet {
	if s == nil {
		return nil
	}
	return s.Clone()
}

// NewEngine creates an engine over the published tables with four intervals
// per hour. A nil logger disables logging.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		conditions:       Warrant1Table(),
		warrant2:         Warrant2Curves(),
		warrant3:         Warrant3Curves(),
		intervalsPerHour: 4,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of the engine with opts applied. The receiver is unchanged.
func (e *Engine) With(opts ...Option) *Engine {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// IntervalsPerHour is the aggregation window size.
func (e *Engine) IntervalsPerHour() int { return e.intervalsPerHour }

// CurveSets returns copies of the Warrant 2 and Warrant 3 families in use.
// An unset family is nil.
func (e *Engine) CurveSets() []*CurveSet {
	return []*CurveSet{cloneSet(e.warrant2), cloneSet(e.warrant3)}
}

// CurveSet returns the family whose ID matches id.
func (e *Engine) CurveSet(id string) (*CurveSet, error) {
	for _, set := range e.CurveSets() {
		if set != nil && set.ID == id {
			return set, nil
		}
	}
	return nil, fmt.Errorf("%w: no curve set %q", models.ErrUnsupportedConfiguration, id)
}

// Evaluation is everything produced by one run.
type Evaluation struct {
	Site    models.SiteParameters   `json:"site"`
	Area    models.AreaType         `json:"area_type"`
	Lanes   models.LaneConfig       `json:"lanes"`
	Profile *analysis.HourlyProfile `json:"-"`
	Summary analysis.DaySummary     `json:"summary"`
	Samples []models.Sample         `json:"samples"`
	Result  models.WarrantResult    `json:"result"`
}

// Evaluate aggregates the interval counts and evaluates all three warrants.
// An error is returned only when the counts cannot be aggregated; a problem
// with one warrant's inputs is recorded on that warrant and the rest are
// still evaluated.
func (e *Engine) Evaluate(intervals []models.IntervalCount, site models.SiteParameters) (*Evaluation, error) {
	profile, err := analysis.AggregateHourly(intervals, e.intervalsPerHour, site.MajorAxis)
	if err != nil {
		return nil, err
	}

	summary, err := analysis.Summarize(profile)
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Site:    site,
		Area:    site.AreaType(),
		Profile: profile,
		Summary: summary,
		Samples: profile.Samples(),
	}
	e.logger.Debug("Hourly volumes aggregated",
		zap.Int("hours", len(profile.Bins)),
		zap.Int("top_hours", len(profile.Top)),
		zap.Float64("total_volume", summary.TotalVolume),
		zap.String("peak_hour", summary.PeakHour.Label()),
		zap.String("area_type", string(ev.Area)))

	lanes, laneErr := ResolveLanes(site.LanesMajor, site.LanesMinor)
	ev.Lanes = lanes
	rural := ev.Area.IsRural()

	peak := profile.PeakVolumes()
	ev.Result.Warrant1.Volumes = peak
	if laneErr != nil {
		ev.Result.Warrant1.Err = laneErr
		ev.Result.Warrant2.Err = laneErr
		ev.Result.Warrant3.Err = laneErr
	} else {
		ev.Result.Warrant1 = e.evaluateWarrant1(lanes, peak, rural)
		ev.Result.Warrant2 = e.evaluateCurve(e.warrant2, lanes, rural, ev.Samples)
		ev.Result.Warrant3 = e.evaluateCurve(e.warrant3, lanes, rural, ev.Samples)
	}

	for name, werr := range ev.Result.Errors() {
		e.logger.Warn("Warrant could not be evaluated", zap.String("warrant", name), zap.Error(werr))
	}
	return ev, nil
}

func (e *Engine) evaluateWarrant1(lanes models.LaneConfig, peak models.Sample, rural bool) models.Warrant1Result {
	res := models.Warrant1Result{Volumes: peak}
	out, err := e.conditions.Evaluate(lanes.Major, lanes.Minor, peak.Major, peak.Minor, rural)
	if err != nil {
		res.Err = err
		return res
	}
	res.ConditionA = out.ConditionA
	res.ConditionB = out.ConditionB
	res.Combination = out.Combination

	fields := []zap.Field{zap.Float64("major_vph", peak.Major), zap.Float64("minor_vph", peak.Minor)}
	switch {
	case out.ConditionA:
		e.logger.Debug("Warrant 1, Condition A satisfied", fields...)
	case out.ConditionB:
		e.logger.Debug("Warrant 1, Condition A not satisfied; Condition B satisfied", fields...)
	case out.Combination:
		e.logger.Debug("Warrant 1, Conditions A and B not satisfied; combination satisfied", fields...)
	default:
		e.logger.Debug("Warrant 1 not satisfied", fields...)
	}
	return res
}

func (e *Engine) evaluateCurve(set *CurveSet, lanes models.LaneConfig, rural bool, samples []models.Sample) models.CurveWarrantResult {
	if set == nil {
		return models.CurveWarrantResult{Err: fmt.Errorf("%w: no curve table configured", models.ErrUnsupportedConfiguration)}
	}
	out, err := set.Evaluate(lanes.Major, lanes.Minor, rural, samples)
	if err != nil {
		return models.CurveWarrantResult{Err: err}
	}
	e.logger.Debug("Curve warrant evaluated",
		zap.String("warrant", set.Name),
		zap.Int("hours_above", out.HoursAbove),
		zap.Bool("satisfied", out.Satisfied))
	return models.CurveWarrantResult{Satisfied: out.Satisfied, HoursAbove: out.HoursAbove}
}
