package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/user/warrant_analyzer_go/internal/analysis"
	"github.com/user/warrant_analyzer_go/internal/models"
	"github.com/user/warrant_analyzer_go/internal/warrant"
)

// Document is the machine-readable form of an evaluation.
type Document struct {
	RunID       string                           `json:"run_id"`
	GeneratedAt time.Time                        `json:"generated_at"`
	Site        models.SiteParameters            `json:"site"`
	AreaType    models.AreaType                  `json:"area_type"`
	Lanes       models.LaneConfig                `json:"lanes"`
	Summary     analysis.DaySummary              `json:"summary"`
	Hours       []models.HourlyBin               `json:"hours"`
	Samples     []models.Sample                  `json:"samples"`
	Result      models.WarrantResult             `json:"result"`
	Errors      map[string]string                `json:"errors,omitempty"`
	Curves      map[string][]warrant.CurveSeries `json:"curves,omitempty"`
}

// NewRunID returns an identifier tying a PDF and JSON report to one run.
func NewRunID() string {
	return uuid.New().String()
}

// NewDocument builds the export view of ev. Curve series for the site's area
// type are included for each curve set given; a set that cannot be rendered
// is skipped.
func NewDocument(ev *warrant.Evaluation, runID string, sets ...*warrant.CurveSet) *Document {
	doc := &Document{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Site:        ev.Site,
		AreaType:    ev.Area,
		Lanes:       ev.Lanes,
		Summary:     ev.Summary,
		Samples:     ev.Samples,
		Result:      ev.Result,
	}
	if ev.Profile != nil {
		doc.Hours = ev.Profile.Bins
	}
	if errs := ev.Result.Errors(); len(errs) > 0 {
		doc.Errors = make(map[string]string, len(errs))
		for name, err := range errs {
			doc.Errors[name] = err.Error()
		}
	}
	for _, set := range sets {
		if set == nil {
			continue
		}
		series, err := set.AreaSeries(ev.Area, warrant.DefaultSeriesStep)
		if err != nil {
			continue
		}
		if doc.Curves == nil {
			doc.Curves = make(map[string][]warrant.CurveSeries)
		}
		doc.Curves[set.ID] = series
	}
	return doc
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteJSON writes the JSON report for ev to path, with curve series for the
// site's area type from each of the given sets. Pass the evaluating engine's
// sets so the exported curves match the ones the result was judged against.
func WriteJSON(path string, ev *warrant.Evaluation, runID string, sets ...*warrant.CurveSet) error {
	if ev == nil {
		return fmt.Errorf("no evaluation to report")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON report: %w", err)
	}
	doc := NewDocument(ev, runID, sets...)
	if err := doc.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
