package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/user/warrant_analyzer_go/internal/config"
	"github.com/user/warrant_analyzer_go/internal/parser"
	"github.com/user/warrant_analyzer_go/internal/report"
	"github.com/user/warrant_analyzer_go/internal/warrant"
)

// App runs the count sheet to report pipeline.
type App struct {
	cfg    *config.Config
	engine *warrant.Engine
	logger *zap.Logger
}

// NewApp creates a new App
func NewApp(cfg *config.Config, engine *warrant.Engine, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{cfg: cfg, engine: engine, logger: logger}
}

func (a *App) sendStatus(message string, fields ...zap.Field) {
	a.logger.Info(message, fields...)
}

// GenerateReport parses the configured count sheet, evaluates the warrants
// and writes the configured reports. Plot failures are logged and leave a
// gap in the PDF; everything else stops the run.
func (a *App) GenerateReport() (*warrant.Evaluation, error) {
	csvFilePath := a.cfg.Input.File
	if csvFilePath == "" {
		return nil, fmt.Errorf("no count sheet given: set input.file or -input")
	}
	site, err := a.cfg.SiteParameters()
	if err != nil {
		return nil, err
	}
	runID := report.NewRunID()
	a.sendStatus("Report requested",
		zap.String("run_id", runID),
		zap.String("csv", csvFilePath),
		zap.String("pdf", a.cfg.Output.PDF),
		zap.String("json", a.cfg.Output.JSON))

	a.sendStatus("Parsing count sheet", zap.String("csv", csvFilePath))
	parsedData, err := parser.ParseIntervalCounts(csvFilePath)
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	a.sendStatus("Parsed intervals", zap.Int("intervals", parsedData.NumIntervals()))
	for _, e := range parsedData.ParseErrors {
		a.logger.Warn("Parsing warning", zap.String("detail", e))
	}

	ev, err := a.engine.Evaluate(parsedData.Intervals, site)
	if err != nil {
		return nil, fmt.Errorf("error evaluating warrants: %w", err)
	}
	a.sendStatus("Evaluation complete",
		zap.String("area_type", string(ev.Area)),
		zap.Stringer("lanes", ev.Lanes),
		zap.Bool("warrant_1", ev.Result.Warrant1.Satisfied()),
		zap.Bool("warrant_2", ev.Result.Warrant2.Satisfied),
		zap.Bool("warrant_3", ev.Result.Warrant3.Satisfied))

	plotImages := a.generatePlots(ev)

	if dir := a.cfg.Output.ChartsDir; dir != "" {
		if err := writeCharts(dir, plotImages); err != nil {
			return nil, err
		}
		a.sendStatus("Charts written", zap.String("dir", dir), zap.Int("count", len(plotImages)))
	}

	if pdfFilePath := a.cfg.Output.PDF; pdfFilePath != "" {
		a.sendStatus("Generating PDF", zap.String("pdf", pdfFilePath))
		if err := report.BuildPDFReport(pdfFilePath, ev, runID, plotImages); err != nil {
			return nil, fmt.Errorf("error generating PDF report: %w", err)
		}
		a.sendStatus("PDF report successfully generated", zap.String("pdf", pdfFilePath))
	}

	if jsonFilePath := a.cfg.Output.JSON; jsonFilePath != "" {
		if err := report.WriteJSON(jsonFilePath, ev, runID, a.engine.CurveSets()...); err != nil {
			return nil, fmt.Errorf("error generating JSON report: %w", err)
		}
		a.sendStatus("JSON report successfully generated", zap.String("json", jsonFilePath))
	}

	return ev, nil
}

// generatePlots renders the curve charts and the hourly heatmap, keyed as
// BuildPDFReport expects.
func (a *App) generatePlots(ev *warrant.Evaluation) map[string][]byte {
	plotImages := make(map[string][]byte)
	sets := a.engine.CurveSets()

	plotConfigs := []struct {
		Name string
		Set  *warrant.CurveSet
	}{
		{Name: report.PlotWarrant2, Set: sets[0]},
		{Name: report.PlotWarrant3, Set: sets[1]},
	}
	for _, pc := range plotConfigs {
		imgBytes, err := report.CreateCurvePlot(pc.Set, ev.Area, ev.Lanes, ev.Samples)
		if err != nil {
			a.logger.Warn("Error generating plot", zap.String("plot", pc.Name), zap.Error(err))
			continue
		}
		plotImages[pc.Name] = imgBytes
	}

	imgBytes, err := report.CreateHourlyHeatmap(ev.Profile.Bins, ev.Site.MajorAxis, "Hourly Volume by Approach")
	if err != nil {
		a.logger.Warn("Error generating plot", zap.String("plot", report.PlotHeatmap), zap.Error(err))
	} else {
		plotImages[report.PlotHeatmap] = imgBytes
	}

	a.sendStatus("Plot generation complete", zap.Int("plots", len(plotImages)))
	return plotImages
}

func writeCharts(dir string, plotImages map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create charts directory: %w", err)
	}
	for name, img := range plotImages {
		if err := os.WriteFile(filepath.Join(dir, name+".png"), img, 0o644); err != nil {
			return fmt.Errorf("failed to write chart %s: %w", name, err)
		}
	}
	return nil
}
