package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/user/warrant_analyzer_go/internal/models"
	"github.com/user/warrant_analyzer_go/internal/warrant"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Keys of the chart images BuildPDFReport places.
const (
	PlotWarrant2 = "curve_warrant_2"
	PlotWarrant3 = "curve_warrant_3"
	PlotHeatmap  = "heatmap_hourly"
)

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func() // map of style name to function that sets font, color etc.
	lineHeight  float64
	currentY    float64 // To manually track Y position for flowing content
	pageHeight  float64
	contentTopY float64 // Top Y after margin
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellHighlight"] = func() { // top-8 hours
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 70, 160)
	}
	s.styles["pass"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 130, 0)
	}
	s.styles["fail"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]() // Default
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1 // Small gap after paragraph
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// tableRow is one row of cells with a style per cell.
type tableRow struct {
	cells  []string
	styles []string
}

// writeTable draws a header and rows, repeating the header after page breaks.
func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows []tableRow) {
	colWidthsAbs := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidthsAbs[i] = rel * pdfContentWidth
	}

	writeHeader := func() {
		sX := pdfMargin
		s.applyStyle("tableHeader")
		for i, header := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	writeHeader()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			writeHeader()
		}
		sX := pdfMargin
		for i, cellData := range row.cells {
			style := "tableCell"
			if i < len(row.styles) && row.styles[i] != "" {
				style = row.styles[i]
			}
			s.applyStyle(style)
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, cellData, "1", 0, "C", false, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}
	s.addSpacer(3)
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string, styleName string) {
	// imageName is the key gofpdf uses to refer to the registered image.
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, styleName, "C")
	}
	s.addSpacer(2)
}

// formatVolume prints whole volumes without decimals.
func formatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(ok bool) (string, string) {
	if ok {
		return "Satisfied", "pass"
	}
	return "Not satisfied", "fail"
}

// warrantRows summarises the three warrants for the outcome table.
func warrantRows(ev *warrant.Evaluation) []tableRow {
	r := ev.Result
	var rows []tableRow

	w1 := r.Warrant1
	volumes := fmt.Sprintf("Major %s / Minor %s vph", formatVolume(w1.Volumes.Major), formatVolume(w1.Volumes.Minor))
	if w1.Err != nil {
		rows = append(rows, tableRow{cells: []string{"1: Eight-Hour Vehicle Volume", "-", volumes, "Error: " + w1.Err.Error()}, styles: []string{"", "", "", "fail"}})
	} else {
		for _, c := range []struct {
			name string
			ok   bool
		}{{"Condition A", w1.ConditionA}, {"Condition B", w1.ConditionB}, {"Combination A+B (80%)", w1.Combination}} {
			label, style := yesNo(c.ok)
			rows = append(rows, tableRow{cells: []string{"1: Eight-Hour Vehicle Volume", c.name, volumes, label}, styles: []string{"", "", "", style}})
		}
	}

	for _, cw := range []struct {
		name string
		res  models.CurveWarrantResult
	}{{"2: Four-Hour Vehicle Volume", r.Warrant2}, {"3: Peak Hour", r.Warrant3}} {
		if cw.res.Err != nil {
			rows = append(rows, tableRow{cells: []string{cw.name, "Curve", "-", "Error: " + cw.res.Err.Error()}, styles: []string{"", "", "", "fail"}})
			continue
		}
		label, style := yesNo(cw.res.Satisfied)
		detail := fmt.Sprintf("%d of %d hours above curve (need %d)", cw.res.HoursAbove, len(ev.Samples), warrant.MinHoursAbove)
		rows = append(rows, tableRow{cells: []string{cw.name, "Curve", detail, label}, styles: []string{"", "", "", style}})
	}
	return rows
}

// hourlyRows lists every hour with its directional totals and rank.
func hourlyRows(bins []models.HourlyBin, top int) []tableRow {
	rows := make([]tableRow, 0, len(bins))
	for _, b := range bins {
		style := "tableCell"
		if b.Rank <= top {
			style = "tableCellHighlight"
		}
		cells := []string{
			b.Label(),
			formatVolume(b.Totals.NB),
			formatVolume(b.Totals.SB),
			formatVolume(b.Totals.EB),
			formatVolume(b.Totals.WB),
			formatVolume(b.MajorSum),
			formatVolume(b.MinorHigh),
			formatVolume(b.Combined),
			strconv.Itoa(b.Rank),
		}
		styles := make([]string, len(cells))
		for i := range styles {
			styles[i] = style
		}
		rows = append(rows, tableRow{cells: cells, styles: styles})
	}
	return rows
}

// WritePDFReport renders the evaluation report to w.
func WritePDFReport(w io.Writer, ev *warrant.Evaluation, runID string, plotImages map[string][]byte) error {
	if ev == nil {
		return fmt.Errorf("no evaluation to report")
	}

	pdf := gofpdf.New("L", "mm", "Letter", "") // Landscape, mm, Letter size
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph("Traffic Signal Warrant Analysis: Vehicle Volume Warrants 1-3", "h1", "C")
	styler.writeParagraph(fmt.Sprintf("Run ID: %s", runID), "normal", "C")
	styler.addSpacer(4)

	site := ev.Site
	maj1, maj2 := site.MajorAxis.Major()
	styler.writeParagraph("Site Parameters", "h2", "L")
	styler.writeParagraph(fmt.Sprintf(
		"Major street: %s/%s. Speed limit %s mph, 85th percentile speed %s mph, population %d. "+
			"Approach lanes: major %d, minor %d (evaluated as %s). Area type: %s.",
		maj1, maj2, formatVolume(site.SpeedLimit), formatVolume(site.Speed85th), site.Population,
		site.LanesMajor, site.LanesMinor, ev.Lanes, ev.Area), "normal", "L")
	styler.addSpacer(3)

	sum := ev.Summary
	if sum.Hours > 0 {
		styler.writeParagraph("Daily Volume Summary", "h2", "L")
		styler.writeParagraph(fmt.Sprintf(
			"%d hours counted, %s vehicles in total (%.0f%% on the major street). "+
				"Peak hour ending %s with %s vph combined. Hourly combined volume: mean %.1f, "+
				"std dev %.1f, range %s. The top %d hours carry %.0f%% of the day's combined volume.",
			sum.Hours, formatVolume(sum.TotalVolume), sum.MajorShare*100,
			sum.PeakHour.Label(), formatVolume(sum.PeakHour.Combined), sum.MeanCombined,
			sum.StdDevCombined, formatVolume(sum.RangeCombined), len(ev.Samples), sum.TopHoursShare*100), "normal", "L")
		styler.addSpacer(3)
	}

	styler.writeParagraph("Warrant Outcomes", "h2", "L")
	styler.writeTable(
		[]string{"Warrant", "Criterion", "Volumes", "Result"},
		[]float64{0.3, 0.2, 0.3, 0.2},
		warrantRows(ev),
	)

	if ev.Profile != nil {
		styler.writeParagraph("Hourly Volumes (top 8 hours highlighted)", "h2", "L")
		styler.writeTable(
			[]string{"Hour", "NB", "SB", "EB", "WB", "Major Total", "Minor High", "Combined", "Rank"},
			[]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.13, 0.13, 0.14, 0.1},
			hourlyRows(ev.Profile.Bins, len(ev.Profile.Top)),
		)
	}

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
	}{
		{PlotWarrant2, "Warrant 2: Four-Hour Vehicle Volume", "Top 8 hours plotted against the Four-Hour Vehicle Volume curves"},
		{PlotWarrant3, "Warrant 3: Peak Hour", "Top 8 hours plotted against the Peak Hour curves"},
		{PlotHeatmap, "Hourly Approach Volumes", "Hourly volume by approach"},
	}

	imgWidth := pdfContentWidth * 0.8
	for _, pDef := range plotDefs {
		imgBytes, ok := plotImages[pDef.Key]
		styler.newPage()
		styler.writeParagraph(pDef.Title, "h2", "L")
		if !ok || len(imgBytes) == 0 {
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", pDef.Title), "normal", "L")
			continue
		}
		imgHeight := imgWidth * (450.0 / 800.0)
		if pDef.Key == PlotHeatmap {
			imgHeight = imgWidth * (300.0 / 1000.0)
		}
		styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption, "normal")
	}

	return pdf.Output(w)
}

// BuildPDFReport writes the evaluation report to a PDF file.
func BuildPDFReport(filepath string, ev *warrant.Evaluation, runID string, plotImages map[string][]byte) error {
	var buf bytes.Buffer
	if err := WritePDFReport(&buf, ev, runID, plotImages); err != nil {
		return err
	}
	if err := os.WriteFile(filepath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}
