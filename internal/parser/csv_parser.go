package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// locateColumns maps each approach name to its index in the header row.
func locateColumns(header []string) (map[models.Direction]int, error) {
	cols := make(map[models.Direction]int, len(models.Directions))
	for i, name := range header {
		d := models.Direction(strings.ToUpper(strings.TrimSpace(name)))
		for _, want := range models.Directions {
			if d == want {
				if _, dup := cols[d]; dup {
					return nil, fmt.Errorf("duplicate column %q in header", name)
				}
				cols[d] = i
			}
		}
	}
	var missing []string
	for _, d := range models.Directions {
		if _, ok := cols[d]; !ok {
			missing = append(missing, string(d))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header is missing approach column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// isBlankRow reports whether every field of the row is empty.
func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ParseIntervalCounts reads a CSV count sheet with NB, SB, EB and WB columns.
func ParseIntervalCounts(filepath string) (*ParsedVolumeData, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ParseIntervalCountsReader(file)
}

// ParseIntervalCountsReader parses count rows from r. The first non-blank row
// is the header; other columns (a time stamp, for example) are ignored.
// Blank cells count as zero and unreadable cells become NaN so that
// aggregation rejects them; both are reported in ParseErrors.
func ParseIntervalCountsReader(r io.Reader) (*ParsedVolumeData, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	parsedData := NewParsedVolumeData()

	headerSeen := false
	rowIdx := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV data: %w", err)
		}
		rowIdx++

		if len(row) == 0 || isBlankRow(row) {
			continue
		}

		if !headerSeen {
			cols, err := locateColumns(row)
			if err != nil {
				return nil, fmt.Errorf("CSV row %d: %w", rowIdx, err)
			}
			parsedData.Columns = cols
			headerSeen = true
			continue
		}

		var interval models.IntervalCount
		values := make(map[models.Direction]float64, len(models.Directions))
		for _, d := range models.Directions {
			col := parsedData.Columns[d]
			if col >= len(row) {
				parsedData.ParseErrors = append(parsedData.ParseErrors, fmt.Sprintf("Warning: CSV row %d has no %s value. Counted as 0.", rowIdx, d))
				values[d] = 0
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				parsedData.ParseErrors = append(parsedData.ParseErrors, fmt.Sprintf("Warning: CSV row %d, %s is blank. Counted as 0.", rowIdx, d))
				values[d] = 0
				continue
			}
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				parsedData.ParseErrors = append(parsedData.ParseErrors, fmt.Sprintf("Error converting value '%s' for %s, CSV row %d. Using NaN. Error: %v", cell, d, rowIdx, err))
				val = math.NaN()
			}
			values[d] = val
		}
		interval.NB = values[models.Northbound]
		interval.SB = values[models.Southbound]
		interval.EB = values[models.Eastbound]
		interval.WB = values[models.Westbound]
		parsedData.Intervals = append(parsedData.Intervals, interval)
	}

	if !headerSeen {
		return nil, fmt.Errorf("CSV contains no header row")
	}
	if len(parsedData.Intervals) == 0 {
		parsedData.ParseErrors = append(parsedData.ParseErrors, "Warning: No interval rows found.")
	}

	return parsedData, nil
}
