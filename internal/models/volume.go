// Package models defines the domain entities shared by the aggregation and
// warrant packages: directional interval counts, hourly bins, site parameters
// and warrant outcomes. Every value is built fresh per evaluation run and is
// not mutated afterwards.
package models

import (
	"fmt"
	"math"
	"strings"
)

// Direction names one of the four approach columns of a count sheet.
type Direction string

const (
	Northbound Direction = "NB"
	Southbound Direction = "SB"
	Eastbound  Direction = "EB"
	Westbound  Direction = "WB"
)

// Directions lists the approach columns in sheet order.
var Directions = []Direction{Northbound, Southbound, Eastbound, Westbound}

// Axis selects which pair of opposing approaches forms the major street.
type Axis string

const (
	AxisNS Axis = "NS"
	AxisEW Axis = "EW"
)

// ParseAxis accepts "NS"/"EW" (and the approach-style spellings "NB/SB", "EB/WB").
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NS", "NB/SB", "NB", "SB":
		return AxisNS, nil
	case "EW", "EB/WB", "EB", "WB":
		return AxisEW, nil
	}
	return "", fmt.Errorf("%w: unrecognized major axis %q", ErrInvalidConfiguration, s)
}

// Major returns the two approaches forming the major street.
func (a Axis) Major() (Direction, Direction) {
	if a == AxisEW {
		return Eastbound, Westbound
	}
	return Northbound, Southbound
}

// Minor returns the two approaches forming the minor street.
func (a Axis) Minor() (Direction, Direction) {
	if a == AxisEW {
		return Northbound, Southbound
	}
	return Eastbound, Westbound
}

// Validate reports whether the axis is one of the two supported values.
func (a Axis) Validate() error {
	if a != AxisNS && a != AxisEW {
		return fmt.Errorf("%w: unrecognized major axis %q", ErrInvalidConfiguration, string(a))
	}
	return nil
}

// IntervalCount is one fixed-width time slice of directional vehicle counts.
type IntervalCount struct {
	NB float64 `json:"nb"`
	SB float64 `json:"sb"`
	EB float64 `json:"eb"`
	WB float64 `json:"wb"`
}

// Get returns the count for a single approach.
func (c IntervalCount) Get(d Direction) float64 {
	switch d {
	case Northbound:
		return c.NB
	case Southbound:
		return c.SB
	case Eastbound:
		return c.EB
	case Westbound:
		return c.WB
	}
	return 0
}

// Validate rejects negative and non-finite counts.
func (c IntervalCount) Validate() error {
	for _, d := range Directions {
		if !IsVolume(c.Get(d)) {
			return fmt.Errorf("%w: %s count %v must be finite and non-negative", ErrInvalidInput, d, c.Get(d))
		}
	}
	return nil
}

// IsVolume reports whether v is a usable vehicle volume.
func IsVolume(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// HourlyBin is the sum of one hour's worth of consecutive intervals.
type HourlyBin struct {
	Hour      int           `json:"hour"` // 0-based position in the day
	Totals    IntervalCount `json:"totals"`
	MajorSum  float64       `json:"major_sum"`
	MinorHigh float64       `json:"minor_high"`
	Combined  float64       `json:"combined"`
	Rank      int           `json:"rank"` // 1 = highest combined volume
}

// Label is the ending hour of the bin, e.g. "1:00" for the first hour.
func (b HourlyBin) Label() string {
	return fmt.Sprintf("%d:00", b.Hour+1)
}

// Sample returns the (major, minor) pair plotted against the warrant curves.
func (b HourlyBin) Sample() Sample {
	return Sample{Major: b.MajorSum, Minor: b.MinorHigh}
}

// Sample is a single (major street total, higher minor approach) volume pair in vehicles per hour.
type Sample struct {
	Major float64 `json:"major"`
	Minor float64 `json:"minor"`
}

// Validate rejects negative and non-finite volumes.
func (s Sample) Validate() error {
	if !IsVolume(s.Major) {
		return fmt.Errorf("%w: major volume %v must be finite and non-negative", ErrInvalidInput, s.Major)
	}
	if !IsVolume(s.Minor) {
		return fmt.Errorf("%w: minor volume %v must be finite and non-negative", ErrInvalidInput, s.Minor)
	}
	return nil
}
