package models

import (
	"fmt"
	"math"
)

// Rural classification limits.
const (
	RuralSpeedLimitMPH = 40
	RuralPopulation    = 10000
)

// AreaType selects the urban or the reduced (rural) threshold and curve sets.
type AreaType string

const (
	Urban AreaType = "urban"
	Rural AreaType = "rural"
)

// ParseAreaType accepts "urban" or "rural".
func ParseAreaType(s string) (AreaType, error) {
	switch AreaType(s) {
	case Urban, Rural:
		return AreaType(s), nil
	}
	return "", fmt.Errorf("%w: unknown area type %q", ErrUnsupportedConfiguration, s)
}

// IsRural reports whether the rural sets apply.
func (a AreaType) IsRural() bool { return a == Rural }

// ClassifyArea is rural when the governing speed exceeds 40 mph or the
// community population is under 10,000.
func ClassifyArea(speedLimit, speed85th float64, population int) AreaType {
	if math.Max(speedLimit, speed85th) > RuralSpeedLimitMPH || population < RuralPopulation {
		return Rural
	}
	return Urban
}

// LaneConfig is a pair of approach lane counts, each capped to {1,2} before any lookup.
type LaneConfig struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

func (l LaneConfig) String() string {
	return fmt.Sprintf("%dx%d", l.Major, l.Minor)
}

// SiteParameters carries everything about the intersection other than counts.
type SiteParameters struct {
	MajorAxis  Axis    `json:"major_axis"`
	SpeedLimit float64 `json:"speed_limit"` // mph
	Speed85th  float64 `json:"speed_85th"`  // mph
	Population int     `json:"population"`
	LanesMajor int     `json:"lanes_major"`
	LanesMinor int     `json:"lanes_minor"`
}

// AreaType classifies the site from its speeds and population.
func (p SiteParameters) AreaType() AreaType {
	return ClassifyArea(p.SpeedLimit, p.Speed85th, p.Population)
}
