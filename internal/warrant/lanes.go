// Package warrant evaluates the volume-based traffic signal warrants:
// Warrant 1 (Eight-Hour Vehicle Volume) against lane and area indexed
// threshold tables, and Warrants 2 (Four-Hour Vehicle Volume) and 3 (Peak
// Hour) against fitted minor-street volume curves.
//
// Every lookup is keyed by a ConfigKey: the capped lane pair plus the area
// type. The published tables are unexported package data; Warrant1Table,
// Warrant2Curves and Warrant3Curves hand out copies, and an Engine keeps its
// own copies, so an Engine can be shared between goroutines.
package warrant

import (
	"fmt"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// MaxLanes is the largest lane count the tables distinguish; wider approaches
// use the two-lane entries.
const MaxLanes = 2

// ResolveLanes caps raw approach lane counts to the supported {1,2} domain.
func ResolveLanes(major, minor int) (models.LaneConfig, error) {
	if major < 1 || minor < 1 {
		return models.LaneConfig{}, fmt.Errorf("%w: lane counts must be at least 1, got major=%d minor=%d", models.ErrInvalidConfiguration, major, minor)
	}
	return models.LaneConfig{Major: min(major, MaxLanes), Minor: min(minor, MaxLanes)}, nil
}

// ConfigKey indexes every warrant table.
type ConfigKey struct {
	Lanes models.LaneConfig
	Area  models.AreaType
}

func (k ConfigKey) String() string {
	return fmt.Sprintf("%s/%s", k.Lanes, k.Area)
}

// NewConfigKey builds a key from already-capped lanes.
func NewConfigKey(laneMajor, laneMinor int, rural bool) ConfigKey {
	area := models.Urban
	if rural {
		area = models.Rural
	}
	return ConfigKey{Lanes: models.LaneConfig{Major: laneMajor, Minor: laneMinor}, Area: area}
}

// AllConfigKeys lists the eight supported lane/area combinations.
func AllConfigKeys() []ConfigKey {
	keys := make([]ConfigKey, 0, 8)
	for _, area := range []models.AreaType{models.Urban, models.Rural} {
		for _, lanes := range []models.LaneConfig{{Major: 1, Minor: 1}, {Major: 2, Minor: 1}, {Major: 1, Minor: 2}, {Major: 2, Minor: 2}} {
			keys = append(keys, ConfigKey{Lanes: lanes, Area: area})
		}
	}
	return keys
}
