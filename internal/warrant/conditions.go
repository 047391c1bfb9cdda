package warrant

import (
	"fmt"
	"maps"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// ThresholdPair is a (major total, higher minor approach) volume threshold.
// Both volumes must strictly exceed it.
type ThresholdPair struct {
	Major float64
	Minor float64
}

// ExceededBy reports whether both volumes are strictly above the pair.
func (t ThresholdPair) ExceededBy(major, minor float64) bool {
	return major > t.Major && minor > t.Minor
}

// ThresholdEntry holds the Warrant 1 thresholds for one configuration. The
// combination pairs are stored as published rather than derived from A and B.
type ThresholdEntry struct {
	ConditionA   ThresholdPair
	ConditionB   ThresholdPair
	CombinationA ThresholdPair
	CombinationB ThresholdPair
}

// ConditionTable maps each configuration to its Warrant 1 thresholds.
type ConditionTable map[ConfigKey]ThresholdEntry

// warrant1Table is the Eight-Hour Vehicle Volume table (urban 100% columns,
// rural 70% columns; combinations at 80% of each, rounded as published).
var warrant1Table = ConditionTable{
	{Lanes: models.LaneConfig{Major: 1, Minor: 1}, Area: models.Urban}: {
		ConditionA: ThresholdPair{500, 150}, ConditionB: ThresholdPair{750, 75},
		CombinationA: ThresholdPair{400, 120}, CombinationB: ThresholdPair{600, 60},
	},
	{Lanes: models.LaneConfig{Major: 1, Minor: 1}, Area: models.Rural}: {
		ConditionA: ThresholdPair{350, 105}, ConditionB: ThresholdPair{525, 53},
		CombinationA: ThresholdPair{280, 84}, CombinationB: ThresholdPair{420, 42},
	},
	{Lanes: models.LaneConfig{Major: 2, Minor: 1}, Area: models.Urban}: {
		ConditionA: ThresholdPair{600, 150}, ConditionB: ThresholdPair{900, 75},
		CombinationA: ThresholdPair{480, 120}, CombinationB: ThresholdPair{720, 60},
	},
	{Lanes: models.LaneConfig{Major: 2, Minor: 1}, Area: models.Rural}: {
		ConditionA: ThresholdPair{420, 105}, ConditionB: ThresholdPair{630, 53},
		CombinationA: ThresholdPair{336, 84}, CombinationB: ThresholdPair{504, 42},
	},
	{Lanes: models.LaneConfig{Major: 2, Minor: 2}, Area: models.Urban}: {
		ConditionA: ThresholdPair{600, 200}, ConditionB: ThresholdPair{900, 100},
		CombinationA: ThresholdPair{480, 160}, CombinationB: ThresholdPair{720, 80},
	},
	{Lanes: models.LaneConfig{Major: 2, Minor: 2}, Area: models.Rural}: {
		ConditionA: ThresholdPair{420, 140}, ConditionB: ThresholdPair{630, 70},
		CombinationA: ThresholdPair{336, 112}, CombinationB: ThresholdPair{504, 56},
	},
	{Lanes: models.LaneConfig{Major: 1, Minor: 2}, Area: models.Urban}: {
		ConditionA: ThresholdPair{500, 200}, ConditionB: ThresholdPair{750, 100},
		CombinationA: ThresholdPair{400, 160}, CombinationB: ThresholdPair{600, 80},
	},
	{Lanes: models.LaneConfig{Major: 1, Minor: 2}, Area: models.Rural}: {
		ConditionA: ThresholdPair{350, 140}, ConditionB: ThresholdPair{525, 70},
		CombinationA: ThresholdPair{280, 112}, CombinationB: ThresholdPair{420, 56},
	},
}

// Warrant1Table returns a copy of the published Eight-Hour Vehicle Volume
// table. Changes to the copy do not affect other callers.
func Warrant1Table() ConditionTable {
	return maps.Clone(warrant1Table)
}

// Lookup returns the entry for a configuration.
func (t ConditionTable) Lookup(key ConfigKey) (ThresholdEntry, error) {
	entry, ok := t[key]
	if !ok {
		return ThresholdEntry{}, fmt.Errorf("%w: no Warrant 1 thresholds for %s", models.ErrUnsupportedConfiguration, key)
	}
	return entry, nil
}

// Warrant1Outcome is the result of the ordered Warrant 1 decision sequence.
type Warrant1Outcome struct {
	ConditionA  bool
	ConditionB  bool
	Combination bool
}

// step is one stage of the Warrant 1 sequence; it reports whether it holds.
type step func(entry ThresholdEntry, major, minor float64) bool

func conditionA(e ThresholdEntry, major, minor float64) bool {
	return e.ConditionA.ExceededBy(major, minor)
}

func conditionB(e ThresholdEntry, major, minor float64) bool {
	return e.ConditionB.ExceededBy(major, minor)
}

func combination(e ThresholdEntry, major, minor float64) bool {
	return e.CombinationA.ExceededBy(major, minor) && e.CombinationB.ExceededBy(major, minor)
}

// Evaluate runs Condition A, then Condition B only if A fails, then the
// combination only if both fail. The first stage that holds ends the
// sequence, so later stages are reported false even if they would hold.
func (t ConditionTable) Evaluate(laneMajor, laneMinor int, major, minor float64, rural bool) (Warrant1Outcome, error) {
	if err := (models.Sample{Major: major, Minor: minor}).Validate(); err != nil {
		return Warrant1Outcome{}, err
	}
	entry, err := t.Lookup(NewConfigKey(laneMajor, laneMinor, rural))
	if err != nil {
		return Warrant1Outcome{}, err
	}

	var out Warrant1Outcome
	sequence := []struct {
		holds step
		set   *bool
	}{
		{conditionA, &out.ConditionA},
		{conditionB, &out.ConditionB},
		{combination, &out.Combination},
	}
	for _, s := range sequence {
		if s.holds(entry, major, minor) {
			*s.set = true
			break
		}
	}
	return out, nil
}
