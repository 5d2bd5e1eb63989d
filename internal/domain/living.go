package domain

import (
	"fmt"
	"strings"
	"time"
)

// Level grades an area's cost or a spending habit against the national average.
type Level string

const (
	LevelVeryLittle      Level = "very_little"
	LevelVeryLow         Level = "very_low"
	LevelLessThanAverage Level = "less_than_average"
	LevelAverage         Level = "average"
	LevelAboveAverage    Level = "above_average"
	LevelVeryHigh        Level = "very_high"
)

// Valid reports whether l is a known level. The empty level means average.
func (l Level) Valid() bool {
	switch l {
	case "", LevelVeryLittle, LevelVeryLow, LevelLessThanAverage, LevelAverage, LevelAboveAverage, LevelVeryHigh:
		return true
	}
	return false
}

// OrAverage returns l, or average when l is empty.
func (l Level) OrAverage() Level {
	if l == "" {
		return LevelAverage
	}
	return l
}

// SpendingPreference grades how much a user spends in each cost category.
type SpendingPreference struct {
	Housing Level `json:"housing" yaml:"housing"`
	Food    Level `json:"food" yaml:"food"`
	Leisure Level `json:"leisure" yaml:"leisure"`
	Travel  Level `json:"travel" yaml:"travel"`
}

// Validate checks every category level.
func (p SpendingPreference) Validate() error {
	for field, l := range map[string]Level{
		"spending.housing": p.Housing,
		"spending.food":    p.Food,
		"spending.leisure": p.Leisure,
		"spending.travel":  p.Travel,
	} {
		if !l.Valid() {
			return NewInvalidInputError(field, "unknown level %q", l)
		}
	}
	return nil
}

// LocationPeriod is where the user lives over an inclusive range of years.
type LocationPeriod struct {
	State     string `json:"state" yaml:"state"`
	AreaLevel Level  `json:"area_level" yaml:"area_level"`
	StartYear int    `json:"start_year" yaml:"start_year"`
	EndYear   int    `json:"end_year" yaml:"end_year"`
}

// Covers reports whether year falls inside the period.
func (l LocationPeriod) Covers(year int) bool {
	return year >= l.StartYear && year <= l.EndYear
}

// Label renders the period as "State (area level)".
func (l LocationPeriod) Label() string {
	return fmt.Sprintf("%s (%s)", l.State, strings.ReplaceAll(string(l.AreaLevel.OrAverage()), "_", " "))
}

// ParseLocationLabel splits a Label back into its state and area level. A
// bare state name has an average area level.
func ParseLocationLabel(label string) (string, Level) {
	label = strings.TrimSpace(label)
	state, rest, ok := strings.Cut(label, " (")
	if !ok {
		return label, LevelAverage
	}
	level := strings.TrimSuffix(rest, ")")
	return state, Level(strings.ReplaceAll(level, " ", "_"))
}

// LivingPlan is the location history and spending habits that drive the
// cost side of an income timeline.
type LivingPlan struct {
	Owner     string             `json:"owner" yaml:"-"`
	Locations []LocationPeriod   `json:"locations" yaml:"locations"`
	Spending  SpendingPreference `json:"spending" yaml:"spending"`
	UpdatedAt time.Time          `json:"updated_at,omitempty" yaml:"-"`
}

// LocationFor returns the first period covering year.
func (p LivingPlan) LocationFor(year int) (LocationPeriod, bool) {
	for _, l := range p.Locations {
		if l.Covers(year) {
			return l, true
		}
	}
	return LocationPeriod{}, false
}
