package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownCategory     = errors.New("unknown horizon category")
	ErrMagnitudeOutOfRange = errors.New("magnitude out of category range")
)

// HorizonCategory is a coarse trading-style bucket (day/swing/position/long-term).
type HorizonCategory string

const (
	DayTrade      HorizonCategory = "day_trade"
	SwingTrade    HorizonCategory = "swing_trade"
	PositionTrade HorizonCategory = "position_trade"
	LongTerm      HorizonCategory = "long_term"
)

// CategoryBounds describes the slider range for a category in its native unit.
type CategoryBounds struct {
	Unit       string  `json:"unit"` // "hours", "days", "weeks", "months"
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Default    float64 `json:"default"`
	UnitToDays float64 `json:"unit_to_days"`
}

var categoryBounds = map[HorizonCategory]CategoryBounds{
	DayTrade:      {Unit: "hours", Min: 1, Max: 24, Default: 4, UnitToDays: 1.0 / 24.0},
	SwingTrade:    {Unit: "days", Min: 2, Max: 7, Default: 3, UnitToDays: 1},
	PositionTrade: {Unit: "weeks", Min: 1, Max: 26, Default: 4, UnitToDays: 7},
	LongTerm:      {Unit: "months", Min: 6, Max: 60, Default: 12, UnitToDays: 30},
}

// Bounds returns the static bounds for a category.
// The second return is false for an unknown category.
func (c HorizonCategory) Bounds() (CategoryBounds, bool) {
	b, ok := categoryBounds[c]
	return b, ok
}

// Valid reports whether the category is one of the four known buckets.
func (c HorizonCategory) Valid() bool {
	_, ok := categoryBounds[c]
	return ok
}

// DefaultMagnitude returns the category default in its native unit.
func (c HorizonCategory) DefaultMagnitude() float64 {
	return categoryBounds[c].Default
}

// AllCategories lists categories in increasing horizon order for UI rendering.
func AllCategories() []HorizonCategory {
	return []HorizonCategory{DayTrade, SwingTrade, PositionTrade, LongTerm}
}

// HorizonSelection is an immutable (category, magnitude) pair chosen either by
// the classifier (auto-skip) or interactively by the user.
type HorizonSelection struct {
	Category  HorizonCategory `json:"category"`
	Magnitude float64         `json:"magnitude"`
}

// Validate checks the magnitude against the category bounds.
func (s HorizonSelection) Validate() error {
	b, ok := s.Category.Bounds()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, s.Category)
	}
	if s.Magnitude < b.Min || s.Magnitude > b.Max {
		return fmt.Errorf("%w: %.1f not in [%.0f, %.0f] %s for %s",
			ErrMagnitudeOutOfRange, s.Magnitude, b.Min, b.Max, b.Unit, s.Category)
	}
	return nil
}

// HorizonDays converts the selection to whole trading days.
// Sub-day selections round up to a single day so a valid selection never
// produces a zero-day simulation.
func (s HorizonSelection) HorizonDays() int {
	b, _ := s.Category.Bounds()
	d := int(math.Round(s.Magnitude * b.UnitToDays))
	if d < 1 {
		d = 1
	}
	return d
}
