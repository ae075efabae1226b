package horizon

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"HorizonSim/internal/domain/models"
)

// maxFanPoints caps the fan chart at four cards regardless of how coarse or
// fine the slider value is.
const maxFanPoints = 4

var (
	ErrUnknownCategory = errors.New("horizon: unknown category")
	ErrDayTradeFan     = errors.New("horizon: day trade has no sub-horizon fan")
)

// Candidate day-counts per category, in the category's native unit.
var (
	swingDays      = []int{2, 3, 5, 7}
	positionWeeks  = []int{1, 2, 4, 8, 13, 26}
	longTermMonths = []int{1, 3, 6, 12, 24, 36, 60}
)

// BuildSubHorizons returns the bounded, strictly increasing list of
// representative day-counts to simulate for a (category, magnitude) pair.
//
// Candidates at or below the magnitude are kept and unioned with the exact
// selection; when more than four survive, a deterministic order-preserving
// down-sample keeps [first, n/3, 2n/3, last]. The exact selection is always
// the largest day-count, so it survives compaction and the result is never
// empty.
//
// Magnitudes below the category minimum are rejected by HorizonSelection
// validation before this is reached. DayTrade never gets a fan.
func BuildSubHorizons(category models.HorizonCategory, magnitude float64) ([]models.SubHorizonPoint, error) {
	if category == models.DayTrade {
		return nil, ErrDayTradeFan
	}
	bounds, ok := category.Bounds()
	if !ok {
		return nil, ErrUnknownCategory
	}

	var candidates []int
	switch category {
	case models.SwingTrade:
		candidates = swingDays
	case models.PositionTrade:
		candidates = positionWeeks
	case models.LongTerm:
		candidates = longTermMonths
	}

	exactDays := unitToDays(magnitude, bounds.UnitToDays)

	points := make([]models.SubHorizonPoint, 0, len(candidates)+1)
	seen := make(map[int]bool, len(candidates)+1)
	for _, units := range candidates {
		if float64(units) > magnitude {
			continue
		}
		d := unitToDays(float64(units), bounds.UnitToDays)
		if seen[d] {
			continue
		}
		seen[d] = true
		points = append(points, models.SubHorizonPoint{
			Label: unitLabel(float64(units), bounds.Unit),
			Days:  d,
		})
	}
	if !seen[exactDays] {
		points = append(points, models.SubHorizonPoint{
			Label: unitLabel(magnitude, bounds.Unit),
			Days:  exactDays,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Days < points[j].Days })

	if n := len(points); n > maxFanPoints {
		points = []models.SubHorizonPoint{
			points[0],
			points[n/3],
			points[2*n/3],
			points[n-1],
		}
	}
	return points, nil
}

// FanPoints returns the simulation points for a validated selection.
// DayTrade has no fan chart: it simulates a single card at the selection
// itself.
func FanPoints(sel models.HorizonSelection) ([]models.SubHorizonPoint, error) {
	if sel.Category == models.DayTrade {
		b, ok := sel.Category.Bounds()
		if !ok {
			return nil, ErrUnknownCategory
		}
		return []models.SubHorizonPoint{{
			Label: unitLabel(sel.Magnitude, b.Unit),
			Days:  sel.HorizonDays(),
		}}, nil
	}
	return BuildSubHorizons(sel.Category, sel.Magnitude)
}

func unitToDays(units, factor float64) int {
	d := int(math.Round(units * factor))
	if d < 1 {
		d = 1
	}
	return d
}

func unitLabel(units float64, unit string) string {
	singular := unit[:len(unit)-1] // "days" -> "day"
	v := fmt.Sprintf("%g", units)
	if units == 1 {
		return v + " " + singular
	}
	return v + " " + unit
}
