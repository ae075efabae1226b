package horizon

import (
	"errors"
	"reflect"
	"testing"

	"HorizonSim/internal/domain/models"
)

func days(points []models.SubHorizonPoint) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Days
	}
	return out
}

func TestSwingTradeFiltersAboveMagnitude(t *testing.T) {
	// magnitude 5: candidates {2,3,5} survive (7 excluded), exact point 5
	// already present.
	points, err := BuildSubHorizons(models.SwingTrade, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := days(points), []int{2, 3, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("days = %v, want %v", got, want)
	}
}

func TestSwingTradeIncludesExactSelection(t *testing.T) {
	points, err := BuildSubHorizons(models.SwingTrade, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := days(points), []int{2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("days = %v, want %v", got, want)
	}
}

func TestPositionTradeCompaction(t *testing.T) {
	// magnitude 26: all six candidate weeks survive, compaction keeps
	// indices [0, 2, 4, 5] -> 1, 4, 13, 26 weeks.
	points, err := BuildSubHorizons(models.PositionTrade, 26)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := days(points), []int{7, 28, 91, 182}; !reflect.DeepEqual(got, want) {
		t.Errorf("days = %v, want %v", got, want)
	}
	wantLabels := []string{"1 week", "4 weeks", "13 weeks", "26 weeks"}
	for i, p := range points {
		if p.Label != wantLabels[i] {
			t.Errorf("label[%d] = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
}

func TestLongTermCompaction(t *testing.T) {
	// magnitude 60: seven candidates survive, keep [0, 2, 4, 6].
	points, err := BuildSubHorizons(models.LongTerm, 60)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := days(points), []int{30, 180, 720, 1800}; !reflect.DeepEqual(got, want) {
		t.Errorf("days = %v, want %v", got, want)
	}
}

func TestBuildSubHorizonsProperties(t *testing.T) {
	// For every valid (category, magnitude): non-empty, strictly increasing,
	// at most 4 points, and the exact conversion of magnitude is present.
	cases := []struct {
		category  models.HorizonCategory
		magnitude float64
	}{
		{models.SwingTrade, 2},
		{models.SwingTrade, 3.5},
		{models.SwingTrade, 7},
		{models.PositionTrade, 1},
		{models.PositionTrade, 9},
		{models.PositionTrade, 26},
		{models.LongTerm, 6},
		{models.LongTerm, 25},
		{models.LongTerm, 60},
	}
	for _, tc := range cases {
		points, err := BuildSubHorizons(tc.category, tc.magnitude)
		if err != nil {
			t.Fatalf("%s/%.1f: %v", tc.category, tc.magnitude, err)
		}
		if len(points) == 0 || len(points) > maxFanPoints {
			t.Fatalf("%s/%.1f: %d points", tc.category, tc.magnitude, len(points))
		}
		for i := 1; i < len(points); i++ {
			if points[i].Days <= points[i-1].Days {
				t.Errorf("%s/%.1f: not strictly increasing: %v", tc.category, tc.magnitude, days(points))
			}
		}
		sel := models.HorizonSelection{Category: tc.category, Magnitude: tc.magnitude}
		exact := sel.HorizonDays()
		found := false
		for _, p := range points {
			if p.Days == exact {
				found = true
			}
		}
		if !found {
			t.Errorf("%s/%.1f: exact point %dd missing from %v", tc.category, tc.magnitude, exact, days(points))
		}
	}
}

func TestBuildSubHorizonsIsPure(t *testing.T) {
	a, err := BuildSubHorizons(models.PositionTrade, 13)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildSubHorizons(models.PositionTrade, 13)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated build differs: %v vs %v", a, b)
	}
}

func TestBuildSubHorizonsRejectsDayTrade(t *testing.T) {
	if _, err := BuildSubHorizons(models.DayTrade, 4); !errors.Is(err, ErrDayTradeFan) {
		t.Errorf("got %v, want ErrDayTradeFan", err)
	}
}

func TestBuildSubHorizonsRejectsUnknownCategory(t *testing.T) {
	if _, err := BuildSubHorizons(models.HorizonCategory("scalp"), 4); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("got %v, want ErrUnknownCategory", err)
	}
}

func TestFanPointsDayTradeSingleCard(t *testing.T) {
	points, err := FanPoints(models.HorizonSelection{Category: models.DayTrade, Magnitude: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].Label != "4 hours" || points[0].Days != 1 {
		t.Errorf("point = %+v, want 4 hours over 1 day", points[0])
	}
}

func TestFanPointsDayTradeSingularUnit(t *testing.T) {
	points, err := FanPoints(models.HorizonSelection{Category: models.DayTrade, Magnitude: 1})
	if err != nil {
		t.Fatal(err)
	}
	if points[0].Label != "1 hour" {
		t.Errorf("label = %q, want %q", points[0].Label, "1 hour")
	}
}

func TestFanPointsDelegatesToBuild(t *testing.T) {
	points, err := FanPoints(models.HorizonSelection{Category: models.SwingTrade, Magnitude: 5})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := days(points), []int{2, 3, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("days = %v, want %v", got, want)
	}
}
