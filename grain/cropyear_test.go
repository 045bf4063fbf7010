package grain_test

import (
	"testing"
	"time"

	"github.com/harvestline/bushel-engine/grain"
)

func TestCropYearRange(t *testing.T) {
	// Crop year Y runs Oct 1 Y through Sep 30 Y+1.
	for _, year := range []int{1999, 2023, 2024, 2025} {
		start, end := grain.CropYear(year).Range()
		if start.Year() != year || start.Month() != time.October || start.Day() != 1 {
			t.Errorf("crop year %d: start = %v, want Oct 1 %d", year, start, year)
		}
		if end.Year() != year+1 || end.Month() != time.September || end.Day() != 30 {
			t.Errorf("crop year %d: end = %v, want Sep 30 %d", year, end, year+1)
		}
	}
}

func TestCropYearOf(t *testing.T) {
	cases := []struct {
		date time.Time
		want grain.CropYear
	}{
		{time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC), 2024},
	}
	for _, c := range cases {
		if got := grain.CropYearOf(c.date); got != c.want {
			t.Errorf("CropYearOf(%v) = %d, want %d", c.date, got, c.want)
		}
	}
}

func TestCropYearOf_ConsistentWithContains(t *testing.T) {
	// Every date belongs to exactly one crop year's range: its own.
	d := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365*3; i++ {
		date := d.AddDate(0, 0, i)
		year := grain.CropYearOf(date)
		if !year.Contains(&date) {
			t.Fatalf("%v not contained in its own crop year %d", date, year)
		}
		if (year - 1).Contains(&date) || (year + 1).Contains(&date) {
			t.Fatalf("%v contained in a neighboring crop year of %d", date, year)
		}
	}
}

func TestCropYearContains_NilDate(t *testing.T) {
	if grain.CropYear(2024).Contains(nil) {
		t.Error("nil date must never be in a crop year")
	}
}

func TestMonthIndex(t *testing.T) {
	year := grain.CropYear(2024)
	cases := []struct {
		date *time.Time
		want int
	}{
		{grain.DateOf(2024, time.October, 1), 1},
		{grain.DateOf(2024, time.November, 15), 2},
		{grain.DateOf(2024, time.December, 31), 3},
		{grain.DateOf(2025, time.January, 1), 4},
		{grain.DateOf(2025, time.June, 10), 9},
		{grain.DateOf(2025, time.September, 30), 12},
	}
	for _, c := range cases {
		got, ok := year.MonthIndex(c.date)
		if !ok || got != c.want {
			t.Errorf("MonthIndex(%v) = %d,%v, want %d,true", c.date, got, ok, c.want)
		}
	}

	// Outside the window or nil: no index.
	if _, ok := year.MonthIndex(grain.DateOf(2024, time.September, 30)); ok {
		t.Error("date before the crop year must have no month index")
	}
	if _, ok := year.MonthIndex(nil); ok {
		t.Error("nil date must have no month index")
	}
}

func TestMonthOfIndex_InverseOfMonthIndex(t *testing.T) {
	year := grain.CropYear(2024)
	for index := 1; index <= 12; index++ {
		month := grain.MonthOfIndex(index)
		calYear := 2024
		if month < time.October {
			calYear = 2025
		}
		date := grain.DateOf(calYear, month, 15)
		got, ok := year.MonthIndex(date)
		if !ok || got != index {
			t.Errorf("round trip for index %d via %v: got %d,%v", index, month, got, ok)
		}
	}
	if grain.MonthNameOfIndex(1) != "October" || grain.MonthNameOfIndex(12) != "September" {
		t.Error("month display names out of order")
	}
}

func TestParseDate(t *testing.T) {
	cases := []string{"2024-11-15", "11/15/2024", "2024-11-15 00:00:00"}
	for _, raw := range cases {
		d := grain.ParseDate(raw)
		if d == nil || d.Year() != 2024 || d.Month() != time.November || d.Day() != 15 {
			t.Errorf("ParseDate(%q) = %v, want 2024-11-15", raw, d)
		}
	}
	for _, raw := range []string{"", "   ", "not a date", "13/45/2024"} {
		if d := grain.ParseDate(raw); d != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", raw, d)
		}
	}
}
