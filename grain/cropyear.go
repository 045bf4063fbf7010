package grain

import "time"

// =============================================================================
// CROP YEAR - Oct 1 through Sep 30, named for the Oct 1 calendar year
// =============================================================================

// CropYear is a harvest fiscal year. Crop year Y runs Oct 1 of year Y
// through Sep 30 of year Y+1.
type CropYear int

// CropYearOf returns the crop year containing a date.
func CropYearOf(t time.Time) CropYear {
	if t.Month() >= time.October {
		return CropYear(t.Year())
	}
	return CropYear(t.Year() - 1)
}

// CurrentCropYear returns the crop year containing today.
func CurrentCropYear() CropYear {
	return CropYearOf(time.Now().UTC())
}

// Start returns Oct 1 of the crop year.
func (y CropYear) Start() time.Time {
	return time.Date(int(y), time.October, 1, 0, 0, 0, 0, time.UTC)
}

// End returns Sep 30 of the following calendar year.
func (y CropYear) End() time.Time {
	return time.Date(int(y)+1, time.September, 30, 0, 0, 0, 0, time.UTC)
}

// Range returns the inclusive [start, end] window of the crop year.
func (y CropYear) Range() (time.Time, time.Time) {
	return y.Start(), y.End()
}

// Contains is an inclusive range test. A nil date is never in a crop year.
func (y CropYear) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	d := atMidnightUTC(*t)
	return !d.Before(y.Start()) && !d.After(y.End())
}

// MonthIndex maps a date to its crop-year month slot: October = 1 through
// September = 12. Returns false if the date is nil or outside the crop year.
func (y CropYear) MonthIndex(t *time.Time) (int, bool) {
	if !y.Contains(t) {
		return 0, false
	}
	m := int(t.Month())
	if m >= 10 {
		return m - 9, true
	}
	return m + 3, true
}

// MonthOfIndex is the inverse mapping, for display: 1 = October, ...,
// 12 = September.
func MonthOfIndex(index int) time.Month {
	if index <= 3 {
		return time.Month(index + 9)
	}
	return time.Month(index - 3)
}

// MonthNameOfIndex returns the display name for a crop-year month slot.
func MonthNameOfIndex(index int) string {
	return MonthOfIndex(index).String()
}

func atMidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
