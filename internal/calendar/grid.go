package calendar

import (
	"time"

	"github.com/dentalcenter/practice-api/internal/civil"
)

// ViewMode selects how many cells a grid renders.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
)

// MonthGridSize is fixed at six full weeks so the grid shape never changes as
// months roll over; leading and trailing days belong to adjacent months.
const MonthGridSize = 42

// WeekGridSize is a single Sunday-to-Saturday row.
const WeekGridSize = 7

// startOfWeek returns the Sunday on or before d.
func startOfWeek(d civil.Date) civil.Date {
	return d.AddDays(-int(d.Weekday()))
}

// MonthGrid returns the 42 consecutive days displayed for ref's month,
// starting at the Sunday on or before the first of the month.
func MonthGrid(ref civil.Date) []civil.Date {
	first := civil.Date{Year: ref.Year, Month: ref.Month, Day: 1}
	day := startOfWeek(first)

	days := make([]civil.Date, 0, MonthGridSize)
	for i := 0; i < MonthGridSize; i++ {
		days = append(days, day)
		day = day.AddDays(1)
	}
	return days
}

// WeekGrid returns the 7 days of ref's week, starting on Sunday.
func WeekGrid(ref civil.Date) []civil.Date {
	day := startOfWeek(ref)

	days := make([]civil.Date, 0, WeekGridSize)
	for i := 0; i < WeekGridSize; i++ {
		days = append(days, day)
		day = day.AddDays(1)
	}
	return days
}

// Grid dispatches on the view mode, defaulting to month.
func Grid(ref civil.Date, mode ViewMode) []civil.Date {
	if mode == ViewWeek {
		return WeekGrid(ref)
	}
	return MonthGrid(ref)
}

// Navigate moves the reference date one step in the given direction: a month
// in month view, seven days in week view. There is no bound on how far the
// caller can navigate.
func Navigate(ref civil.Date, mode ViewMode, forward bool) civil.Date {
	step := 1
	if !forward {
		step = -1
	}
	if mode == ViewWeek {
		return ref.AddDays(7 * step)
	}
	return ref.AddMonths(step)
}

// InMonth reports whether day falls in ref's displayed month, used to
// de-emphasize the leading/trailing cells.
func InMonth(day, ref civil.Date) bool {
	return day.Year == ref.Year && day.Month == ref.Month
}

// IsToday reports whether day is the current calendar day.
func IsToday(day civil.Date, now func() time.Time) bool {
	if now == nil {
		now = time.Now
	}
	return day == civil.FromTime(now())
}
