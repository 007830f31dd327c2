package util

import "time"

// ClampMonthStartDay forces day into [1, 28] so every calendar month has the boundary date
func ClampMonthStartDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 28 {
		return 28
	}
	return day
}

// MonthWindow returns the financial month containing ref, shifted by offset whole months
// (0 = current, negative = earlier). A window starts on monthStartDay; when ref's day is
// before monthStartDay the window began in the previous calendar month.
//
// Both bounds are inclusive. end is the first instant of the day before the next window
// starts, so only a transaction stamped exactly at midnight on that last day falls inside.
// Month overflow and underflow are normalized by time.Date, which carries the year.
func MonthWindow(ref time.Time, monthStartDay, offset int) (start, end time.Time) {
	monthStartDay = ClampMonthStartDay(monthStartDay)
	year, month, day := ref.Date()
	if day < monthStartDay {
		month--
	}
	month += time.Month(offset)

	start = time.Date(year, month, monthStartDay, 0, 0, 0, 0, ref.Location())
	end = time.Date(year, month+1, monthStartDay-1, 0, 0, 0, 0, ref.Location())
	return start, end
}

// InWindow reports whether t lies within [start, end]
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// MonthLabel formats a window start as "Jan 2024"
func MonthLabel(start time.Time) string {
	return start.Format("Jan 2006")
}
