package util

import "time"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// IsHistoricalMonth returns true if the given year/month is before the current month
func IsHistoricalMonth(year, month int) bool {
	now := time.Now()
	currentYear := now.Year()
	currentMonth := int(now.Month())

	if year < currentYear {
		return true
	}
	if year == currentYear && month < currentMonth {
		return true
	}
	return false
}

// MonthBounds returns the first instant of the month and the first instant
// of the following month, i.e. [start, end) covers every date in the month.
func MonthBounds(year, month int, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// DaysInMonth returns the number of days in the given year/month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayToMonth clamps a day-of-month to the last valid day of year/month,
// used when a configured payment-due-day exceeds a short month's length.
func ClampDayToMonth(year, month, day int) int {
	max := DaysInMonth(year, month)
	if day > max {
		return max
	}
	if day < 1 {
		return 1
	}
	return day
}

// FirstDayOfPreviousMonth returns the first day of the month before today's
// month, in today's location.
func FirstDayOfPreviousMonth(today time.Time) time.Time {
	y, m := PreviousMonth(today.Year(), int(today.Month()))
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, today.Location())
}

// FirstDayOfPreviousPreviousMonth returns the first day of the month two
// months before today's month — the boundary the delinquency classifier (C9)
// uses to separate "orange" from "red".
func FirstDayOfPreviousPreviousMonth(today time.Time) time.Time {
	y, m := PreviousMonth(today.Year(), int(today.Month()))
	y, m = PreviousMonth(y, m)
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, today.Location())
}
