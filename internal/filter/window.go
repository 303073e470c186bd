package filter

import "time"

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths advances t by n calendar months. When the source day does
// not exist in the target month (Jan 31 + 1 month), the result clamps
// to the last valid day of the target month instead of rolling into
// the following one.
func AddMonths(t time.Time, n int) time.Time {
	y := t.Year()
	m := int(t.Month()) - 1 + n
	y += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)

	d := t.Day()
	if max := daysInMonth(y, month); d > max {
		d = max
	}

	return time.Date(
		y, month, d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		t.Location(),
	)
}
