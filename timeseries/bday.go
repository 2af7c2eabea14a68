package timeseries

import "time"

// Business days are weekdays; holiday calendars are not modeled.

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextBusinessDay returns the first business day strictly after t.
func NextBusinessDay(t time.Time) time.Time {
	return NextBusinessDayOrSame(t.AddDate(0, 0, 1))
}

// NextBusinessDayOrSame rolls t forward to a business day.
func NextBusinessDayOrSame(t time.Time) time.Time {
	for !IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// BusinessDaysAfter returns the n business days immediately following t.
func BusinessDaysAfter(t time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	return BusinessDaysFrom(NextBusinessDay(t), n)
}

// BusinessDaysFrom returns n consecutive business days starting at start,
// rolled forward to a business day if needed.
func BusinessDaysFrom(start time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	d := NextBusinessDayOrSame(start)
	for i := range out {
		out[i] = d
		d = NextBusinessDay(d)
	}
	return out
}

// BusinessDayRange lists the business days from start to end, both inclusive.
func BusinessDayRange(start, end time.Time) []time.Time {
	var out []time.Time
	for d := NextBusinessDayOrSame(start); !d.After(end); d = NextBusinessDay(d) {
		out = append(out, d)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
