package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Prague")
	if err != nil {
		panic(err)
	}
}

// DateLayout is the dd.mm.yyyy layout the carrier's booking form expects.
const DateLayout = "02.01.2006"

// force timezone to be in Prague because the carrier's calendar is,
// lambdas running in other regions would otherwise query "today"
// a day early or late around midnight.
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns midnight of the current day in Prague.
func Today() time.Time {
	return StartOfDay(Now())
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateRange returns `count` consecutive calendar days beginning at `start`.
// a count below 1 yields an empty slice.
func DateRange(count int, start time.Time) []time.Time {
	if count < 1 {
		return nil
	}
	start = StartOfDay(start)
	dates := make([]time.Time, count)
	for i := range dates {
		// AddDate rather than adding 24h so DST switches don't skew the day
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
