package utils

import (
	"time"
)

const (
	DisplayDateTime = "02 Jan 2006, 03:04 PM"
	DisplayDate     = "02 Jan 2006"
)

// IST is the business timezone. Storage is UTC; all calendar math happens here.
var IST = loadZone("Asia/Kolkata")

func loadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// SetTimezone switches the business timezone. An unknown name keeps the current one.
func SetTimezone(name string) {
	if name == "" {
		return
	}
	if loc, err := time.LoadLocation(name); err == nil {
		IST = loc
	} else {
		ErrorLogger.Warnf("unknown timezone %q, keeping %s", name, IST)
	}
}

func NowIST() time.Time {
	return time.Now().In(IST)
}

func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

func FormatIST(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return ToIST(*t).Format(DisplayDateTime)
}

// StartOfDay truncates to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday midnight of t's week.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DateRange returns the half-open local interval for a named period:
// today, yesterday, week, month or year. Anything else means today.
func DateRange(period string, now time.Time) (start, end time.Time) {
	now = now.In(IST)
	switch period {
	case "yesterday":
		end = StartOfDay(now)
		start = end.AddDate(0, 0, -1)
	case "week":
		start = StartOfWeek(now)
		end = start.AddDate(0, 0, 7)
	case "month":
		start = StartOfMonth(now)
		end = start.AddDate(0, 1, 0)
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, IST)
		end = start.AddDate(1, 0, 0)
	default:
		start = StartOfDay(now)
		end = start.AddDate(0, 0, 1)
	}
	return start, end
}
