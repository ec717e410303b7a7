package core

import "time"

// Period identifies a summary time window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period label from the wire.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return Period(s), nil
	}
	return "", ErrUnknownPeriod
}

// Summary is the derived count/total over one period window.
type Summary struct {
	Total  Money  `json:"total"`
	Count  int    `json:"count"`
	Period Period `json:"period"`
}

// PeriodWindow returns the inclusive [start, end] pair for the period
// containing the reference time. The week runs Sunday through Saturday by
// convention, not locale. Windows are computed in the reference time's
// location so "local midnight" follows the caller's clock.
func PeriodWindow(p Period, now time.Time) (start, end time.Time) {
	loc := now.Location()
	switch p {
	case PeriodWeek:
		day := now.AddDate(0, 0, -int(now.Weekday()))
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 6)
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		last := start.AddDate(0, 1, -1)
		end = time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, loc)
	default: // today
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, loc)
	}
	return start, end
}
