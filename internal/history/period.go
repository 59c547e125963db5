package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period selects a window of the ledger relative to now.
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ErrUnknownPeriod is returned for period names other than hour, day, week, month and all.
var ErrUnknownPeriod = errors.New("unknown history period")

// ParsePeriod accepts a period name, case-insensitively. Empty means all.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PeriodAll, nil
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Cutoff returns the instant entries must be strictly after to fall in p.
// bounded is false for PeriodAll. Day starts at local midnight of now.
func Cutoff(p Period, now time.Time) (cutoff time.Time, bounded bool, err error) {
	switch p {
	case PeriodHour:
		return now.Add(-time.Hour), true, nil
	case PeriodDay:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true, nil
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour), true, nil
	case PeriodMonth:
		return now.Add(-30 * 24 * time.Hour), true, nil
	case PeriodAll, "":
		return time.Time{}, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
}
