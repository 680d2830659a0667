package timezone

import (
	"time"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

const DefaultTimezone = "UTC"

// Clock is injected wherever "now" matters so tests can pin it.
type Clock func() time.Time

func SystemClock() Clock {
	return time.Now
}

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func NowIn(clock Clock, tz string) time.Time {
	return clock().In(Location(tz))
}

// ParseDate reads a YYYY-MM-DD calendar day in the shop's timezone and
// returns it as midnight UTC, the form stored in the date column.
func ParseDate(s, tz string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, Location(tz))
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "appointment_date must be YYYY-MM-DD")
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}
