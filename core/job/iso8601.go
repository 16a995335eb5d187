package job

import (
	"errors"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

var (
	ErrEmptyDuration   = errors.New("duration is empty")
	ErrNoDurationValue = errors.New("duration has no date or time component")
	ErrNoTimeZone      = errors.New("datetime has no time zone designator")
	ErrInvalidDateTime = errors.New("datetime is not in a supported ISO 8601 format")
)

var zonedDateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15Z07:00",
	"20060102T150405Z07:00",
	"20060102T150405Z0700",
	"20060102T150405Z07",
}

var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"20060102T150405",
}

// ParseDuration parses an ISO-8601 duration such as PT60S or P1DT12H.
// Bare designators like P or PT carry no component and are rejected.
func ParseDuration(value string) (*duration.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrEmptyDuration
	}
	d, err := duration.Parse(value)
	if err != nil {
		return nil, err
	}
	if !strings.ContainsAny(value, "0123456789") {
		return nil, ErrNoDurationValue
	}
	return d, nil
}

// ParseDateTime parses an ISO-8601 datetime that carries an explicit
// offset or the Z designator. A well formed datetime without a zone
// returns ErrNoTimeZone, anything else ErrInvalidDateTime.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range zonedDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localDateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return time.Time{}, ErrNoTimeZone
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// addDuration shifts t by n times d. Calendar components are applied with
// AddDate so months and years keep their calendar meaning.
func addDuration(t time.Time, d *duration.Duration, n int) time.Time {
	sign := 1
	if d.Negative {
		sign = -1
	}
	n *= sign
	days := int(d.Weeks)*7 + int(d.Days)
	clock := time.Duration(d.Hours*float64(time.Hour)) +
		time.Duration(d.Minutes*float64(time.Minute)) +
		time.Duration(d.Seconds*float64(time.Second))
	return t.AddDate(int(d.Years)*n, int(d.Months)*n, days*n).Add(clock * time.Duration(n))
}

func hasCalendarComponent(d *duration.Duration) bool {
	return d.Years != 0 || d.Months != 0 || d.Weeks != 0 || d.Days != 0
}
