package job

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const scheduleSeparator = "/"

// a valid repeat is 'R' or 'Rn' where n is the number of repetitions,
// see https://en.wikipedia.org/wiki/ISO_8601#Repeating_intervals
var repeatPattern = regexp.MustCompile(`^R\d*$`)

// Schedule is an ISO-8601 repeating interval: repeat/start-time/interval
type Schedule struct {
	repeat    string
	startTime string
	interval  string
}

func (s Schedule) Repeat() string {
	return s.repeat
}

func (s Schedule) StartTime() string {
	return s.startTime
}

func (s Schedule) Interval() string {
	return s.interval
}

func (s Schedule) String() string {
	return strings.Join([]string{s.repeat, s.startTime, s.interval}, scheduleSeparator)
}

// Repetitions returns the repeat count. A bare R repeats forever.
func (s Schedule) Repetitions() (int, bool) {
	digits := strings.TrimPrefix(s.repeat, "R")
	if digits == "" {
		return 0, true
	}
	count, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return count, false
}

// SplitSchedule only checks that the raw string has exactly three parts.
// The parts themselves are checked by the job config validation.
func SplitSchedule(raw string) (Schedule, error) {
	parts := strings.Split(raw, scheduleSeparator)
	if len(parts) != 3 { //nolint:gomnd
		return Schedule{}, fmt.Errorf("schedule %q must have the form repeat/start-time/interval", raw)
	}
	return Schedule{repeat: parts[0], startTime: parts[1], interval: parts[2]}, nil
}

// Next returns the first fire time strictly after the given time. The
// boolean is false when the schedule has no further runs.
func (s Schedule) Next(after time.Time) (time.Time, bool, error) {
	start, err := ParseDateTime(s.startTime)
	if err != nil {
		return time.Time{}, false, err
	}
	interval, err := ParseDuration(s.interval)
	if err != nil {
		return time.Time{}, false, err
	}

	count, infinite := s.Repetitions()
	if !infinite && count == 0 {
		return time.Time{}, false, nil
	}
	if after.Before(start) {
		return start, true, nil
	}
	if !addDuration(start, interval, 1).After(start) {
		return time.Time{}, false, nil
	}

	var n int
	if hasCalendarComponent(interval) {
		n = 1
		for !addDuration(start, interval, n).After(after) {
			n++
		}
	} else {
		step := addDuration(start, interval, 1).Sub(start)
		n = int(after.Sub(start)/step) + 1
	}

	if !infinite && n >= count {
		return time.Time{}, false, nil
	}
	return addDuration(start, interval, n), true, nil
}
