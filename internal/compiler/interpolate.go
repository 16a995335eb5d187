package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/odpf/chronosctl/internal/errors"
)

// unixEpochOrdinal is the proleptic Gregorian ordinal of 1970-01-01,
// where 0001-01-01 is day 1.
const unixEpochOrdinal = 719163

var variablePattern = regexp.MustCompile(`^([a-z_]+)([+-]\d+)?$`)

type timeVariable func(ref time.Time, delta int) string

func formatShifted(layout string, shift func(time.Time, int) time.Time) timeVariable {
	return func(ref time.Time, delta int) string {
		return shift(ref, delta).Format(layout)
	}
}

func addYears(t time.Time, n int) time.Time  { return t.AddDate(n, 0, 0) }
func addMonths(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) }
func addDays(t time.Time, n int) time.Time   { return t.AddDate(0, 0, n) }
func addHours(t time.Time, n int) time.Time  { return t.Add(time.Duration(n) * time.Hour) }
func addMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}
func addSeconds(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Second)
}

// timeVariables maps every supported placeholder to its renderer. The
// optional +N/-N suffix is applied in the variable's own unit.
var timeVariables = map[string]timeVariable{
	"year":      formatShifted("2006", addYears),
	"month":     formatShifted("01", addMonths),
	"day":       formatShifted("02", addDays),
	"hour":      formatShifted("15", addHours),
	"minute":    formatShifted("04", addMinutes),
	"second":    formatShifted("05", addSeconds),
	"shortdate": formatShifted(ISODateFormat, addDays),
	"run_date":  formatShifted(ISODateFormat, addDays),
	"ym":        formatShifted("2006-01", addMonths),
	"ymd":       formatShifted(ISODateFormat, addDays),
	"ymdh":      formatShifted("2006-01-02T15", addHours),
	"ymdhm":     formatShifted("2006-01-02T15:04", addMinutes),
	"run_time":  formatShifted("2006-01-02T15:04:05", addSeconds),
	"unixtime": func(ref time.Time, delta int) string {
		return strconv.FormatInt(ref.Unix()+int64(delta), 10)
	},
	"daynumber": func(ref time.Time, delta int) string {
		return strconv.FormatInt(dayOrdinal(ref)+int64(delta), 10)
	},
}

func dayOrdinal(t time.Time) int64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix()/int64(24*time.Hour/time.Second) + unixEpochOrdinal
}

// Interpolate replaces %(name)s placeholders in template with values
// derived from ref. "%%" renders a literal percent sign and any other
// percent sign is copied through untouched. An empty template is
// returned unchanged.
func Interpolate(template string, ref time.Time) (string, error) {
	if template == "" {
		return template, nil
	}

	var out strings.Builder
	out.Grow(len(template))
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 == len(template) {
			out.WriteByte(c)
			continue
		}

		switch template[i+1] {
		case '%':
			out.WriteByte('%')
			i++
		case '(':
			end := strings.IndexByte(template[i+2:], ')')
			if end < 0 {
				return "", errors.InvalidArgument(EntityCompiler,
					fmt.Sprintf("unterminated placeholder in %q", template))
			}
			name := template[i+2 : i+2+end]
			conv := i + 2 + end + 1
			if conv >= len(template) || (template[conv] != 's' && template[conv] != 'd') {
				return "", errors.InvalidArgument(EntityCompiler,
					fmt.Sprintf("placeholder %%(%s) is missing its conversion in %q", name, template))
			}
			value, err := resolveVariable(name, ref)
			if err != nil {
				return "", err
			}
			out.WriteString(value)
			i = conv
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}

func resolveVariable(expr string, ref time.Time) (string, error) {
	match := variablePattern.FindStringSubmatch(strings.TrimSpace(expr))
	if match == nil {
		return "", errors.InvalidArgument(EntityCompiler, fmt.Sprintf("unknown time variable %q", expr))
	}
	render, ok := timeVariables[match[1]]
	if !ok {
		return "", errors.InvalidArgument(EntityCompiler, fmt.Sprintf("unknown time variable %q", expr))
	}

	delta := 0
	if match[2] != "" {
		n, err := strconv.Atoi(match[2])
		if err != nil {
			return "", errors.InvalidArgument(EntityCompiler, fmt.Sprintf("invalid offset in %q", expr))
		}
		delta = n
	}
	return render(ref, delta), nil
}
