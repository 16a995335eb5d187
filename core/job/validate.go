package job

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	internalErrors "github.com/odpf/chronosctl/internal/errors"
)

type ValidationError struct {
	Field   string
	Message string
}

func (v ValidationError) Error() string {
	return v.Message
}

// ValidationResult carries every failed check of a job config, in the
// order the checks ran.
type ValidationResult struct {
	errs []ValidationError
}

func (r ValidationResult) OK() bool {
	return len(r.errs) == 0
}

func (r ValidationResult) Errors() []ValidationError {
	return r.errs
}

func (r ValidationResult) Messages() []string {
	msgs := make([]string, len(r.errs))
	for i, e := range r.errs {
		msgs[i] = e.Message
	}
	return msgs
}

// Err returns nil for a passing result, an InvalidJobConfig error
// wrapping every message otherwise.
func (r ValidationResult) Err(jobID string) error {
	if r.OK() {
		return nil
	}
	me := internalErrors.NewMultiError("validation failed")
	for _, e := range r.errs {
		me.Append(e)
	}
	return internalErrors.InvalidJobConfig(EntityJob, fmt.Sprintf("config of %s is not valid", jobID), me)
}

type fieldCheck func(c *JobConfig) []string

// validationOrder is the fixed order in which fields are checked
var validationOrder = []string{
	"bounce_method",
	"epsilon",
	"retries",
	"disabled",
	"cpus",
	"mem",
	"cmd",
	"args",
	"env",
	"monitoring",
	"schedule",
	"scheduleTimeZone",
}

var fieldChecks = map[string]fieldCheck{
	"bounce_method":    (*JobConfig).checkBounceMethod,
	"epsilon":          (*JobConfig).checkEpsilon,
	"retries":          (*JobConfig).checkRetries,
	"disabled":         (*JobConfig).checkDisabled,
	"schedule":         (*JobConfig).checkSchedule,
	"scheduleTimeZone": (*JobConfig).checkScheduleTimeZone,
	"cpus":             instanceCheck(InstanceConfig.CheckCPUs),
	"mem":              instanceCheck(InstanceConfig.CheckMem),
	"cmd":              instanceCheck(InstanceConfig.CheckCmd),
	"args":             instanceCheck(InstanceConfig.CheckArgs),
	"env":              instanceCheck(InstanceConfig.CheckEnv),
	"monitoring":       instanceCheck(InstanceConfig.CheckMonitoring),
}

var supportedParamsWithoutChecks = map[string]bool{
	"description": true,
	"command":     true,
	"owner":       true,
	"constraints": true,
}

var isISODuration = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	_, err := ParseDuration(s)
	return err
})

func instanceCheck(check func(InstanceConfig) (bool, string)) fieldCheck {
	return func(c *JobConfig) []string {
		if ok, msg := check(c.InstanceConfig); !ok {
			return []string{msg}
		}
		return nil
	}
}

// Check runs the check of a single parameter. Parameters outside the
// supported set fail with a message naming them.
func (c *JobConfig) Check(param string) (bool, string) {
	if check, ok := fieldChecks[param]; ok {
		msgs := check(c)
		return len(msgs) == 0, strings.Join(msgs, "\n")
	}
	if supportedParamsWithoutChecks[param] {
		return true, ""
	}
	return false, unsupportedParamMessage(param)
}

func (c *JobConfig) runValidation() ValidationResult {
	var result ValidationResult
	for _, param := range validationOrder {
		for _, msg := range fieldChecks[param](c) {
			result.errs = append(result.errs, ValidationError{Field: param, Message: msg})
		}
	}

	var unsupported []string
	for key := range c.configDict {
		if _, ok := fieldChecks[key]; ok {
			continue
		}
		if supportedParamsWithoutChecks[key] {
			continue
		}
		unsupported = append(unsupported, key)
	}
	sort.Strings(unsupported)
	for _, key := range unsupported {
		result.errs = append(result.errs, ValidationError{Field: key, Message: unsupportedParamMessage(key)})
	}
	return result
}

func unsupportedParamMessage(param string) string {
	return fmt.Sprintf("Your Chronos config specifies \"%s\", an unsupported parameter.", param)
}

func (c *JobConfig) checkBounceMethod() []string {
	value := c.invalid["bounce_method"]
	if value == nil {
		value = c.bounceMethod.String()
	}
	accepted := make([]interface{}, len(ValidBounceMethods))
	names := make([]string, len(ValidBounceMethods))
	for i, m := range ValidBounceMethods {
		accepted[i] = m.String()
		names[i] = m.String()
	}

	if err := validation.Validate(value, validation.Required, validation.In(accepted...)); err != nil {
		return []string{fmt.Sprintf("The specified bounce method \"%v\" is invalid. It must be one of (%s).",
			value, strings.Join(names, ", "))}
	}
	return nil
}

func (c *JobConfig) checkEpsilon() []string {
	if raw, ok := c.invalid["epsilon"]; ok {
		return []string{fmt.Sprintf("The specified epsilon value \"%v\" does not conform to the ISO8601 format.", raw)}
	}
	if err := validation.Validate(c.epsilon, validation.Required, isISODuration); err != nil {
		return []string{fmt.Sprintf("The specified epsilon value \"%s\" does not conform to the ISO8601 format.", c.epsilon)}
	}
	return nil
}

func (c *JobConfig) checkRetries() []string {
	if raw, ok := c.invalid["retries"]; ok {
		return []string{fmt.Sprintf("The specified retries value \"%v\" is not a valid int.", raw)}
	}
	if err := validation.Validate(c.retries, validation.Min(0)); err != nil {
		return []string{fmt.Sprintf("The specified retries value \"%d\" must not be negative.", c.retries)}
	}
	return nil
}

func (c *JobConfig) checkDisabled() []string {
	if raw, ok := c.invalid["disabled"]; ok {
		return []string{fmt.Sprintf("The specified disabled value \"%v\" is not a valid bool.", raw)}
	}
	return nil
}

func (c *JobConfig) checkSchedule() []string {
	if raw, ok := c.invalid["schedule"]; ok {
		return []string{fmt.Sprintf("The specified schedule \"%v\" is invalid", raw)}
	}
	if c.schedule == nil {
		return []string{"You must specify a \"schedule\" in your configuration"}
	}

	raw := *c.schedule
	schedule, err := SplitSchedule(raw)
	if err != nil {
		return []string{fmt.Sprintf("The specified schedule \"%s\" is invalid", raw)}
	}

	var msgs []string
	// the scheduler accepts an empty start time as "now", we require it to be explicit
	if schedule.StartTime() == "" {
		msgs = append(msgs, fmt.Sprintf("The specified schedule \"%s\" does not contain a start time", raw))
	} else if _, err := ParseDateTime(schedule.StartTime()); err != nil {
		if errors.Is(err, ErrNoTimeZone) {
			msgs = append(msgs, fmt.Sprintf("The specified start time \"%s\" must contain a time zone", schedule.StartTime()))
		} else {
			msgs = append(msgs, fmt.Sprintf("The specified start time \"%s\" in schedule \"%s\" "+
				"does not conform to the ISO 8601 format.", schedule.StartTime(), raw))
		}
	}

	if err := validation.Validate(schedule.Interval(), validation.Required, isISODuration); err != nil {
		msgs = append(msgs, fmt.Sprintf("The specified interval \"%s\" in schedule \"%s\" "+
			"does not conform to the ISO 8601 format.", schedule.Interval(), raw))
	}

	if err := validation.Validate(schedule.Repeat(), validation.Required, validation.Match(repeatPattern)); err != nil {
		msgs = append(msgs, fmt.Sprintf("The specified repeat \"%s\" in schedule \"%s\" "+
			"does not conform to the ISO 8601 format.", schedule.Repeat(), raw))
	}
	return msgs
}

// checkScheduleTimeZone accepts any string. The tz database name is passed
// through to the scheduler untouched.
func (c *JobConfig) checkScheduleTimeZone() []string {
	if raw, ok := c.invalid["scheduleTimeZone"]; ok {
		return []string{fmt.Sprintf("The specified scheduleTimeZone value \"%v\" is not a valid string.", raw)}
	}
	return nil
}
