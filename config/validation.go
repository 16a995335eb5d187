package config

import (
	"errors"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/odpf/chronosctl/core/job"
)

var volumeModes = []interface{}{"RO", "RW"}

// Validate checks the loaded config for values that are present but wrong.
// Missing required values are reported by the accessors when used.
func Validate(conf *SystemConfig) error {
	if conf == nil {
		return errors.New("config is empty")
	}
	return validation.ValidateStruct(conf,
		nestedFields(&conf.Log,
			validation.Field(&conf.Log.Level, validation.By(validateLogLevel)),
		),
		validation.Field(&conf.DockerVolumes, validation.Each(validation.By(validateVolume))),
		nestedFields(&conf.Wait,
			validation.Field(&conf.Wait.Timeout, validation.Min(0)),
			validation.Field(&conf.Wait.PollInterval, validation.Min(0)),
		),
	)
}

func validateLogLevel(value interface{}) error {
	level, _ := value.(string)
	return validation.Validate(strings.ToUpper(level), validation.In(
		LogLevelDebug,
		LogLevelInfo,
		LogLevelWarning,
		LogLevelError,
		LogLevelFatal,
	))
}

func validateVolume(value interface{}) error {
	volume, ok := value.(job.Volume)
	if !ok {
		return errors.New("can't convert value to volume")
	}
	return validation.ValidateStruct(&volume,
		validation.Field(&volume.ContainerPath, validation.Required),
		validation.Field(&volume.HostPath, validation.Required),
		validation.Field(&volume.Mode, validation.Required, validation.In(volumeModes...)),
	)
}

// ozzo-validation helper for nested validation struct
// https://github.com/go-ozzo/ozzo-validation/issues/136
func nestedFields(target interface{}, fieldRules ...*validation.FieldRules) *validation.FieldRules {
	return validation.Field(target, validation.By(func(value interface{}) error {
		valueV := reflect.Indirect(reflect.ValueOf(value))
		if valueV.CanAddr() {
			addr := valueV.Addr().Interface()
			return validation.ValidateStruct(addr, fieldRules...)
		}
		return validation.ValidateStruct(target, fieldRules...)
	}))
}
