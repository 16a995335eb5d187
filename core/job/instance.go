package job

import (
	"fmt"
	"sort"
)

const (
	DefaultCPUs = 0.25
	DefaultMem  = 1024.0
)

// InstanceConfig holds the fields shared by every instance type: resources,
// command line and environment. Job configs embed it by composition.
type InstanceConfig struct {
	cpus       float64
	mem        float64
	cmd        string
	args       []string
	env        map[string]string
	monitoring map[string]string

	// decode failures keyed by field, rendered by the Check* methods
	invalid map[string]interface{}
}

func NewInstanceConfig(configDict map[string]interface{}) InstanceConfig {
	i := InstanceConfig{
		cpus:    DefaultCPUs,
		mem:     DefaultMem,
		invalid: map[string]interface{}{},
	}

	if raw, ok := configDict["cpus"]; ok {
		if v, ok := toFloat(raw); ok {
			i.cpus = v
		} else {
			i.invalid["cpus"] = raw
		}
	}
	if raw, ok := configDict["mem"]; ok {
		if v, ok := toFloat(raw); ok {
			i.mem = v
		} else {
			i.invalid["mem"] = raw
		}
	}
	if raw, ok := configDict["cmd"]; ok && raw != nil {
		if v, ok := raw.(string); ok {
			i.cmd = v
		} else {
			i.invalid["cmd"] = raw
		}
	}
	if raw, ok := configDict["args"]; ok && raw != nil {
		if v, ok := toStringSlice(raw); ok {
			i.args = v
		} else {
			i.invalid["args"] = raw
		}
	}
	if raw, ok := configDict["env"]; ok && raw != nil {
		if v, ok := toStringMap(raw); ok {
			i.env = v
		} else {
			i.invalid["env"] = raw
		}
	}
	if raw, ok := configDict["monitoring"]; ok && raw != nil {
		if v, ok := toStringMap(raw); ok {
			i.monitoring = v
		} else {
			i.invalid["monitoring"] = raw
		}
	}
	return i
}

func (i InstanceConfig) CPUs() float64 {
	return i.cpus
}

func (i InstanceConfig) Mem() float64 {
	return i.mem
}

func (i InstanceConfig) Cmd() string {
	return i.cmd
}

func (i InstanceConfig) Args() []string {
	return i.args
}

func (i InstanceConfig) Env() map[string]string {
	return i.env
}

func (i InstanceConfig) Monitoring() map[string]string {
	return i.monitoring
}

func (i InstanceConfig) CheckCPUs() (bool, string) {
	return i.checkType("cpus", "a valid float")
}

func (i InstanceConfig) CheckMem() (bool, string) {
	return i.checkType("mem", "a valid float")
}

func (i InstanceConfig) CheckCmd() (bool, string) {
	return i.checkType("cmd", "a valid string")
}

func (i InstanceConfig) CheckArgs() (bool, string) {
	return i.checkType("args", "a valid list of strings")
}

func (i InstanceConfig) CheckEnv() (bool, string) {
	return i.checkType("env", "a valid mapping of strings")
}

func (i InstanceConfig) CheckMonitoring() (bool, string) {
	return i.checkType("monitoring", "a valid mapping of strings")
}

// Validate runs every shared field check and returns the failure messages
func (i InstanceConfig) Validate() []string {
	var msgs []string
	for _, check := range []func() (bool, string){
		i.CheckCPUs, i.CheckMem, i.CheckCmd, i.CheckArgs, i.CheckEnv, i.CheckMonitoring,
	} {
		if ok, msg := check(); !ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (i InstanceConfig) checkType(field, expected string) (bool, string) {
	raw, ok := i.invalid[field]
	if !ok {
		return true, ""
	}
	return false, fmt.Sprintf("The specified %s value \"%v\" is not %s.", field, raw, expected)
}

// EnvironmentVariables translates the env mapping into the name/value list
// the scheduler expects, sorted by name.
func (i InstanceConfig) EnvironmentVariables() []EnvironmentVariable {
	keys := make([]string, 0, len(i.env))
	for k := range i.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := make([]EnvironmentVariable, 0, len(keys))
	for _, k := range keys {
		vars = append(vars, EnvironmentVariable{Name: k, Value: i.env[k]})
	}
	return vars
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func toInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	}
	return 0, false
}

func toStringSlice(raw interface{}) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func toStringMap(raw interface{}) (map[string]string, bool) {
	out := map[string]string{}
	switch v := raw.(type) {
	case map[string]string:
		for k, val := range v {
			out[k] = val
		}
	case map[string]interface{}:
		for k, val := range v {
			out[k] = fmt.Sprint(val)
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			out[fmt.Sprint(k)] = fmt.Sprint(val)
		}
	default:
		return nil, false
	}
	return out, true
}
