package job

import (
	"reflect"
)

const (
	DefaultEpsilon      = "PT60S"
	DefaultRetries      = 2
	DefaultBounceMethod = BounceGraceful
)

// JobConfig is the typed view of one job entry of a service's scheduler
// config. It is validated once, when constructed, and never mutated.
type JobConfig struct {
	serviceName string
	jobName     string
	configDict  map[string]interface{}
	branch      BranchConfig

	InstanceConfig

	schedule         *string
	scheduleTimeZone *string
	epsilon          string
	retries          int
	disabled         bool
	bounceMethod     BounceMethod
	constraints      interface{}
	description      string
	defaultOwner     string

	invalid    map[string]interface{}
	validation ValidationResult
}

type ConfigOption func(*JobConfig)

// WithDefaultOwner sets the owner used when the job config has no
// monitoring team of its own, usually the service's team.
func WithDefaultOwner(team string) ConfigOption {
	return func(c *JobConfig) {
		c.defaultOwner = team
	}
}

func NewJobConfig(serviceName, jobName string, configDict map[string]interface{}, branch BranchConfig,
	opts ...ConfigOption) *JobConfig {
	if configDict == nil {
		configDict = map[string]interface{}{}
	}
	c := &JobConfig{
		serviceName:    serviceName,
		jobName:        jobName,
		configDict:     configDict,
		branch:         branch,
		InstanceConfig: NewInstanceConfig(configDict),
		epsilon:        DefaultEpsilon,
		retries:        DefaultRetries,
		bounceMethod:   DefaultBounceMethod,
		invalid:        map[string]interface{}{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if raw, ok := configDict["schedule"]; ok && raw != nil {
		if v, ok := raw.(string); ok {
			c.schedule = &v
		} else {
			c.invalid["schedule"] = raw
		}
	}
	if raw, ok := configDict["scheduleTimeZone"]; ok && raw != nil {
		if v, ok := raw.(string); ok {
			c.scheduleTimeZone = &v
		} else {
			c.invalid["scheduleTimeZone"] = raw
		}
	}
	if raw, ok := configDict["epsilon"]; ok {
		if v, ok := raw.(string); ok {
			c.epsilon = v
		} else {
			c.invalid["epsilon"] = raw
		}
	}
	if raw, ok := configDict["retries"]; ok && raw != nil {
		if v, ok := toInt(raw); ok {
			c.retries = v
		} else {
			c.invalid["retries"] = raw
		}
	}
	if raw, ok := configDict["disabled"]; ok && raw != nil {
		if v, ok := raw.(bool); ok {
			c.disabled = v
		} else {
			c.invalid["disabled"] = raw
		}
	}
	if raw, ok := configDict["bounce_method"]; ok {
		if v, ok := raw.(string); ok {
			c.bounceMethod = BounceMethod(v)
		} else {
			c.invalid["bounce_method"] = raw
		}
	}
	if raw, ok := configDict["description"]; ok && raw != nil {
		if v, ok := raw.(string); ok {
			c.description = v
		}
	}
	c.constraints = configDict["constraints"]

	c.validation = c.runValidation()
	return c
}

func (c *JobConfig) ServiceName() string {
	return c.serviceName
}

func (c *JobConfig) JobName() string {
	return c.jobName
}

// ConfigDict returns the raw mapping the config was built from
func (c *JobConfig) ConfigDict() map[string]interface{} {
	return c.configDict
}

func (c *JobConfig) Branch() BranchConfig {
	return c.branch
}

func (c *JobConfig) DockerImage() string {
	return c.branch.DockerImage
}

func (c *JobConfig) DesiredState() DesiredState {
	return c.branch.DesiredState
}

// Schedule returns the raw schedule string, empty if unset
func (c *JobConfig) Schedule() string {
	if c.schedule == nil {
		return ""
	}
	return *c.schedule
}

func (c *JobConfig) ScheduleTimeZone() string {
	if c.scheduleTimeZone == nil {
		return ""
	}
	return *c.scheduleTimeZone
}

func (c *JobConfig) Epsilon() string {
	return c.epsilon
}

func (c *JobConfig) Retries() int {
	return c.retries
}

func (c *JobConfig) Disabled() bool {
	return c.disabled
}

func (c *JobConfig) BounceMethod() BounceMethod {
	return c.bounceMethod
}

func (c *JobConfig) Constraints() interface{} {
	return c.constraints
}

func (c *JobConfig) Description() string {
	return c.description
}

// Owner is the monitoring team of the job, falling back to the default owner
func (c *JobConfig) Owner() string {
	if team, ok := c.Monitoring()["team"]; ok && team != "" {
		return team
	}
	return c.defaultOwner
}

// Shell is true when no arguments are configured. The scheduler ignores
// arguments of shell jobs, so a job with arguments must not run in a shell.
func (c *JobConfig) Shell() bool {
	return len(c.Args()) == 0
}

// Validate returns the result computed when the config was constructed
func (c *JobConfig) Validate() ValidationResult {
	return c.validation
}

// Equal compares service, job, raw config and branch config
func (c *JobConfig) Equal(other *JobConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.serviceName == other.serviceName &&
		c.jobName == other.jobName &&
		reflect.DeepEqual(c.configDict, other.configDict) &&
		c.branch == other.branch
}
