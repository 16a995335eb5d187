package config

import (
	"time"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
)

const EntityConfig = "config"

const (
	DefaultSOADir       = "/nail/etc/services"
	DefaultWaitTimeout  = 10 * time.Minute
	DefaultPollInterval = 500 * time.Millisecond
)

const (
	LogLevelDebug   = "DEBUG"
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
	LogLevelFatal   = "FATAL"
)

// SystemConfig is the per host configuration: which cluster this host
// belongs to, where images and service configs live and how to reach the
// scheduler. Required settings are only checked when they are read.
type SystemConfig struct {
	ClusterName   string        `mapstructure:"cluster"`
	Registry      string        `mapstructure:"docker_registry"`
	DockerVolumes []job.Volume  `mapstructure:"volumes"`
	SOADir        string        `mapstructure:"soa_dir" default:"/nail/etc/services"`
	Log           LogConfig     `mapstructure:"log"`
	Chronos       ChronosConfig `mapstructure:"chronos"`
	Wait          WaitConfig    `mapstructure:"wait"`
	Metrics       MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level string `mapstructure:"level" default:"INFO"` // log level - debug, info, warning, error, fatal
}

type ChronosConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type WaitConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" default:"10m"`
	PollInterval time.Duration `mapstructure:"poll_interval" default:"500ms"`
}

// MetricsConfig tells where the metrics of a run are exported to once the
// command finishes. Both are optional.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Textfile       string `mapstructure:"textfile"` // path for the node exporter textfile collector
}

func (c *SystemConfig) Cluster() (string, error) {
	return required(c.ClusterName, "cluster")
}

func (c *SystemConfig) DockerRegistry() (string, error) {
	return required(c.Registry, "docker_registry")
}

func (c *SystemConfig) Volumes() []job.Volume {
	return c.DockerVolumes
}

func (c *SystemConfig) ChronosURL() (string, error) {
	return required(c.Chronos.URL, "chronos.url")
}

func (c *SystemConfig) ChronosUser() (string, error) {
	return required(c.Chronos.User, "chronos.user")
}

func (c *SystemConfig) ChronosPassword() (string, error) {
	return required(c.Chronos.Password, "chronos.password")
}

func required(value, key string) (string, error) {
	if value == "" {
		return "", errors.ConfigurationMissing(EntityConfig, "could not find "+key+" in configuration directory")
	}
	return value, nil
}
