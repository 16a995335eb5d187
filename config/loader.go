package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/odpf/salt/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	DefaultFilename      = "chronosctl"
	DefaultFileExtension = "yaml"
	DefaultEnvPrefix     = "CHRONOSCTL"
	DefaultConfigDir     = "/etc/chronosctl"
	EmptyPath            = ""
)

var FS = afero.NewReadOnlyFs(afero.NewOsFs())

// LoadSystemConfig loads the system config from these locations:
// 1. filepath. ./chronosctl <command> -c "path/to/chronosctl.yaml"
// 2. env var. eg. CHRONOSCTL_CLUSTER, CHRONOSCTL_CHRONOS_URL, etc
// 3. /etc/chronosctl, then the home dir
// A missing config file is not an error, the accessors of the returned
// config report what is missing.
func LoadSystemConfig(filePath string) (*SystemConfig, error) {
	return loadSystemConfigFs(FS, filePath)
}

func loadSystemConfigFs(fs afero.Fs, filePath string) (*SystemConfig, error) {
	cfg := &SystemConfig{}

	v := viper.New()
	v.SetFs(fs)

	opts := []config.LoaderOption{
		config.WithViper(v),
		config.WithName(DefaultFilename),
		config.WithType(DefaultFileExtension),
		config.WithEnvPrefix(DefaultEnvPrefix),
		config.WithEnvKeyReplacer(".", "_"),
	}

	if filePath != EmptyPath {
		if err := validateFilepath(fs, filePath); err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFile(filePath))
	} else {
		opts = append(opts, config.WithPath(DefaultConfigDir))
		if home, err := os.UserHomeDir(); err == nil {
			opts = append(opts, config.WithPath(home))
		}
	}

	l := config.NewLoader(opts...)
	if err := l.Load(cfg); err != nil {
		if !errors.As(err, &config.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *SystemConfig) applyDefaults() {
	if c.SOADir == "" {
		c.SOADir = DefaultSOADir
	}
	if c.Log.Level == "" {
		c.Log.Level = LogLevelInfo
	}
	if c.Wait.Timeout == 0 {
		c.Wait.Timeout = DefaultWaitTimeout
	}
	if c.Wait.PollInterval == 0 {
		c.Wait.PollInterval = DefaultPollInterval
	}
}

func validateFilepath(fs afero.Fs, fpath string) error {
	f, err := fs.Stat(fpath)
	if err != nil {
		return err
	}
	if !f.Mode().IsRegular() {
		return fmt.Errorf("%s not a file", fpath)
	}
	return nil
}
