package internal

import (
	"net/http"
	"time"

	"github.com/odpf/salt/log"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/afero"

	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/config"
	"github.com/odpf/chronosctl/core/job/service"
	"github.com/odpf/chronosctl/ext/scheduler/chronos"
	"github.com/odpf/chronosctl/internal/telemetry"
	"github.com/odpf/chronosctl/store/local"
)

const (
	chronosRequestTimeout = time.Minute
	metricsPushTimeout    = 10 * time.Second

	metricsJobName = "chronosctl"
)

// Dependencies are the collaborators shared by the job commands, built
// from the system config of the host
type Dependencies struct {
	metricsClient push.HTTPDoer

	Config     *config.SystemConfig
	Logger     log.Logger
	Repository *local.SOAConfigRepository
	Scheduler  *chronos.Client
	Compiler   *service.CompilerService
	Jobs       *service.JobService
}

// NewDependencies loads and validates the system config and wires the
// soa-configs repository, the chronos client and the job services. Commands
// that talk to chronos set withScheduler, which makes the chronos url, user
// and password required.
func NewDependencies(configFilePath string, withScheduler bool) (*Dependencies, error) {
	conf, err := config.LoadSystemConfig(configFilePath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(conf); err != nil {
		return nil, err
	}
	return newDependencies(conf, afero.NewOsFs(), &http.Client{Timeout: chronosRequestTimeout}, withScheduler)
}

func newDependencies(conf *config.SystemConfig, fs afero.Fs, httpClient chronos.HTTPClient, withScheduler bool) (*Dependencies, error) {
	var endpoint chronosEndpoint
	if withScheduler {
		var err error
		if endpoint, err = chronosEndpointFrom(conf); err != nil {
			return nil, err
		}
	}

	l := logger.NewClientLogger(conf.Log.Level)
	repo := local.NewSOAConfigRepository(fs, conf.SOADir)
	scheduler := chronos.NewClient(httpClient, endpoint.url, endpoint.user, endpoint.password)
	compiler := service.NewCompilerService(l, conf, repo)
	jobs := service.NewJobService(l, compiler, scheduler,
		service.WithTimeout(conf.Wait.Timeout),
		service.WithPollInterval(conf.Wait.PollInterval),
	)

	return &Dependencies{
		metricsClient: &http.Client{Timeout: metricsPushTimeout},

		Config:     conf,
		Logger:     l,
		Repository: repo,
		Scheduler:  scheduler,
		Compiler:   compiler,
		Jobs:       jobs,
	}, nil
}

type chronosEndpoint struct {
	url      string
	user     string
	password string
}

// chronosEndpointFrom returns the first ConfigurationMissing error of url,
// user and password
func chronosEndpointFrom(conf *config.SystemConfig) (chronosEndpoint, error) {
	url, err := conf.ChronosURL()
	if err != nil {
		return chronosEndpoint{}, err
	}
	user, err := conf.ChronosUser()
	if err != nil {
		return chronosEndpoint{}, err
	}
	password, err := conf.ChronosPassword()
	if err != nil {
		return chronosEndpoint{}, err
	}
	return chronosEndpoint{url: url, user: user, password: password}, nil
}

// ExportMetrics records the run of command and exports the metrics to the
// configured pushgateway and textfile. Export failures are only logged.
func (d *Dependencies) ExportMetrics(command string) {
	telemetry.NewGauge("last_run_timestamp_seconds", map[string]string{"command": command}).SetToCurrentTime()

	metrics := d.Config.Metrics
	if metrics.PushgatewayURL != "" {
		grouping := map[string]string{}
		if d.Config.ClusterName != "" {
			grouping["cluster"] = d.Config.ClusterName
		}
		if err := telemetry.Push(metrics.PushgatewayURL, metricsJobName, grouping, d.metricsClient); err != nil {
			d.Logger.Warn("unable to push metrics to [%s]: %s", metrics.PushgatewayURL, err)
		}
	}
	if metrics.Textfile != "" {
		if err := telemetry.WriteTextfile(metrics.Textfile); err != nil {
			d.Logger.Warn("unable to write metrics to [%s]: %s", metrics.Textfile, err)
		}
	}
}
