package service

import (
	"context"
	"fmt"
	"time"

	"github.com/odpf/salt/log"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
	"github.com/odpf/chronosctl/internal/telemetry"
)

const metricJobCompile = "job_compile_total"

type CompilerService struct {
	l            log.Logger
	systemConfig SystemConfig
	jobReader    JobConfigReader

	now func() time.Time
}

func NewCompilerService(l log.Logger, systemConfig SystemConfig, jobReader JobConfigReader) *CompilerService {
	return &CompilerService{
		l:            l,
		systemConfig: systemConfig,
		jobReader:    jobReader,
		now:          time.Now,
	}
}

// CreateCompleteConfig loads, validates and compiles one job of a service
// into the payload submitted to the scheduler. The payload is named with
// its version tag and the deployment's desired state is applied last, so
// starting or stopping a job does not change its version.
func (s *CompilerService) CreateCompleteConfig(ctx context.Context, service, jobName string) (*job.CompleteJobSpec, error) {
	_, spec, err := s.CompileJob(ctx, service, jobName)
	return spec, err
}

// CompileJob is CreateCompleteConfig that also returns the job config the
// payload was compiled from
func (s *CompilerService) CompileJob(ctx context.Context, service, jobName string) (*job.JobConfig, *job.CompleteJobSpec, error) {
	cfg, spec, err := s.compile(ctx, service, jobName)
	status := "success"
	if err != nil {
		status = "failure"
	}
	telemetry.NewCounter(metricJobCompile, map[string]string{
		"service": service,
		"status":  status,
	}).Inc()
	return cfg, spec, err
}

func (s *CompilerService) compile(ctx context.Context, service, jobName string) (*job.JobConfig, *job.CompleteJobSpec, error) {
	cluster, err := s.systemConfig.Cluster()
	if err != nil {
		return nil, nil, err
	}
	registry, err := s.systemConfig.DockerRegistry()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := s.jobReader.LoadJobConfig(ctx, service, jobName, cluster)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DockerImage() == "" {
		return nil, nil, errors.NotFound(job.EntityJob,
			fmt.Sprintf("no docker image is deployed for %s%s%s in cluster %s", service, job.InternalSpacer, jobName, cluster))
	}
	dockerURL := registry + "/" + cfg.DockerImage()

	spec, err := job.FormatJobSpec(cfg, dockerURL, s.systemConfig.Volumes(), s.now())
	if err != nil {
		return nil, nil, err
	}

	tag, err := job.VersionTag(dockerURL, *spec)
	if err != nil {
		return nil, nil, err
	}
	spec.Name = job.ComposeJobID(service, jobName, tag)
	job.ApplyDesiredState(spec, cfg.DesiredState())

	s.l.Debug("compiled job [%s] with image [%s]", spec.Name, dockerURL)
	return cfg, spec, nil
}
