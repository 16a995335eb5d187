package service

import (
	"context"

	"github.com/odpf/chronosctl/core/job"
)

// JobLister is the read side of the scheduler used by discovery and waiting
type JobLister interface {
	List(ctx context.Context) (job.Records, error)
}

type SchedulerClient interface {
	JobLister
	Add(ctx context.Context, spec *job.CompleteJobSpec) error
	Disable(ctx context.Context, name string) error
	KillTasks(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}

type SystemConfig interface {
	Cluster() (string, error)
	DockerRegistry() (string, error)
	Volumes() []job.Volume
}

type JobConfigReader interface {
	LoadJobConfig(ctx context.Context, service, jobName, cluster string) (*job.JobConfig, error)
}
