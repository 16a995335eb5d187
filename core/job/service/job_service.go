package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/telemetry"
)

const (
	metricJobSetup   = "job_setup_total"
	metricJobRemoved = "job_removed_total"
)

type Compiler interface {
	CompileJob(ctx context.Context, service, jobName string) (*job.JobConfig, *job.CompleteJobSpec, error)
}

type JobService struct {
	l        log.Logger
	compiler Compiler
	client   SchedulerClient

	waitOpts []WaitOption
}

func NewJobService(l log.Logger, compiler Compiler, client SchedulerClient, waitOpts ...WaitOption) *JobService {
	return &JobService{
		l:        l,
		compiler: compiler,
		client:   client,
		waitOpts: waitOpts,
	}
}

type SetupResult struct {
	Spec *job.CompleteJobSpec
	// Submitted is false when the scheduler already runs this exact version
	Submitted bool
	// Bounced are the previous versions that were disabled or removed
	Bounced []string
}

// Setup compiles a job, submits it when the scheduler does not run this
// version yet, waits for it to show up and then bounces older versions of
// the same service instance. Graceful bounces only disable old versions,
// brutal bounces kill their tasks and delete them.
func (s *JobService) Setup(ctx context.Context, service, jobName string) (*SetupResult, error) {
	cfg, spec, err := s.compiler.CompileJob(ctx, service, jobName)
	if err != nil {
		return nil, err
	}

	versions, err := Lookup(ctx, s.client, versionsPattern(service, jobName), LookupOptions{IncludeDisabled: true})
	if err != nil {
		return nil, err
	}

	result := &SetupResult{Spec: spec}
	current, found := findRecord(versions, spec.Name)
	if !found || current.Disabled != spec.Disabled {
		s.l.Info("submitting job [%s]", spec.Name)
		if err := s.client.Add(ctx, spec); err != nil {
			return nil, err
		}
		waitOpts := append([]WaitOption{WithWaitLogger(s.l)}, s.waitOpts...)
		if err := WaitForJob(ctx, s.client, spec.Name, waitOpts...); err != nil {
			return nil, err
		}
		result.Submitted = true
	} else {
		s.l.Info("job [%s] is up to date", spec.Name)
	}

	var old job.Records
	for _, record := range versions {
		if record.Name != spec.Name {
			old = append(old, record)
		}
	}
	bounced, err := s.bounce(ctx, cfg.BounceMethod(), old)
	result.Bounced = bounced

	telemetry.NewCounter(metricJobSetup, map[string]string{
		"service":       service,
		"bounce_method": cfg.BounceMethod().String(),
	}).Inc()
	return result, err
}

func (s *JobService) bounce(ctx context.Context, method job.BounceMethod, old job.Records) ([]string, error) {
	var bounced []string
	var merr error
	for _, record := range old {
		var err error
		switch method {
		case job.BounceBrutal:
			err = s.remove(ctx, record.Name)
		default:
			if record.Disabled {
				continue
			}
			err = s.client.Disable(ctx, record.Name)
		}
		if err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "unable to bounce %s", record.Name))
			continue
		}
		s.l.Info("bounced [%s] (%s)", record.Name, method)
		bounced = append(bounced, record.Name)
	}
	return bounced, merr
}

func (s *JobService) remove(ctx context.Context, name string) error {
	if err := s.client.KillTasks(ctx, name); err != nil {
		return err
	}
	return s.client.Delete(ctx, name)
}

type CleanupResult struct {
	Removed []string
	Failed  []string
}

// Cleanup deletes every job, enabled or not, whose name matches pattern.
// A failed delete does not stop the others, every failure is returned.
func (s *JobService) Cleanup(ctx context.Context, pattern string, maxExpected int) (*CleanupResult, error) {
	matches, err := Lookup(ctx, s.client, pattern, LookupOptions{MaxExpected: maxExpected, IncludeDisabled: true})
	if err != nil {
		return nil, err
	}
	return s.Remove(ctx, matches.Names())
}

// Remove kills the tasks of and deletes each named job
func (s *JobService) Remove(ctx context.Context, names []string) (*CleanupResult, error) {
	result := &CleanupResult{}
	var merr *multierror.Error
	for _, name := range names {
		if err := s.remove(ctx, name); err != nil {
			s.l.Error("unable to remove [%s]: %s", name, err)
			merr = multierror.Append(merr, errors.Wrapf(err, "unable to remove %s", name))
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Removed = append(result.Removed, name)
	}

	telemetry.NewCounter(metricJobRemoved, map[string]string{"status": "success"}).Add(float64(len(result.Removed)))
	telemetry.NewCounter(metricJobRemoved, map[string]string{"status": "failure"}).Add(float64(len(result.Failed)))
	return result, merr.ErrorOrNil()
}

// versionsPattern matches every version of a service instance, including
// the unversioned name
func versionsPattern(service, jobName string) string {
	return fmt.Sprintf("^%s(%s|$)", regexp.QuoteMeta(job.ComposeJobID(service, jobName)), regexp.QuoteMeta(job.Spacer))
}

func findRecord(records job.Records, name string) (job.Record, bool) {
	for _, record := range records {
		if record.Name == name {
			return record, true
		}
	}
	return job.Record{}, false
}
