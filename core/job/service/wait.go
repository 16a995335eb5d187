package service

import (
	"context"
	"fmt"
	"time"

	"github.com/odpf/salt/log"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
)

const DefaultPollInterval = 500 * time.Millisecond

type waitConfig struct {
	pollInterval time.Duration
	timeout      time.Duration
	logger       log.Logger
	onRetry      func(attempt int)
}

type WaitOption func(*waitConfig)

func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithTimeout bounds the wait on top of the caller's context deadline
func WithTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

func WithWaitLogger(l log.Logger) WaitOption {
	return func(c *waitConfig) {
		c.logger = l
	}
}

// WithRetryHook is called after every poll that did not find the job
func WithRetryHook(fn func(attempt int)) WaitOption {
	return func(c *waitConfig) {
		c.onRetry = fn
	}
}

// WaitForJob polls the scheduler listing until a job named name shows up.
// It only observes the scheduler. Once ctx is done the wait fails with a
// LaunchTimeout error, listing failures abort it right away.
func WaitForJob(ctx context.Context, lister JobLister, name string, opts ...WaitOption) error {
	cfg := waitConfig{
		pollInterval: DefaultPollInterval,
		logger:       log.NewNoop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(cfg.pollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		found, err := isListed(ctx, lister, name)
		if err != nil {
			// a list call cut short by the deadline is a timeout, not a scheduler failure
			if ctx.Err() != nil {
				return errors.LaunchTimeout(job.EntityScheduler,
					fmt.Sprintf("job %s did not launch after %d attempts", name, attempt), ctx.Err())
			}
			return err
		}
		if found {
			return nil
		}
		cfg.logger.Debug("waiting for job %s to launch. retrying", name)
		if cfg.onRetry != nil {
			cfg.onRetry(attempt)
		}

		select {
		case <-ctx.Done():
			return errors.LaunchTimeout(job.EntityScheduler,
				fmt.Sprintf("job %s did not launch after %d attempts", name, attempt), ctx.Err())
		case <-ticker.C:
		}
	}
}

func isListed(ctx context.Context, lister JobLister, name string) (bool, error) {
	records, err := listJobs(ctx, lister)
	if err != nil {
		return false, err
	}
	for _, record := range records {
		if record.Name == name {
			return true, nil
		}
	}
	return false, nil
}
