package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
)

type LookupOptions struct {
	// MaxExpected caps the number of matches, zero means no cap
	MaxExpected     int
	IncludeDisabled bool
}

// Lookup lists the scheduler's jobs once and returns those whose name
// contains a match of pattern. Disabled jobs are skipped unless requested.
// Exceeding MaxExpected fails with every matched name, so destructive bulk
// operations never run against a loose pattern.
func Lookup(ctx context.Context, lister JobLister, pattern string, opts LookupOptions) (job.Records, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.InvalidPattern(job.EntityScheduler, fmt.Sprintf("invalid regex pattern '%s'", pattern), err)
	}

	records, err := listJobs(ctx, lister)
	if err != nil {
		return nil, err
	}

	var matches job.Records
	for _, record := range records {
		if !re.MatchString(record.Name) {
			continue
		}
		if record.Disabled && !opts.IncludeDisabled {
			continue
		}
		matches = append(matches, record)
	}

	if opts.MaxExpected > 0 && len(matches) > opts.MaxExpected {
		return nil, errors.TooManyMatches(job.EntityScheduler,
			fmt.Sprintf("found %d jobs for pattern '%s', but max expected is set to %d (ids: %s)",
				len(matches), pattern, opts.MaxExpected, strings.Join(matches.Names(), ", ")))
	}
	return matches, nil
}

func listJobs(ctx context.Context, lister JobLister) (job.Records, error) {
	records, err := lister.List(ctx)
	if err == nil {
		return records, nil
	}
	if errors.IsErrorType(err, errors.ErrSchedulerCall) {
		return nil, err
	}
	return nil, errors.SchedulerCallFailure(job.EntityScheduler, "unable to list jobs", err)
}
