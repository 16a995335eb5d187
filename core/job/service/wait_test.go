package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/core/job/service"
	internalErrors "github.com/odpf/chronosctl/internal/errors"
)

func TestWaitForJob(t *testing.T) {
	name := "svc main git01234567 configaaaaaaaa"

	t.Run("returns as soon as the job is listed", func(t *testing.T) {
		ctx := context.Background()
		client := NewSchedulerClient(t)
		client.On("List", ctx).Return(job.Records{{Name: name}}, nil).Once()

		err := service.WaitForJob(ctx, client, name)

		assert.Nil(t, err)
	})
	t.Run("keeps polling until the job shows up", func(t *testing.T) {
		ctx := context.Background()
		client := NewSchedulerClient(t)
		client.On("List", ctx).Return(job.Records{{Name: "svc main"}}, nil).Twice()
		client.On("List", ctx).Return(job.Records{{Name: "svc main"}, {Name: name}}, nil).Once()

		var retries []int
		err := service.WaitForJob(ctx, client, name,
			service.WithPollInterval(time.Millisecond),
			service.WithRetryHook(func(attempt int) { retries = append(retries, attempt) }),
		)

		assert.Nil(t, err)
		assert.Equal(t, []int{1, 2}, retries)
	})
	t.Run("fails with launch timeout once the context is done", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		client := NewSchedulerClient(t)
		client.On("List", ctx).Return(job.Records{}, nil)

		err := service.WaitForJob(ctx, client, name, service.WithPollInterval(time.Millisecond))

		assert.True(t, internalErrors.IsErrorType(err, internalErrors.ErrLaunchTimeout))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("fails with launch timeout after the configured timeout", func(t *testing.T) {
		client := NewSchedulerClient(t)
		client.On("List", mock.Anything).Return(job.Records{}, nil)

		err := service.WaitForJob(context.Background(), client, name,
			service.WithPollInterval(time.Millisecond),
			service.WithTimeout(20*time.Millisecond),
		)

		assert.True(t, internalErrors.IsErrorType(err, internalErrors.ErrLaunchTimeout))
	})
	t.Run("fails with launch timeout when the deadline cuts a listing short", func(t *testing.T) {
		client := NewSchedulerClient(t)
		client.On("List", mock.Anything).Return(func(ctx context.Context) job.Records {
			<-ctx.Done()
			return nil
		}, func(ctx context.Context) error {
			return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to list jobs", ctx.Err())
		}).Once()

		err := service.WaitForJob(context.Background(), client, name, service.WithTimeout(20*time.Millisecond))

		assert.True(t, internalErrors.IsErrorType(err, internalErrors.ErrLaunchTimeout))
		assert.False(t, internalErrors.IsErrorType(err, internalErrors.ErrSchedulerCall))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("returns listing failures without retrying", func(t *testing.T) {
		ctx := context.Background()
		client := NewSchedulerClient(t)
		client.On("List", ctx).Return(nil, errors.New("connection refused")).Once()

		err := service.WaitForJob(ctx, client, name, service.WithPollInterval(time.Millisecond))

		assert.True(t, internalErrors.IsErrorType(err, internalErrors.ErrSchedulerCall))
	})
}
