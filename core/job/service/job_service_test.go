package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/core/job/service"
	internalErrors "github.com/odpf/chronosctl/internal/errors"
)

func TestJobService(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()

	newVersion := "svc main git01234567 configaaaaaaaa"
	oldVersion := "svc main gitfedcba98 configbbbbbbbb"
	otherJob := "svc other git01234567 configcccccccc"

	newConfig := func(bounceMethod string) *job.JobConfig {
		return job.NewJobConfig("svc", "main", map[string]interface{}{
			"schedule":      "R/2014-01-01T00:00:00Z/PT60M",
			"bounce_method": bounceMethod,
		}, job.BranchConfig{DockerImage: "services-svc:paasta-0123456789abcdef"})
	}

	t.Run("Setup", func(t *testing.T) {
		t.Run("submits a new version and disables the old one on graceful bounce", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			spec := &job.CompleteJobSpec{Name: newVersion}

			compiler.On("CompileJob", ctx, "svc", "main").Return(newConfig("graceful"), spec, nil)
			client.On("List", ctx).Return(job.Records{{Name: oldVersion}, {Name: otherJob}}, nil).Once()
			client.On("Add", ctx, spec).Return(nil)
			client.On("List", mock.Anything).Return(job.Records{{Name: oldVersion}, {Name: newVersion}}, nil).Once()
			client.On("Disable", ctx, oldVersion).Return(nil)

			jobService := service.NewJobService(logger, compiler, client)
			result, err := jobService.Setup(ctx, "svc", "main")

			assert.Nil(t, err)
			assert.True(t, result.Submitted)
			assert.Equal(t, spec, result.Spec)
			assert.Equal(t, []string{oldVersion}, result.Bounced)
		})
		t.Run("kills and deletes old versions on brutal bounce", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			spec := &job.CompleteJobSpec{Name: newVersion}

			compiler.On("CompileJob", ctx, "svc", "main").Return(newConfig("brutal"), spec, nil)
			client.On("List", ctx).Return(job.Records{{Name: oldVersion, Disabled: true}}, nil).Once()
			client.On("Add", ctx, spec).Return(nil)
			client.On("List", mock.Anything).Return(job.Records{{Name: newVersion}}, nil).Once()
			client.On("KillTasks", ctx, oldVersion).Return(nil)
			client.On("Delete", ctx, oldVersion).Return(nil)

			jobService := service.NewJobService(logger, compiler, client)
			result, err := jobService.Setup(ctx, "svc", "main")

			assert.Nil(t, err)
			assert.Equal(t, []string{oldVersion}, result.Bounced)
		})
		t.Run("does not submit a version the scheduler already runs", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			spec := &job.CompleteJobSpec{Name: newVersion}

			compiler.On("CompileJob", ctx, "svc", "main").Return(newConfig("graceful"), spec, nil)
			client.On("List", ctx).Return(job.Records{{Name: newVersion}, {Name: oldVersion, Disabled: true}}, nil).Once()

			jobService := service.NewJobService(logger, compiler, client)
			result, err := jobService.Setup(ctx, "svc", "main")

			assert.Nil(t, err)
			assert.False(t, result.Submitted)
			assert.Empty(t, result.Bounced)
		})
		t.Run("resubmits a running version whose desired state changed", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			spec := &job.CompleteJobSpec{Name: newVersion, Disabled: true}

			compiler.On("CompileJob", ctx, "svc", "main").Return(newConfig("graceful"), spec, nil)
			client.On("List", ctx).Return(job.Records{{Name: newVersion}}, nil).Once()
			client.On("Add", ctx, spec).Return(nil)
			client.On("List", mock.Anything).Return(job.Records{{Name: newVersion, Disabled: true}}, nil).Once()

			jobService := service.NewJobService(logger, compiler, client)
			result, err := jobService.Setup(ctx, "svc", "main")

			assert.Nil(t, err)
			assert.True(t, result.Submitted)
		})
		t.Run("returns compile error without calling the scheduler", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			compileErr := internalErrors.InvalidJobConfig(job.EntityJob, "config of svc.main is not valid", errors.New("bad"))

			compiler.On("CompileJob", ctx, "svc", "main").Return(nil, nil, compileErr)

			jobService := service.NewJobService(logger, compiler, client)
			result, err := jobService.Setup(ctx, "svc", "main")

			assert.Nil(t, result)
			assert.ErrorIs(t, err, compileErr)
		})
		t.Run("returns error when submitting fails", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			spec := &job.CompleteJobSpec{Name: newVersion}
			addErr := internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to add job", errors.New("503"))

			compiler.On("CompileJob", ctx, "svc", "main").Return(newConfig("graceful"), spec, nil)
			client.On("List", ctx).Return(job.Records{}, nil).Once()
			client.On("Add", ctx, spec).Return(addErr)

			jobService := service.NewJobService(logger, compiler, client)
			_, err := jobService.Setup(ctx, "svc", "main")

			assert.True(t, internalErrors.IsErrorType(err, internalErrors.ErrSchedulerCall))
		})
		t.Run("keeps bouncing when one old version fails", func(t *testing.T) {
			compiler := NewCompiler(t)
			client := NewSchedulerClient(t)
			spec := &job.CompleteJobSpec{Name: newVersion}
			anotherOld := "svc main git11111111 configdddddddd"

			compiler.On("CompileJob", ctx, "svc", "main").Return(newConfig("graceful"), spec, nil)
			client.On("List", ctx).Return(job.Records{{Name: oldVersion}, {Name: anotherOld}, {Name: newVersion}}, nil).Once()
			client.On("Disable", ctx, oldVersion).Return(errors.New("conflict"))
			client.On("Disable", ctx, anotherOld).Return(nil)

			jobService := service.NewJobService(logger, compiler, client)
			result, err := jobService.Setup(ctx, "svc", "main")

			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), "unable to bounce "+oldVersion)
			assert.Equal(t, []string{anotherOld}, result.Bounced)
		})
	})

	t.Run("Cleanup", func(t *testing.T) {
		t.Run("removes every matching job including disabled ones", func(t *testing.T) {
			client := NewSchedulerClient(t)

			client.On("List", ctx).Return(job.Records{
				{Name: newVersion},
				{Name: oldVersion, Disabled: true},
				{Name: otherJob},
			}, nil)
			client.On("KillTasks", ctx, newVersion).Return(nil)
			client.On("Delete", ctx, newVersion).Return(nil)
			client.On("KillTasks", ctx, oldVersion).Return(nil)
			client.On("Delete", ctx, oldVersion).Return(nil)

			jobService := service.NewJobService(logger, nil, client)
			result, err := jobService.Cleanup(ctx, "^svc main ", 0)

			assert.Nil(t, err)
			assert.Equal(t, []string{newVersion, oldVersion}, result.Removed)
			assert.Empty(t, result.Failed)
		})
		t.Run("reports every failed removal and keeps going", func(t *testing.T) {
			client := NewSchedulerClient(t)

			client.On("List", ctx).Return(job.Records{{Name: newVersion}, {Name: oldVersion}}, nil)
			client.On("KillTasks", ctx, newVersion).Return(nil)
			client.On("Delete", ctx, newVersion).Return(errors.New("404 not found"))
			client.On("KillTasks", ctx, oldVersion).Return(nil)
			client.On("Delete", ctx, oldVersion).Return(nil)

			jobService := service.NewJobService(logger, nil, client)
			result, err := jobService.Cleanup(ctx, "^svc main ", 0)

			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), "unable to remove "+newVersion)
			assert.Equal(t, []string{oldVersion}, result.Removed)
			assert.Equal(t, []string{newVersion}, result.Failed)
		})
		t.Run("does not delete anything when the pattern matches too many jobs", func(t *testing.T) {
			client := NewSchedulerClient(t)

			client.On("List", ctx).Return(job.Records{{Name: newVersion}, {Name: oldVersion}, {Name: otherJob}}, nil)

			jobService := service.NewJobService(logger, nil, client)
			result, err := jobService.Cleanup(ctx, "^svc ", 2)

			assert.Nil(t, result)
			assert.True(t, internalErrors.IsErrorType(err, internalErrors.ErrTooManyMatches))
		})
	})
}

// Compiler is an autogenerated mock type for the Compiler type
type Compiler struct {
	mock.Mock
}

// CompileJob provides a mock function with given fields: ctx, _a1, jobName
func (_m *Compiler) CompileJob(ctx context.Context, _a1 string, jobName string) (*job.JobConfig, *job.CompleteJobSpec, error) {
	ret := _m.Called(ctx, _a1, jobName)

	var r0 *job.JobConfig
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *job.JobConfig); ok {
		r0 = rf(ctx, _a1, jobName)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*job.JobConfig)
		}
	}

	var r1 *job.CompleteJobSpec
	if rf, ok := ret.Get(1).(func(context.Context, string, string) *job.CompleteJobSpec); ok {
		r1 = rf(ctx, _a1, jobName)
	} else {
		if ret.Get(1) != nil {
			r1 = ret.Get(1).(*job.CompleteJobSpec)
		}
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string, string) error); ok {
		r2 = rf(ctx, _a1, jobName)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

type mockConstructorTestingTNewCompiler interface {
	mock.TestingT
	Cleanup(func())
}

// NewCompiler creates a new instance of Compiler. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCompiler(t mockConstructorTestingTNewCompiler) *Compiler {
	mock := &Compiler{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// SchedulerClient is an autogenerated mock type for the SchedulerClient type
type SchedulerClient struct {
	mock.Mock
}

// Add provides a mock function with given fields: ctx, spec
func (_m *SchedulerClient) Add(ctx context.Context, spec *job.CompleteJobSpec) error {
	ret := _m.Called(ctx, spec)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *job.CompleteJobSpec) error); ok {
		r0 = rf(ctx, spec)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Delete provides a mock function with given fields: ctx, name
func (_m *SchedulerClient) Delete(ctx context.Context, name string) error {
	ret := _m.Called(ctx, name)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Disable provides a mock function with given fields: ctx, name
func (_m *SchedulerClient) Disable(ctx context.Context, name string) error {
	ret := _m.Called(ctx, name)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// KillTasks provides a mock function with given fields: ctx, name
func (_m *SchedulerClient) KillTasks(ctx context.Context, name string) error {
	ret := _m.Called(ctx, name)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// List provides a mock function with given fields: ctx
func (_m *SchedulerClient) List(ctx context.Context) (job.Records, error) {
	ret := _m.Called(ctx)

	var r0 job.Records
	if rf, ok := ret.Get(0).(func(context.Context) job.Records); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(job.Records)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

type mockConstructorTestingTNewSchedulerClient interface {
	mock.TestingT
	Cleanup(func())
}

// NewSchedulerClient creates a new instance of SchedulerClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSchedulerClient(t mockConstructorTestingTNewSchedulerClient) *SchedulerClient {
	mock := &SchedulerClient{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
