package local_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
	"github.com/odpf/chronosctl/store/local"
)

const soaDir = "/nail/etc/services"

const chronosConfig = `
main:
  cmd: /bin/true %(shortdate)s
  schedule: R/2014-01-01T00:00:00Z/PT60M
  cpus: 0.5
  mem: 512
  retries: 5
  env:
    FOO: bar
nightly:
  cmd: /bin/nightly
  schedule: R/2014-01-01T02:00:00Z/P1D
  monitoring:
    team: night-owls
`

const deploymentsConfig = `{
  "v1": {
    "svc:paasta-norcal.main": {"docker_image": "services-svc:paasta-0123456789abcdef", "desired_state": "start"},
    "svc:paasta-norcal.nightly": {"docker_image": "services-svc:paasta-0123456789abcdef", "desired_state": "stop"}
  }
}`

type SOAConfigRepositoryTestSuite struct {
	suite.Suite
	fs   afero.Fs
	repo *local.SOAConfigRepository
}

func (s *SOAConfigRepositoryTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
	s.writeFile(filepath.Join(soaDir, "svc", local.ChronosFileName("norcal")), chronosConfig)
	s.writeFile(filepath.Join(soaDir, "svc", local.DeploymentsFileName), deploymentsConfig)
	s.writeFile(filepath.Join(soaDir, "svc", local.MonitoringFileName), "team: svc-team\n")
	s.writeFile(filepath.Join(soaDir, "another", local.ChronosFileName("norcal")), "backup:\n  schedule: R/2014-01-01T00:00:00Z/P1D\n")
	s.writeFile(filepath.Join(soaDir, "webonly", "marathon-norcal.yaml"), "main: {}\n")
	s.repo = local.NewSOAConfigRepository(s.fs, soaDir)
}

func TestSOAConfigRepository(t *testing.T) {
	suite.Run(t, new(SOAConfigRepositoryTestSuite))
}

func (s *SOAConfigRepositoryTestSuite) TestLoadJobConfig() {
	ctx := context.Background()

	s.Run("builds the job config with branch and default owner", func() {
		cfg, err := s.repo.LoadJobConfig(ctx, "svc", "main", "norcal")

		s.Require().NoError(err)
		s.Equal("svc", cfg.ServiceName())
		s.Equal("main", cfg.JobName())
		s.Equal("services-svc:paasta-0123456789abcdef", cfg.DockerImage())
		s.Equal(job.DesiredStateStart, cfg.DesiredState())
		s.Equal(0.5, cfg.CPUs())
		s.Equal(512.0, cfg.Mem())
		s.Equal(5, cfg.Retries())
		s.Equal("svc-team", cfg.Owner())
		s.Equal([]job.EnvironmentVariable{{Name: "FOO", Value: "bar"}}, cfg.EnvironmentVariables())
		s.True(cfg.Validate().OK())
	})
	s.Run("prefers the job monitoring team over the service team", func() {
		cfg, err := s.repo.LoadJobConfig(ctx, "svc", "nightly", "norcal")

		s.Require().NoError(err)
		s.Equal("night-owls", cfg.Owner())
		s.Equal(job.DesiredStateStop, cfg.DesiredState())
	})
	s.Run("returns not found for an unknown job", func() {
		_, err := s.repo.LoadJobConfig(ctx, "svc", "hourly", "norcal")

		s.True(errors.IsErrorType(err, errors.ErrNotFound))
		s.Contains(err.Error(), `No job named "hourly" in config file chronos-norcal.yaml`)
	})
	s.Run("returns not found for a cluster without config", func() {
		_, err := s.repo.LoadJobConfig(ctx, "svc", "main", "uswest")

		s.True(errors.IsErrorType(err, errors.ErrNotFound))
		s.Contains(err.Error(), "chronos-uswest.yaml")
	})
	s.Run("leaves the branch empty without deployments", func() {
		cfg, err := s.repo.LoadJobConfig(ctx, "another", "backup", "norcal")

		s.Require().NoError(err)
		s.Empty(cfg.DockerImage())
		s.Equal(job.DesiredStateUnset, cfg.DesiredState())
		s.Empty(cfg.Owner())
	})
	s.Run("returns error for an unknown desired state", func() {
		s.writeFile(filepath.Join(soaDir, "another", local.DeploymentsFileName),
			`{"v1": {"another:paasta-norcal.backup": {"docker_image": "img", "desired_state": "pause"}}}`)

		_, err := s.repo.LoadJobConfig(ctx, "another", "backup", "norcal")

		s.True(errors.IsErrorType(err, errors.ErrInvalidArgument))
	})
	s.Run("returns error for malformed yaml", func() {
		s.writeFile(filepath.Join(soaDir, "broken", local.ChronosFileName("norcal")), "main: [unclosed\n")

		_, err := s.repo.LoadJobConfig(ctx, "broken", "main", "norcal")

		s.True(errors.IsErrorType(err, errors.ErrInvalidArgument))
	})
}

func (s *SOAConfigRepositoryTestSuite) TestReadJobsForService() {
	ctx := context.Background()

	s.Run("hands out a separate copy on every read", func() {
		first, err := s.repo.ReadJobsForService(ctx, "svc", "norcal")
		s.Require().NoError(err)
		first["main"]["cmd"] = "/bin/false"
		delete(first, "nightly")

		second, err := s.repo.ReadJobsForService(ctx, "svc", "norcal")

		s.Require().NoError(err)
		s.Equal("/bin/true %(shortdate)s", second["main"]["cmd"])
		s.Contains(second, "nightly")
	})
	s.Run("picks up changes to the config file", func() {
		s.writeFile(filepath.Join(soaDir, "another", local.ChronosFileName("norcal")), "restore:\n  schedule: R/2014-01-01T00:00:00Z/P1D\n")

		jobs, err := s.repo.ReadJobsForService(ctx, "another", "norcal")

		s.Require().NoError(err)
		s.Contains(jobs, "restore")
		s.NotContains(jobs, "backup")
	})
}

func (s *SOAConfigRepositoryTestSuite) TestListJobNames() {
	names, err := s.repo.ListJobNames(context.Background(), "svc", "norcal")

	s.Require().NoError(err)
	s.Equal([]string{"main", "nightly"}, names)
}

func (s *SOAConfigRepositoryTestSuite) TestListJobsForCluster() {
	serviceJobs, err := s.repo.ListJobsForCluster(context.Background(), "norcal")

	s.Require().NoError(err)
	s.Equal([]local.ServiceJob{
		{Service: "another", Job: "backup"},
		{Service: "svc", Job: "main"},
		{Service: "svc", Job: "nightly"},
	}, serviceJobs)
	s.Equal("svc.main", serviceJobs[1].String())
}

func (s *SOAConfigRepositoryTestSuite) TestDeploymentKey() {
	s.Equal("svc:paasta-norcal.main", local.DeploymentKey("svc", "norcal", "main"))
}

func (s *SOAConfigRepositoryTestSuite) writeFile(path, content string) {
	s.Require().NoError(s.fs.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(afero.WriteFile(s.fs, path, []byte(content), 0o644))
}
