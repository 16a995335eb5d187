package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
)

const (
	EntitySOAConfig = "soa_config"

	DeploymentsFileName = "deployments.json"
	MonitoringFileName  = "monitoring.yaml"

	deploymentsVersion = "v1"
)

// ChronosFileName is the per cluster job config file of a service
func ChronosFileName(cluster string) string {
	return fmt.Sprintf("chronos-%s.yaml", cluster)
}

// ServiceJob names one job of one service
type ServiceJob struct {
	Service string
	Job     string
}

func (s ServiceJob) String() string {
	return s.Service + job.InternalSpacer + s.Job
}

type deployments map[string]map[string]job.BranchConfig

type monitoringConfig struct {
	Team string `yaml:"team"`
}

// SOAConfigRepository reads service configs from a soa-configs checkout:
// <soa_dir>/<service>/chronos-<cluster>.yaml for job configs,
// <soa_dir>/<service>/deployments.json for deployed images and
// <soa_dir>/<service>/monitoring.yaml for the owning team.
// Files are read on every call, each caller gets its own parsed copy.
type SOAConfigRepository struct {
	fs     afero.Fs
	soaDir string
}

func NewSOAConfigRepository(fs afero.Fs, soaDir string) *SOAConfigRepository {
	return &SOAConfigRepository{
		fs:     fs,
		soaDir: soaDir,
	}
}

// ReadJobsForService returns the raw job configs of a service keyed by job
// name. A service without a config file for the cluster has no jobs.
func (r *SOAConfigRepository) ReadJobsForService(_ context.Context, service, cluster string) (map[string]map[string]interface{}, error) {
	path := filepath.Join(r.soaDir, service, ChronosFileName(cluster))
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]interface{}{}, nil
		}
		return nil, errors.InternalError(EntitySOAConfig, "unable to read "+path, err)
	}

	jobs := map[string]map[string]interface{}{}
	if err := yaml.Unmarshal(content, &jobs); err != nil {
		return nil, errors.InvalidArgument(EntitySOAConfig, fmt.Sprintf("error parsing %s: %s", path, err))
	}
	return jobs, nil
}

// LoadJobConfig builds the job config of one job together with its
// deployment branch and the service team as default owner
func (r *SOAConfigRepository) LoadJobConfig(ctx context.Context, service, jobName, cluster string) (*job.JobConfig, error) {
	jobs, err := r.ReadJobsForService(ctx, service, cluster)
	if err != nil {
		return nil, err
	}
	configDict, ok := jobs[jobName]
	if !ok {
		return nil, errors.NotFound(EntitySOAConfig,
			fmt.Sprintf("No job named \"%s\" in config file %s", jobName, ChronosFileName(cluster)))
	}

	branch, err := r.readBranchConfig(service, jobName, cluster)
	if err != nil {
		return nil, err
	}
	team, err := r.readTeam(service)
	if err != nil {
		return nil, err
	}
	return job.NewJobConfig(service, jobName, configDict, branch, job.WithDefaultOwner(team)), nil
}

// ListJobNames returns the sorted job names of a service in a cluster
func (r *SOAConfigRepository) ListJobNames(ctx context.Context, service, cluster string) ([]string, error) {
	jobs, err := r.ReadJobsForService(ctx, service, cluster)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListJobsForCluster returns every job of every service in a cluster,
// ordered by service then job
func (r *SOAConfigRepository) ListJobsForCluster(ctx context.Context, cluster string) ([]ServiceJob, error) {
	entries, err := afero.ReadDir(r.fs, r.soaDir)
	if err != nil {
		return nil, errors.InternalError(EntitySOAConfig, "unable to read soa dir "+r.soaDir, err)
	}

	var serviceJobs []ServiceJob
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names, err := r.ListJobNames(ctx, entry.Name(), cluster)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			serviceJobs = append(serviceJobs, ServiceJob{Service: entry.Name(), Job: name})
		}
	}
	return serviceJobs, nil
}

func (r *SOAConfigRepository) readBranchConfig(service, jobName, cluster string) (job.BranchConfig, error) {
	path := filepath.Join(r.soaDir, service, DeploymentsFileName)
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return job.BranchConfig{}, nil
		}
		return job.BranchConfig{}, errors.InternalError(EntitySOAConfig, "unable to read "+path, err)
	}

	var deployed deployments
	if err := json.Unmarshal(content, &deployed); err != nil {
		return job.BranchConfig{}, errors.InvalidArgument(EntitySOAConfig, fmt.Sprintf("error parsing %s: %s", path, err))
	}

	branch := deployed[deploymentsVersion][DeploymentKey(service, cluster, jobName)]
	state, err := job.DesiredStateFrom(string(branch.DesiredState))
	if err != nil {
		return job.BranchConfig{}, errors.InvalidArgument(EntitySOAConfig, fmt.Sprintf("%s in %s", err, path))
	}
	branch.DesiredState = state
	return branch, nil
}

func (r *SOAConfigRepository) readTeam(service string) (string, error) {
	path := filepath.Join(r.soaDir, service, MonitoringFileName)
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.InternalError(EntitySOAConfig, "unable to read "+path, err)
	}

	var monitoring monitoringConfig
	if err := yaml.Unmarshal(content, &monitoring); err != nil {
		return "", errors.InvalidArgument(EntitySOAConfig, fmt.Sprintf("error parsing %s: %s", path, err))
	}
	return monitoring.Team, nil
}

// DeploymentKey is the key of a job in deployments.json,
// <service>:paasta-<cluster>.<job>
func DeploymentKey(service, cluster, jobName string) string {
	return fmt.Sprintf("%s:paasta-%s%s%s", service, cluster, job.InternalSpacer, jobName)
}
