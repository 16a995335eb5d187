package job

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
)

type validateCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies

	cluster string
}

// NewValidateCommand initializes command for validating job configs
func NewValidateCommand() *cobra.Command {
	validate := &validateCommand{
		logger: logger.NewDefaultLogger(),
	}

	cmd := &cobra.Command{
		Use:   "validate <service>[.<job>]",
		Short: "Check job configs of a service",
		Long: heredoc.Doc(`
			Check the chronos job configs of a service for the configured cluster.
			Every problem of every job is reported, not only the first one.`),
		Example: heredoc.Doc(`
			$ chronosctl job validate example_service
			$ chronosctl job validate example_service.main --cluster norcal`),
		Args:    cobra.ExactArgs(1),
		RunE:    validate.RunE,
		PreRunE: validate.PreRunE,
	}
	injectConfigFlag(cmd, &validate.configFilePath)
	cmd.Flags().StringVar(&validate.cluster, "cluster", "", "Cluster to validate for, defaults to the configured one")
	return cmd
}

func (v *validateCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(v.configFilePath, false)
	if err != nil {
		return err
	}
	v.deps = deps
	v.logger = deps.Logger
	return nil
}

func (v *validateCommand) RunE(cmd *cobra.Command, args []string) error {
	defer v.deps.ExportMetrics(cmd.CommandPath())

	ctx := commandContext(cmd)

	cluster := v.cluster
	if cluster == "" {
		var err error
		if cluster, err = v.deps.Config.Cluster(); err != nil {
			return err
		}
	}

	service, jobNames, err := v.jobsToValidate(ctx, args[0], cluster)
	if err != nil {
		return err
	}
	if len(jobNames) == 0 {
		v.logger.Warn("no jobs found for service [%s] in cluster [%s]", service, cluster)
		return nil
	}

	var invalid int
	for _, jobName := range jobNames {
		cfg, err := v.deps.Repository.LoadJobConfig(ctx, service, jobName, cluster)
		if err != nil {
			return err
		}
		if !printValidation(cmd.OutOrStdout(), service+job.InternalSpacer+jobName, cfg.Validate()) {
			invalid++
		}
	}
	if invalid > 0 {
		return errors.InvalidArgument(job.EntityJob, fmt.Sprintf("%d of %d job configs are not valid", invalid, len(jobNames)))
	}
	return nil
}

func (v *validateCommand) jobsToValidate(ctx context.Context, ref, cluster string) (string, []string, error) {
	if !strings.Contains(ref, job.InternalSpacer) {
		names, err := v.deps.Repository.ListJobNames(ctx, ref, cluster)
		return ref, names, err
	}
	service, jobName, err := job.SplitServiceJob(ref)
	if err != nil {
		return "", nil, err
	}
	return service, []string{jobName}, nil
}

// printValidation writes the outcome of one job and reports whether it passed
func printValidation(w io.Writer, jobID string, result job.ValidationResult) bool {
	if result.OK() {
		fmt.Fprintf(w, "%s: OK\n", jobID)
		return true
	}
	fmt.Fprintf(w, "%s: invalid\n", jobID)
	for _, msg := range result.Messages() {
		fmt.Fprintf(w, "  %s\n", msg)
	}
	return false
}
