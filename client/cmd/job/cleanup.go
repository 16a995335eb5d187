package job

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/client/cmd/internal/progressbar"
	"github.com/odpf/chronosctl/client/cmd/internal/survey"
	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/core/job/service"
	"github.com/odpf/chronosctl/internal/errors"
)

type cleanupCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies

	maxExpected int
	yes         bool
}

// NewCleanupCommand initializes command for removing chronos jobs
func NewCleanupCommand() *cobra.Command {
	cleanup := &cleanupCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:   "cleanup <pattern>",
		Short: "Kill and delete every chronos job whose name matches a regex",
		Long:  "Disabled jobs are removed as well. A failure to remove one job does not stop the others. On a terminal the removal is confirmed first unless --yes is given.",
		Example: `chronosctl job cleanup '^example_service main git'
chronosctl job cleanup '^example_service ' --max-expected 4 --yes`,
		Args:    cobra.ExactArgs(1),
		RunE:    cleanup.RunE,
		PreRunE: cleanup.PreRunE,
	}
	injectConfigFlag(cmd, &cleanup.configFilePath)
	cmd.Flags().IntVar(&cleanup.maxExpected, "max-expected", 0, "Refuse to remove anything when more jobs than this match, 0 means no limit")
	cmd.Flags().BoolVarP(&cleanup.yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *cleanupCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(c.configFilePath, true)
	if err != nil {
		return err
	}
	c.deps = deps
	c.logger = deps.Logger
	return nil
}

func (c *cleanupCommand) RunE(cmd *cobra.Command, args []string) error {
	defer c.deps.ExportMetrics(cmd.CommandPath())

	ctx := commandContext(cmd)
	matches, err := service.Lookup(ctx, c.deps.Scheduler, args[0], service.LookupOptions{
		MaxExpected:     c.maxExpected,
		IncludeDisabled: true,
	})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		c.logger.Info("no jobs match [%s]", args[0])
		return nil
	}

	names := matches.Names()
	if needsConfirmation(c.yes, survey.IsInteractive()) {
		confirmed, err := survey.AskToConfirmRemoval(names)
		if err != nil {
			return err
		}
		if !confirmed {
			c.logger.Info("Aborted")
			return nil
		}
	}

	bar := progressbar.New()
	bar.Count(len(names), "removing jobs")
	result := &service.CleanupResult{}
	var merr *multierror.Error
	for i, name := range names {
		removed, err := c.deps.Jobs.Remove(ctx, []string{name})
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		result.Removed = append(result.Removed, removed.Removed...)
		result.Failed = append(result.Failed, removed.Failed...)
		if err := bar.Done(i + 1); err != nil {
			c.logger.Debug("unable to update progress: %s", err)
		}
	}
	bar.Stop()

	printCleanupResult(cmd.OutOrStdout(), result)
	if len(result.Failed) > 0 {
		return errors.SchedulerCallFailure(job.EntityScheduler,
			fmt.Sprintf("unable to remove %d of %d jobs", len(result.Failed), len(names)), merr.ErrorOrNil())
	}
	return nil
}

// needsConfirmation prompts only on a terminal, scripted runs proceed
func needsConfirmation(yes, interactive bool) bool {
	return !yes && interactive
}

func printCleanupResult(w io.Writer, result *service.CleanupResult) {
	if len(result.Removed) > 0 {
		fmt.Fprintln(w, "Successfully Removed:")
		for _, name := range result.Removed {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(result.Failed) > 0 {
		fmt.Fprintln(w, "Failed to Remove:")
		for _, name := range result.Failed {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}
