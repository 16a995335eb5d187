package job

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/core/job"
)

// NewJobCommand initializes command for job
func NewJobCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Validate, compile and manage chronos jobs of a service",
		Annotations: map[string]string{
			"group:core": "true",
		},
	}

	cmd.AddCommand(
		NewValidateCommand(),
		NewRenderCommand(),
		NewSetupCommand(),
		NewListCommand(),
		NewCleanupCommand(),
		NewWaitCommand(),
		NewInspectCommand(),
	)
	return cmd
}

func injectConfigFlag(cmd *cobra.Command, configFilePath *string) {
	cmd.Flags().StringVarP(configFilePath, "config", "c", "", "File path for system configuration")
}

func loadDependencies(configFilePath string, withScheduler bool) (*internal.Dependencies, error) {
	return internal.NewDependencies(configFilePath, withScheduler)
}

// splitJobRef splits a "service.job" argument
func splitJobRef(args []string) (service, jobName string, err error) {
	return job.SplitServiceJob(args[0])
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
