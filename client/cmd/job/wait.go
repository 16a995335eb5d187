package job

import (
	"fmt"
	"time"

	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/client/cmd/internal/progressbar"
	"github.com/odpf/chronosctl/core/job/service"
)

type waitCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies

	timeout time.Duration
}

// NewWaitCommand initializes command for waiting until chronos lists a job
func NewWaitCommand() *cobra.Command {
	wait := &waitCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:     "wait <job name>",
		Short:   "Block until chronos lists a job with the exact name",
		Example: `chronosctl job wait "example_service main git01234567 config89abcdef" --timeout 2m`,
		Args:    cobra.ExactArgs(1),
		RunE:    wait.RunE,
		PreRunE: wait.PreRunE,
	}
	injectConfigFlag(cmd, &wait.configFilePath)
	cmd.Flags().DurationVar(&wait.timeout, "timeout", 0, "Give up after this long, defaults to wait.timeout of the configuration")
	return cmd
}

func (w *waitCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(w.configFilePath, true)
	if err != nil {
		return err
	}
	w.deps = deps
	w.logger = deps.Logger
	return nil
}

func (w *waitCommand) RunE(cmd *cobra.Command, args []string) error {
	defer w.deps.ExportMetrics(cmd.CommandPath())

	timeout := w.timeout
	if timeout == 0 {
		timeout = w.deps.Config.Wait.Timeout
	}

	indicator := progressbar.New()
	indicator.Spin(fmt.Sprintf("waiting for %s", args[0]))
	err := service.WaitForJob(commandContext(cmd), w.deps.Scheduler, args[0],
		service.WithTimeout(timeout),
		service.WithPollInterval(w.deps.Config.Wait.PollInterval),
		service.WithWaitLogger(w.logger),
		service.WithRetryHook(func(attempt int) {
			indicator.Spin(fmt.Sprintf("waiting for %s (attempt %d)", args[0], attempt+1))
		}),
	)
	indicator.Stop()
	if err != nil {
		return err
	}
	w.logger.Info("%s is launched", args[0])
	return nil
}
