package job

import (
	"fmt"

	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/client/cmd/internal/progressbar"
)

type setupCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies
}

// NewSetupCommand initializes command for deploying a job to chronos
func NewSetupCommand() *cobra.Command {
	setup := &setupCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:     "setup <service>.<job>",
		Short:   "Deploy the current version of a job and bounce the older ones",
		Example: "chronosctl job setup example_service.main",
		Args:    cobra.ExactArgs(1),
		RunE:    setup.RunE,
		PreRunE: setup.PreRunE,
	}
	injectConfigFlag(cmd, &setup.configFilePath)
	return cmd
}

func (s *setupCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(s.configFilePath, true)
	if err != nil {
		return err
	}
	s.deps = deps
	s.logger = deps.Logger
	return nil
}

func (s *setupCommand) RunE(cmd *cobra.Command, args []string) error {
	defer s.deps.ExportMetrics(cmd.CommandPath())

	service, jobName, err := splitJobRef(args)
	if err != nil {
		return err
	}

	indicator := progressbar.New()
	indicator.Spin(fmt.Sprintf("setting up %s.%s", service, jobName))
	result, err := s.deps.Jobs.Setup(commandContext(cmd), service, jobName)
	indicator.Stop()
	if result != nil {
		if result.Submitted {
			s.logger.Info("Deployed %s", result.Spec.Name)
		} else {
			s.logger.Info("%s is already deployed", result.Spec.Name)
		}
		for _, name := range result.Bounced {
			s.logger.Info("Bounced %s", name)
		}
	}
	return err
}
