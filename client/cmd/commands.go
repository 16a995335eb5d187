package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/cmdx"
	cli "github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/job"
	"github.com/odpf/chronosctl/client/cmd/version"
)

// New constructs the 'root' command. It houses all other sub commands
// default output of logging should go to stdout
// interactive output like progress bars should go to stderr
// unless the stdout/err is a tty, colors/progressbar should be disabled
func New() *cli.Command {
	cmd := &cli.Command{
		Use: "chronosctl <command> <subcommand> [flags]",
		Long: heredoc.Doc(`
			chronosctl compiles the chronos job configs of a service into the
			versioned jobs chronos runs, deploys them and cleans up old versions.

			The system configuration is read from /etc/chronosctl/chronosctl.yaml,
			the home directory or the file given with --config. Every key can be
			overridden with a CHRONOSCTL_ prefixed environment variable, for
			example CHRONOSCTL_CHRONOS_URL.`),
		SilenceUsage: true,
		Example: heredoc.Doc(`
				$ chronosctl job validate example_service
				$ chronosctl job render example_service.main
				$ chronosctl job setup example_service.main
				$ chronosctl job cleanup '^example_service main '
			`),
		Annotations: map[string]string{
			"group:core": "true",
			"help:learn": heredoc.Doc(`
				Use 'chronosctl <command> <subcommand> --help' for more information about a command.
			`),
			"help:feedback": heredoc.Doc(`
				Open an issue here https://github.com/odpf/chronosctl/issues
			`),
		},
	}

	cmdx.SetHelp(cmd)

	cmd.AddCommand(
		job.NewJobCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}
