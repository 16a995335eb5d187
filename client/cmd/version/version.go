package version

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/config"
)

type versionCommand struct{}

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	v := &versionCommand{}

	return &cobra.Command{
		Use:     "version",
		Short:   "Print the client version information",
		Example: "chronosctl version",
		Args:    cobra.NoArgs,
		RunE:    v.RunE,
	}
}

func (*versionCommand) RunE(cmd *cobra.Command, _ []string) error {
	printVersion(cmd.OutOrStdout())
	return nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s", config.AppName, config.BuildVersion)
	if config.BuildCommit != "" {
		fmt.Fprintf(w, "-%s", config.BuildCommit)
	}
	if config.BuildDate != "" {
		fmt.Fprintf(w, " (%s)", config.BuildDate)
	}
	fmt.Fprintln(w)
}
