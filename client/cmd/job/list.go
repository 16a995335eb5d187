package job

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/odpf/salt/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/core/job/service"
)

const matchAll = ".*"

type listCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies

	includeDisabled bool
	maxExpected     int
}

// NewListCommand initializes command for listing chronos jobs
func NewListCommand() *cobra.Command {
	list := &listCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "Show the chronos jobs whose name matches a regex",
		Example: `chronosctl job list
chronosctl job list '^example_service main' --all`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    list.RunE,
		PreRunE: list.PreRunE,
	}
	injectConfigFlag(cmd, &list.configFilePath)
	cmd.Flags().BoolVarP(&list.includeDisabled, "all", "a", false, "Include disabled jobs")
	cmd.Flags().IntVar(&list.maxExpected, "max-expected", 0, "Fail when more jobs than this match, 0 means no limit")
	return cmd
}

func (l *listCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(l.configFilePath, true)
	if err != nil {
		return err
	}
	l.deps = deps
	l.logger = deps.Logger
	return nil
}

func (l *listCommand) RunE(cmd *cobra.Command, args []string) error {
	defer l.deps.ExportMetrics(cmd.CommandPath())

	pattern := matchAll
	if len(args) > 0 {
		pattern = args[0]
	}
	records, err := service.Lookup(commandContext(cmd), l.deps.Scheduler, pattern, service.LookupOptions{
		MaxExpected:     l.maxExpected,
		IncludeDisabled: l.includeDisabled,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		l.logger.Info("no jobs match [%s]", pattern)
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), stringifyRecords(records))
	return err
}

func stringifyRecords(records job.Records) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{
		"Name",
		"Disabled",
		"Schedule",
		"Owner",
		"Successes",
		"Errors",
		"Last Success",
		"Last Error",
	})
	for _, r := range records {
		table.Append([]string{
			r.Name,
			strconv.FormatBool(r.Disabled),
			r.Schedule,
			r.Owner,
			fmt.Sprint(r.SuccessCount),
			fmt.Sprint(r.ErrorCount),
			r.LastSuccess,
			r.LastError,
		})
	}
	table.Render()
	return buff.String()
}
