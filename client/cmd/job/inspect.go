package job

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/odpf/salt/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/core/job"
)

const defaultUpcomingRuns = 3

type inspectCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies

	runs int
}

// NewInspectCommand initializes command for inspecting a compiled job
func NewInspectCommand() *cobra.Command {
	inspect := &inspectCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:     "inspect <service>.<job>",
		Short:   "Show the versioned name, image and upcoming runs of a job",
		Example: "chronosctl job inspect example_service.main --runs 5",
		Args:    cobra.ExactArgs(1),
		RunE:    inspect.RunE,
		PreRunE: inspect.PreRunE,
	}
	injectConfigFlag(cmd, &inspect.configFilePath)
	cmd.Flags().IntVar(&inspect.runs, "runs", defaultUpcomingRuns, "Number of upcoming runs to show")
	return cmd
}

func (i *inspectCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(i.configFilePath, false)
	if err != nil {
		return err
	}
	i.deps = deps
	i.logger = deps.Logger
	return nil
}

func (i *inspectCommand) RunE(cmd *cobra.Command, args []string) error {
	defer i.deps.ExportMetrics(cmd.CommandPath())

	service, jobName, err := splitJobRef(args)
	if err != nil {
		return err
	}
	spec, err := i.deps.Compiler.CreateCompleteConfig(commandContext(cmd), service, jobName)
	if err != nil {
		return err
	}
	schedule, err := job.SplitSchedule(spec.Schedule)
	if err != nil {
		return err
	}
	upcoming, err := upcomingRuns(schedule, time.Now(), i.runs)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), stringifyInspection(spec, upcoming))
	return err
}

// upcomingRuns returns up to count fire times after now
func upcomingRuns(schedule job.Schedule, now time.Time, count int) ([]time.Time, error) {
	var runs []time.Time
	after := now
	for len(runs) < count {
		next, ok, err := schedule.Next(after)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		runs = append(runs, next)
		after = next
	}
	return runs, nil
}

func stringifyInspection(spec *job.CompleteJobSpec, upcoming []time.Time) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Field", "Value"})

	table.Append([]string{"Name", spec.Name})
	table.Append([]string{"Image", spec.Container.Image})
	table.Append([]string{"Owner", spec.Owner})
	table.Append([]string{"Command", spec.Command})
	table.Append([]string{"Disabled", strconv.FormatBool(spec.Disabled)})
	table.Append([]string{"Schedule", spec.Schedule})
	if spec.ScheduleTimeZone != nil {
		table.Append([]string{"Time Zone", *spec.ScheduleTimeZone})
	}

	runs := make([]string, len(upcoming))
	for idx, run := range upcoming {
		runs[idx] = run.Format(time.RFC3339)
	}
	if len(runs) == 0 {
		runs = []string{"none"}
	}
	table.Append([]string{"Upcoming Runs", strings.Join(runs, ", ")})
	table.Render()
	return buff.String()
}
