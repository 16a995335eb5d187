package job

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/odpf/chronosctl/client/cmd/internal"
	"github.com/odpf/chronosctl/client/cmd/internal/logger"
	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/compiler"
)

type renderCommand struct {
	logger         log.Logger
	configFilePath string
	deps           *internal.Dependencies

	template string
}

// NewRenderCommand initializes command for rendering the complete job config
func NewRenderCommand() *cobra.Command {
	render := &renderCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:   "render <service>.<job>",
		Short: "Print the complete config that would be sent to chronos",
		Long:  "Compile the job config, deployed image and host volumes into the chronos payload without contacting chronos.",
		Example: `chronosctl job render example_service.main
chronosctl job render example_service.main --template '{{ .Name }} {{ .Container.Image }}'`,
		Args:    cobra.ExactArgs(1),
		RunE:    render.RunE,
		PreRunE: render.PreRunE,
	}
	injectConfigFlag(cmd, &render.configFilePath)
	cmd.Flags().StringVarP(&render.template, "template", "t", "", "Go template applied to the complete config instead of printing json")
	return cmd
}

func (r *renderCommand) PreRunE(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies(r.configFilePath, false)
	if err != nil {
		return err
	}
	r.deps = deps
	r.logger = deps.Logger
	return nil
}

func (r *renderCommand) RunE(cmd *cobra.Command, args []string) error {
	defer r.deps.ExportMetrics(cmd.CommandPath())

	service, jobName, err := splitJobRef(args)
	if err != nil {
		return err
	}
	spec, err := r.deps.Compiler.CreateCompleteConfig(commandContext(cmd), service, jobName)
	if err != nil {
		return err
	}
	return renderSpec(cmd.OutOrStdout(), spec, r.template)
}

func renderSpec(w io.Writer, spec *job.CompleteJobSpec, tmpl string) error {
	if tmpl == "" {
		out, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	out, err := compiler.NewEngine().CompileString(tmpl, spec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
