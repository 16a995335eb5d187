package job

import (
	"time"

	"github.com/odpf/chronosctl/internal/compiler"
)

// FormatJobSpec compiles a validated job config into the scheduler payload.
// It fails with an InvalidJobConfig error carrying every validation message
// and never contacts the scheduler. The command's time variables are
// interpolated against now.
func FormatJobSpec(cfg *JobConfig, dockerURL string, volumes []Volume, now time.Time) (*CompleteJobSpec, error) {
	if err := cfg.Validate().Err(cfg.ServiceName() + InternalSpacer + cfg.JobName()); err != nil {
		return nil, err
	}

	command, err := compiler.Interpolate(cfg.Cmd(), now)
	if err != nil {
		return nil, err
	}

	if volumes == nil {
		volumes = []Volume{}
	}

	return &CompleteJobSpec{
		Name: cfg.JobName(),
		Container: Container{
			Image:   dockerURL,
			Network: ContainerNetworkBridge,
			Type:    ContainerTypeDocker,
			Volumes: volumes,
		},
		EnvironmentVariables: cfg.EnvironmentVariables(),
		Mem:                  cfg.Mem(),
		CPUs:                 cfg.CPUs(),
		Constraints:          cfg.Constraints(),
		Command:              command,
		Arguments:            cfg.Args(),
		Epsilon:              cfg.Epsilon(),
		Retries:              cfg.Retries(),
		Async:                false,
		Disabled:             cfg.Disabled(),
		Owner:                cfg.Owner(),
		Schedule:             cfg.Schedule(),
		ScheduleTimeZone:     timeZoneOf(cfg),
		Shell:                cfg.Shell(),
	}, nil
}

// ApplyDesiredState overrides the disabled flag according to the
// deployment intent, regardless of what the job config specified.
func ApplyDesiredState(spec *CompleteJobSpec, state DesiredState) {
	switch state {
	case DesiredStateStart:
		spec.Disabled = false
	case DesiredStateStop:
		spec.Disabled = true
	}
}

func timeZoneOf(cfg *JobConfig) *string {
	tz := cfg.ScheduleTimeZone()
	if tz == "" {
		return nil
	}
	return &tz
}
