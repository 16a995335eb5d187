package job

const (
	ContainerNetworkBridge = "BRIDGE"
	ContainerTypeDocker    = "DOCKER"
)

// CompleteJobSpec is the scheduler-ready payload of one job.
// See https://mesos.github.io/chronos/docs/api.html#adding-a-docker-job
type CompleteJobSpec struct {
	Name                 string                `json:"name"`
	Container            Container             `json:"container"`
	EnvironmentVariables []EnvironmentVariable `json:"environmentVariables"`
	Mem                  float64               `json:"mem"`
	CPUs                 float64               `json:"cpus"`
	Constraints          interface{}           `json:"constraints"`
	Command              string                `json:"command"`
	Arguments            []string              `json:"arguments"`
	Epsilon              string                `json:"epsilon"`
	Retries              int                   `json:"retries"`
	// Async jobs are not supported, always false
	Async            bool    `json:"async"`
	Disabled         bool    `json:"disabled"`
	Owner            string  `json:"owner"`
	Schedule         string  `json:"schedule"`
	// nil is sent as null, chronos then falls back to the zone of the schedule
	ScheduleTimeZone *string `json:"scheduleTimeZone"`
	Shell            bool    `json:"shell"`
}

type Container struct {
	Image   string   `json:"image"`
	Network string   `json:"network"`
	Type    string   `json:"type"`
	Volumes []Volume `json:"volumes"`
}

// Volume is a host path mounted into the job container
type Volume struct {
	ContainerPath string `json:"containerPath" mapstructure:"containerPath"`
	HostPath      string `json:"hostPath" mapstructure:"hostPath"`
	Mode          string `json:"mode" mapstructure:"mode"`
}

type EnvironmentVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
