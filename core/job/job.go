package job

import (
	"fmt"
	"strings"
)

const (
	EntityJob       = "job"
	EntityScheduler = "scheduler"
)

type BounceMethod string

const (
	// BounceGraceful disables the old version but lets its current run finish
	BounceGraceful BounceMethod = "graceful"
	// BounceBrutal disables the old version and kills its running tasks
	BounceBrutal BounceMethod = "brutal"
)

var ValidBounceMethods = []BounceMethod{BounceGraceful, BounceBrutal}

func (b BounceMethod) String() string {
	return string(b)
}

func (b BounceMethod) IsValid() bool {
	for _, valid := range ValidBounceMethods {
		if b == valid {
			return true
		}
	}
	return false
}

// DesiredState is the deployment level intent for a job. It overrides
// the disabled flag of the raw job config.
type DesiredState string

const (
	DesiredStateUnset DesiredState = ""
	DesiredStateStart DesiredState = "start"
	DesiredStateStop  DesiredState = "stop"
)

func DesiredStateFrom(state string) (DesiredState, error) {
	switch DesiredState(strings.ToLower(strings.TrimSpace(state))) {
	case DesiredStateUnset:
		return DesiredStateUnset, nil
	case DesiredStateStart:
		return DesiredStateStart, nil
	case DesiredStateStop:
		return DesiredStateStop, nil
	}
	return DesiredStateUnset, fmt.Errorf("unknown desired state %q", state)
}

// BranchConfig carries the deployment metadata of a job: which image is
// deployed and whether it should be running.
type BranchConfig struct {
	DockerImage  string       `json:"docker_image" yaml:"docker_image"`
	DesiredState DesiredState `json:"desired_state" yaml:"desired_state"`
}

// Record is a job entry as returned by the scheduler listing
type Record struct {
	Name         string `json:"name"`
	Disabled     bool   `json:"disabled"`
	Schedule     string `json:"schedule,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Command      string `json:"command,omitempty"`
	Epsilon      string `json:"epsilon,omitempty"`
	Retries      int    `json:"retries,omitempty"`
	SuccessCount int    `json:"successCount,omitempty"`
	ErrorCount   int    `json:"errorCount,omitempty"`
	LastSuccess  string `json:"lastSuccess,omitempty"`
	LastError    string `json:"lastError,omitempty"`
}

type Records []Record

func (r Records) Names() []string {
	names := make([]string, len(r))
	for i, record := range r {
		names[i] = record.Name
	}
	return names
}
