package job

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/odpf/chronosctl/internal/errors"
)

const (
	// Spacer joins the parts of a job name on the wire. The scheduler does
	// not allow periods in job names, so a space is used.
	Spacer = " "
	// InternalSpacer joins service and job in human authored references
	InternalSpacer = "."

	hashLength = 8
)

// ComposeJobID joins service, instance and the optional tag parts with Spacer
func ComposeJobID(service, instance string, tag ...string) string {
	parts := []string{service, instance}
	for _, t := range tag {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, Spacer)
}

// DecomposeJobID splits a name built by ComposeJobID. The tag is empty for
// unversioned names.
func DecomposeJobID(jobID string) (service, instance, tag string, err error) {
	parts := strings.Split(jobID, Spacer)
	switch len(parts) {
	case 2: //nolint:gomnd
		return parts[0], parts[1], "", nil
	case 4: //nolint:gomnd
		return parts[0], parts[1], parts[2] + Spacer + parts[3], nil
	}
	return "", "", "", errors.InvalidArgument(EntityJob, fmt.Sprintf("job id %q is not of the form service%sinstance[%stag]", jobID, Spacer, Spacer))
}

// SplitServiceJob splits a human reference such as "service.job"
func SplitServiceJob(ref string) (service, jobName string, err error) {
	parts := strings.SplitN(ref, InternalSpacer, 2) //nolint:gomnd
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.InvalidArgument(EntityJob, fmt.Sprintf("%q is not of the form service%sjob", ref, InternalSpacer))
	}
	return parts[0], parts[1], nil
}

// CodeShaFromDockerURL derives the code identity from an image reference
// such as registry/services-foo:paasta-0123456789abcdef
func CodeShaFromDockerURL(dockerURL string) string {
	parts := strings.Split(dockerURL, "/")
	parts = strings.Split(parts[len(parts)-1], "-")
	sha := parts[len(parts)-1]
	if len(sha) > hashLength {
		sha = sha[:hashLength]
	}
	return "git" + sha
}

// ConfigHash hashes the deterministic JSON encoding of the job spec. Any change
// to a field of the job spec changes the hash.
func ConfigHash(spec CompleteJobSpec) (string, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return "", errors.InternalError(EntityJob, "unable to encode job spec", err)
	}
	sum := md5.Sum(payload) //nolint:gosec
	return "config" + hex.EncodeToString(sum[:])[:hashLength], nil
}

// VersionTag is the code sha and config hash joined by Spacer
func VersionTag(dockerURL string, spec CompleteJobSpec) (string, error) {
	configHash, err := ConfigHash(spec)
	if err != nil {
		return "", err
	}
	return CodeShaFromDockerURL(dockerURL) + Spacer + configHash, nil
}
