package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/chronosctl/core/job"
	"github.com/odpf/chronosctl/internal/errors"
)

func TestComposeJobID(t *testing.T) {
	t.Run("joins service and instance with a space", func(t *testing.T) {
		assert.Equal(t, "svc main", job.ComposeJobID("svc", "main"))
	})
	t.Run("appends the version tag", func(t *testing.T) {
		assert.Equal(t, "svc main gitabcd1234 config5678efab", job.ComposeJobID("svc", "main", "gitabcd1234 config5678efab"))
	})
	t.Run("skips empty tags", func(t *testing.T) {
		assert.Equal(t, "svc main", job.ComposeJobID("svc", "main", ""))
	})
}

func TestDecomposeJobID(t *testing.T) {
	t.Run("reverses ComposeJobID", func(t *testing.T) {
		service, instance, tag, err := job.DecomposeJobID("svc main gitabcd1234 config5678efab")

		assert.Nil(t, err)
		assert.Equal(t, "svc", service)
		assert.Equal(t, "main", instance)
		assert.Equal(t, "gitabcd1234 config5678efab", tag)
	})
	t.Run("returns empty tag for unversioned names", func(t *testing.T) {
		service, instance, tag, err := job.DecomposeJobID("svc main")

		assert.Nil(t, err)
		assert.Equal(t, "svc", service)
		assert.Equal(t, "main", instance)
		assert.Empty(t, tag)
	})
	t.Run("returns error for malformed names", func(t *testing.T) {
		_, _, _, err := job.DecomposeJobID("svc main gitabcd1234")

		assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
	})
}

func TestSplitServiceJob(t *testing.T) {
	t.Run("splits on the first period", func(t *testing.T) {
		service, jobName, err := job.SplitServiceJob("svc.main")

		assert.Nil(t, err)
		assert.Equal(t, "svc", service)
		assert.Equal(t, "main", jobName)
	})
	t.Run("returns error without a period", func(t *testing.T) {
		_, _, err := job.SplitServiceJob("svc")

		assert.NotNil(t, err)
	})
}

func TestVersionTag(t *testing.T) {
	dockerURL := "registry.example.com/services-svc:paasta-0123456789abcdef"
	spec := job.CompleteJobSpec{
		Name:     "main",
		Command:  "echo hello",
		Epsilon:  "PT60S",
		Retries:  2,
		Schedule: "R/2014-01-01T00:00:00Z/PT60M",
		Shell:    true,
	}

	t.Run("derives the code sha from the image tag", func(t *testing.T) {
		assert.Equal(t, "git01234567", job.CodeShaFromDockerURL(dockerURL))
	})
	t.Run("is deterministic", func(t *testing.T) {
		first, err := job.VersionTag(dockerURL, spec)
		assert.Nil(t, err)
		second, err := job.VersionTag(dockerURL, spec)
		assert.Nil(t, err)

		assert.Equal(t, first, second)
		assert.Regexp(t, `^git01234567 config[0-9a-f]{8}$`, first)
	})
	t.Run("changes when any field changes", func(t *testing.T) {
		before, _ := job.VersionTag(dockerURL, spec)

		changed := spec
		changed.Retries = 3
		tag, _ := job.VersionTag(dockerURL, changed)
		assert.NotEqual(t, before, tag)

		changed = spec
		changed.Disabled = true
		tag, _ = job.VersionTag(dockerURL, changed)
		assert.NotEqual(t, before, tag)
	})
	t.Run("changes when the image changes", func(t *testing.T) {
		before, _ := job.VersionTag(dockerURL, spec)

		tag, _ := job.VersionTag("registry.example.com/services-svc:paasta-fedcba9876543210", spec)

		assert.NotEqual(t, before, tag)
	})
}
