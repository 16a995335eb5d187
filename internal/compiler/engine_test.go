package compiler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/chronosctl/internal/compiler"
)

func TestEngine(t *testing.T) {
	t.Run("CompileString", func(t *testing.T) {
		t.Run("returns error when cannot parse template", func(t *testing.T) {
			input := `{{ .Name`

			comp := compiler.NewEngine()
			_, err := comp.CompileString(input, map[string]any{"Name": "x"})

			assert.EqualError(t, err, "invalid argument for entity compiler: unable to parse string {{ .Name")
		})
		t.Run("returns error when rendering fails", func(t *testing.T) {
			input := `{{ interpolate .Command .At }}`
			context := map[string]any{
				"Command": "echo %(nope)s",
				"At":      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			}

			comp := compiler.NewEngine()
			_, err := comp.CompileString(input, context)

			assert.EqualError(t, err, "invalid argument for entity compiler: unable to render string {{ interpolate .Command .At }}")
		})
		t.Run("renders with sprig functions", func(t *testing.T) {
			testCases := []struct {
				Input    string
				Expected string
			}{
				{`{{ .Name | upper }}`, "SERVICE JOB"},
				{`{{ .Name | replace " " "." }}`, "service.job"},
				{`{{ .Retries | add 1 }}`, "3"},
				{`{{ interpolate "run-%(shortdate)s" .At }}`, "run-2020-01-01"},
			}

			context := map[string]any{
				"Name":    "service job",
				"Retries": 2,
				"At":      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			comp := compiler.NewEngine()
			for _, testCase := range testCases {
				actual, err := comp.CompileString(testCase.Input, context)

				assert.Nil(t, err)
				assert.Equal(t, testCase.Expected, actual)
			}
		})
	})
}
