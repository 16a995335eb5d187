package compiler

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/odpf/chronosctl/internal/errors"
)

const (
	EntityCompiler = "compiler"

	// ISODateFormat https://en.wikipedia.org/wiki/ISO_8601
	ISODateFormat = "2006-01-02"

	ISOTimeFormat = time.RFC3339
)

// Engine renders user supplied go templates against compiled job specs
type Engine struct {
	baseTemplate *template.Template
}

func NewEngine() *Engine {
	baseTemplate := template.
		New("chronos_template_engine").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{
			"interpolate": Interpolate,
		})

	return &Engine{
		baseTemplate: baseTemplate,
	}
}

func (e *Engine) CompileString(input string, context any) (string, error) {
	tmpl, err := e.baseTemplate.New("base").Parse(input)
	if err != nil {
		return "", errors.InvalidArgument(EntityCompiler, "unable to parse string "+input)
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, context); err != nil {
		return "", errors.InvalidArgument(EntityCompiler, "unable to render string "+input)
	}
	return strings.TrimSpace(buf.String()), nil
}
