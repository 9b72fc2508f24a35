// Package analysis drafts the final report of a consultation and keeps the
// material around it: provision retrieval and the report archive.
package analysis

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/report.tmpl
var reportTemplateRaw string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"upper": func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	"inc":   func(i int) int { return i + 1 },
}).Parse(reportTemplateRaw))

// Template renders a deterministic report from built-in legal guidance. It
// needs no external service.
type Template struct {
	now func() time.Time
}

// TemplateOption configures NewTemplate
type TemplateOption func(*Template)

// WithTemplateClock replaces the clock printed in the report header
func WithTemplateClock(now func() time.Time) TemplateOption {
	return func(t *Template) {
		t.now = now
	}
}

// NewTemplate returns a template based generator
func NewTemplate(opts ...TemplateOption) *Template {
	t := &Template{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type reportData struct {
	Title        string
	CaseType     model.CaseType
	Subtype      model.Subtype
	Generated    string
	Statement    string
	Summary      string
	Observations []string
	Guidance     guidance
}

// Generate implements interfaces.AnalysisGenerator
func (t *Template) Generate(ctx context.Context, req *model.AnalysisRequest) (string, error) {
	title := strings.ToUpper(string(req.CaseType))
	if req.Subtype != model.SubtypeNone {
		title += " - " + strings.ToUpper(string(req.Subtype))
	}

	data := reportData{
		Title:        title,
		CaseType:     req.CaseType,
		Subtype:      req.Subtype,
		Generated:    t.now().Format("2006-01-02 15:04:05"),
		Statement:    req.Statement,
		Summary:      req.Summary,
		Observations: observations(req.Entities),
		Guidance:     guidanceOf(req.CaseType, req.Subtype),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render report template",
			goerr.V("case_type", req.CaseType), goerr.V("subtype", req.Subtype))
	}
	return buf.String(), nil
}

// observations turns the first fact of selected categories into sentences
func observations(e model.Entities) []string {
	var out []string
	if v := e[model.EntityDates]; len(v) > 0 {
		out = append(out, fmt.Sprintf("The incident occurred on %s. Time is crucial - act immediately.", v[0]))
	}
	if v := e[model.EntityLocations]; len(v) > 0 {
		out = append(out, fmt.Sprintf("Location: %s. Evidence collection at the scene is vital.", v[0]))
	}
	if v := e[model.EntityMonetaryValues]; len(v) > 0 {
		out = append(out, fmt.Sprintf("Value involved: %s.", v[0]))
	}
	if v := e[model.EntityItems]; len(v) > 0 {
		out = append(out, fmt.Sprintf("Items concerned: %s. Keep receipts and serial numbers.", strings.Join(v, ", ")))
	}
	if v := e[model.EntityParties]; len(v) > 0 {
		out = append(out, fmt.Sprintf("Parties involved: %s.", strings.Join(v, ", ")))
	}
	return out
}
