package classify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/chatlaw/pkg/interfaces"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/topdown/print"
)

// PolicyQuery is the Rego query evaluated by Policy
const PolicyQuery = "data.classify"

// regoPrintHook sends Rego print() output to the context logger
type regoPrintHook struct{}

func (h *regoPrintHook) Print(pctx print.Context, message string) error {
	ctx := pctx.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logging.From(ctx).Debug("rego print", "message", message)
	return nil
}

// Policy classifies with user supplied Rego rules. The policy receives
// {"text": ..., "lower": ...} and may set case_type, subtype and confidence
// under package classify. When it sets no case_type the fallback decides.
type Policy struct {
	query    *rego.PreparedEvalQuery
	fallback interfaces.Classifier
}

// NewPolicy loads every .rego file in policyDir. A directory without policy
// files yields a Policy that always delegates to fallback.
func NewPolicy(ctx context.Context, policyDir string, fallback interfaces.Classifier) (*Policy, error) {
	query, err := loadPolicy(ctx, policyDir)
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		fallback = NewKeyword()
	}
	return &Policy{query: query, fallback: fallback}, nil
}

func loadPolicy(ctx context.Context, policyDir string) (*rego.PreparedEvalQuery, error) {
	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files", goerr.V("dir", policyDir))
	}
	if len(files) == 0 {
		logging.From(ctx).Warn("no classification policy found", "dir", policyDir)
		return nil, nil
	}

	options := make([]func(*rego.Rego), 0, len(files)+2)
	options = append(options, rego.Query(PolicyQuery), rego.EnablePrintStatements(true))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", file))
		}
		options = append(options, rego.Module(file, string(data)))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare policy query", goerr.V("query", PolicyQuery))
	}

	logging.From(ctx).Debug("classification policy loaded", "files", len(files))
	return &prepared, nil
}

// Classify implements interfaces.Classifier
func (p *Policy) Classify(ctx context.Context, text string) (*model.Classification, error) {
	if p.query == nil {
		return p.fallback.Classify(ctx, text)
	}

	input := map[string]any{
		"text":  text,
		"lower": strings.ToLower(text),
	}
	rs, err := p.query.Eval(ctx, rego.EvalInput(input), rego.EvalPrintHook(&regoPrintHook{}))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate classification policy")
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return p.fallback.Classify(ctx, text)
	}

	data, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return p.fallback.Classify(ctx, text)
	}

	caseType := model.CaseType(getString(data, "case_type"))
	if caseType == "" {
		return p.fallback.Classify(ctx, text)
	}

	result := &model.Classification{
		CaseType:   caseType,
		Subtype:    model.Subtype(getString(data, "subtype")),
		Confidence: getFloat(data, "confidence", 1.0),
	}
	if err := result.Validate(); err != nil {
		return nil, goerr.Wrap(err, "policy returned invalid classification")
	}

	logging.From(ctx).Debug("classified by policy",
		"case_type", result.CaseType,
		"subtype", result.Subtype,
		"confidence", result.Confidence,
	)
	return result, nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getFloat(m map[string]any, key string, def float64) float64 {
	switch v := m[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
