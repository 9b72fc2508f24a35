package analysis

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/interfaces"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

//go:embed prompt/analysis.md
var analysisPromptRaw string

var analysisPromptTmpl = template.Must(template.New("analysis").Parse(analysisPromptRaw))

const defaultProvisionLimit = 5

// Gemini drafts the report with a Gemini model, grounded on provisions
// found by an optional retriever.
type Gemini struct {
	client    adapter.Gemini
	retriever interfaces.ProvisionRetriever
	limit     int
}

// GeminiOption configures NewGemini
type GeminiOption func(*Gemini)

// WithRetriever adds provision retrieval to the prompt
func WithRetriever(r interfaces.ProvisionRetriever) GeminiOption {
	return func(g *Gemini) {
		g.retriever = r
	}
}

// WithProvisionLimit sets how many provisions are put in the prompt
func WithProvisionLimit(n int) GeminiOption {
	return func(g *Gemini) {
		if n > 0 {
			g.limit = n
		}
	}
}

// NewGemini creates a Gemini based generator
func NewGemini(client adapter.Gemini, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		client: client,
		limit:  defaultProvisionLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements interfaces.AnalysisGenerator
func (g *Gemini) Generate(ctx context.Context, req *model.AnalysisRequest) (string, error) {
	var provisions []*model.Provision
	if g.retriever != nil {
		found, err := g.retriever.SearchProvisions(ctx, req.Summary, req.CaseType, g.limit)
		if err != nil {
			// retrieval only enriches the prompt
			logging.From(ctx).Warn("provision retrieval failed, drafting without provisions", "error", err)
		} else {
			provisions = found
		}
	}

	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, map[string]any{
		"CaseType":   req.CaseType,
		"Subtype":    req.Subtype,
		"Statement":  req.Statement,
		"Summary":    req.Summary,
		"Provisions": provisions,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute analysis prompt template")
	}

	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText("You are a careful legal assistant for Indian law.", ""),
		Temperature:       ptrFloat32(0.2),
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  &thinkingBudget,
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromText(buf.String(), genai.RoleUser),
	}

	resp, err := g.client.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate analysis")
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("invalid response structure from gemini")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	if len(parts) == 0 {
		return "", goerr.New("gemini returned no text")
	}

	logging.From(ctx).Debug("analysis generated", "provisions", len(provisions))
	return strings.Join(parts, ""), nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
