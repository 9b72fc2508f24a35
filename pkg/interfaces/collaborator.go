package interfaces

import (
	"context"

	"github.com/m-mizutani/chatlaw/pkg/model"
)

// Classifier decides the case type (and subtype) of a legal query. It must be
// a pure function of its input.
type Classifier interface {
	Classify(ctx context.Context, text string) (*model.Classification, error)
}

// Extractor pulls categorized facts out of free text. Empty value lists are
// allowed for any category.
type Extractor interface {
	Extract(ctx context.Context, text string) (model.Entities, error)
}

// AnalysisGenerator drafts the final report of a consultation. It is called
// at most once per session and may be slow.
type AnalysisGenerator interface {
	Generate(ctx context.Context, req *model.AnalysisRequest) (string, error)
}

// ProvisionRetriever finds legal provisions relevant to a case summary
type ProvisionRetriever interface {
	SearchProvisions(ctx context.Context, query string, caseType model.CaseType, limit int) ([]*model.Provision, error)
}

// ReportArchive keeps finished reports after the session itself is gone
type ReportArchive interface {
	PutReport(ctx context.Context, report *model.Report) error
}
