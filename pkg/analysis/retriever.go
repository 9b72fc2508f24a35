package analysis

import (
	"context"

	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// Retriever finds provisions by embedding the query and running a vector
// search over the stored corpus.
type Retriever struct {
	embedder adapter.Gemini
	repo     repository.Repository
}

// NewRetriever creates a Retriever
func NewRetriever(embedder adapter.Gemini, repo repository.Repository) *Retriever {
	return &Retriever{embedder: embedder, repo: repo}
}

// SearchProvisions implements interfaces.ProvisionRetriever. Provisions of
// the case type are preferred; if none match, the whole corpus is searched.
func (r *Retriever) SearchProvisions(ctx context.Context, query string, caseType model.CaseType, limit int) ([]*model.Provision, error) {
	embedding, err := r.embedder.Embed(ctx, query, adapter.TaskRetrievalQuery)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	provisions, err := r.repo.FindProvisions(ctx, embedding, caseType, limit)
	if err != nil {
		return nil, err
	}
	if len(provisions) > 0 || caseType == "" {
		return provisions, nil
	}

	return r.repo.FindProvisions(ctx, embedding, "", limit)
}
