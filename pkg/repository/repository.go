package repository

import (
	"context"

	"github.com/m-mizutani/chatlaw/pkg/model"
)

// Repository persists the legal provision corpus and finished consultations.
// Live sessions are never stored here; see SessionStore.
type Repository interface {
	// PutProvision saves a provision, overwriting one with the same ID
	PutProvision(ctx context.Context, provision *model.Provision) error

	// GetProvision retrieves a provision by ID
	GetProvision(ctx context.Context, id model.ProvisionID) (*model.Provision, error)

	// ListProvisions retrieves provisions ordered by title
	ListProvisions(ctx context.Context, offset, limit int) ([]*model.Provision, error)

	// FindProvisions performs vector search over provision embeddings. An
	// empty caseType searches the whole corpus.
	FindProvisions(ctx context.Context, embedding []float32, caseType model.CaseType, limit int) ([]*model.Provision, error)

	// PutReport archives the report of a finished consultation
	PutReport(ctx context.Context, report *model.Report) error

	// GetReport retrieves an archived report by session ID
	GetReport(ctx context.Context, id model.SessionID) (*model.Report, error)

	// ListReports retrieves archived reports, newest first
	ListReports(ctx context.Context, offset, limit int) ([]*model.Report, error)
}
