package consult

import (
	"context"
	"time"

	"github.com/m-mizutani/chatlaw/pkg/interfaces"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/repository"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
)

// UseCase runs lawyer-style fact-gathering interviews. It owns the session
// store; collaborators are injected.
type UseCase struct {
	classifier interfaces.Classifier
	extractor  interfaces.Extractor
	generator  interfaces.AnalysisGenerator
	archive    interfaces.ReportArchive

	sessions        *repository.SessionStore
	now             func() time.Time
	defaultMaxTurns int
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithSessionStore replaces the session store
func WithSessionStore(store *repository.SessionStore) Option {
	return func(uc *UseCase) {
		uc.sessions = store
	}
}

// WithArchive sets where finished reports are kept
func WithArchive(archive interfaces.ReportArchive) Option {
	return func(uc *UseCase) {
		uc.archive = archive
	}
}

// WithClock replaces the clock used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// WithDefaultMaxTurns sets the turn ceiling used when Start gets maxTurns < 1
func WithDefaultMaxTurns(n int) Option {
	return func(uc *UseCase) {
		if n > 0 {
			uc.defaultMaxTurns = n
		}
	}
}

// New creates a new consultation UseCase instance
func New(
	classifier interfaces.Classifier,
	extractor interfaces.Extractor,
	generator interfaces.AnalysisGenerator,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		classifier:      classifier,
		extractor:       extractor,
		generator:       generator,
		now:             time.Now,
		defaultMaxTurns: model.DefaultMaxTurns,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.sessions == nil {
		uc.sessions = repository.NewSessionStore()
	}

	return uc
}

// Sessions returns the session store, e.g. to run its janitor
func (u *UseCase) Sessions() *repository.SessionStore {
	return u.sessions
}

// Session returns a read-only copy of a session
func (u *UseCase) Session(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return u.sessions.Get(ctx, id)
}

func (u *UseCase) archiveReport(ctx context.Context, report *model.Report) {
	if u.archive == nil {
		return
	}
	if err := u.archive.PutReport(ctx, report); err != nil {
		logging.From(ctx).Error("failed to archive report", "error", err)
		return
	}
	logging.From(ctx).Debug("report archived")
}
