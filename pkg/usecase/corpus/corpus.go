package corpus

import (
	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/repository"
)

const defaultConcurrency = 4

// UseCase manages the legal provision corpus used to ground reports
type UseCase struct {
	repo        repository.Repository
	gemini      adapter.Gemini
	concurrency int
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithConcurrency sets how many provisions are embedded at once
func WithConcurrency(n int) Option {
	return func(uc *UseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// New creates a new corpus UseCase instance
func New(
	repo repository.Repository,
	gemini adapter.Gemini,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:        repo,
		gemini:      gemini,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
