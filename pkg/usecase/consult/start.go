package consult

import (
	"context"
	"strings"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/question"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// StartResult is returned when a consultation is opened
type StartResult struct {
	SessionID  model.SessionID
	Question   string
	CaseType   model.CaseType
	Subtype    model.Subtype
	Confidence float64
	MaxTurns   int
}

// Start opens a consultation for query and returns its first question. No
// session is registered unless every step succeeds. maxTurns < 1 selects the
// default ceiling.
func (u *UseCase) Start(ctx context.Context, query string, maxTurns int) (*StartResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, goerr.New("query is required", goerr.T(model.TagInvalidArgument))
	}
	if maxTurns < 1 {
		maxTurns = u.defaultMaxTurns
	}

	// Classification and extraction are independent pure calls, and no
	// session exists yet, so they run concurrently without any lock.
	var (
		classification *model.Classification
		entities       model.Entities
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		c, err := u.classifier.Classify(egCtx, query)
		if err != nil {
			return goerr.Wrap(err, "failed to classify query", goerr.T(model.TagUpstream))
		}
		if c == nil {
			return goerr.New("classifier returned no result", goerr.T(model.TagUpstream))
		}
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "classifier returned invalid result", goerr.T(model.TagUpstream))
		}
		classification = c
		return nil
	})
	eg.Go(func() error {
		e, err := u.extractor.Extract(egCtx, query)
		if err != nil {
			return goerr.Wrap(err, "failed to extract entities from query", goerr.T(model.TagUpstream))
		}
		entities = e
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	memory := model.NewCaseMemory()
	if err := memory.SetContext(model.ContextCaseType, string(classification.CaseType)); err != nil {
		return nil, goerr.Wrap(err, "failed to set case type")
	}
	if classification.Subtype != model.SubtypeNone {
		if err := memory.SetContext(model.ContextSubtype, string(classification.Subtype)); err != nil {
			return nil, goerr.Wrap(err, "failed to set subtype")
		}
	}
	if err := memory.SetContext(model.ContextSituation, query); err != nil {
		return nil, goerr.Wrap(err, "failed to set situation")
	}
	memory.AddEntities(entities)

	first, ok := question.SelectNext(classification.CaseType, classification.Subtype, memory, nil)
	if !ok {
		return nil, goerr.New("question catalog is empty",
			goerr.T(model.TagState),
			goerr.V("case_type", classification.CaseType),
			goerr.V("subtype", classification.Subtype))
	}

	session := &model.Session{
		History:        []string{query},
		Memory:         memory,
		AskedQuestions: []string{first},
		TurnsDone:      0,
		MaxTurns:       maxTurns,
		State:          model.SessionStateQuestioning,
		Confidence:     classification.Confidence,
		CreatedAt:      u.now(),
	}

	id, err := u.sessions.Create(ctx, session)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to register session")
	}

	logging.From(ctx).Info("consultation started",
		"session_id", id,
		"case_type", classification.CaseType,
		"subtype", classification.Subtype,
		"confidence", classification.Confidence,
		"max_turns", maxTurns,
	)

	return &StartResult{
		SessionID:  id,
		Question:   first,
		CaseType:   classification.CaseType,
		Subtype:    classification.Subtype,
		Confidence: classification.Confidence,
		MaxTurns:   maxTurns,
	}, nil
}
