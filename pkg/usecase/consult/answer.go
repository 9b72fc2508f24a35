package consult

import (
	"context"
	"strings"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/question"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// AnswerResult carries either the next question or, when the interview has
// finished, the final report.
type AnswerResult struct {
	Question  string
	Report    *model.Report
	TurnsDone int
	MaxTurns  int
}

// Finished reports whether the answer closed the interview
func (r *AnswerResult) Finished() bool {
	return r.Report != nil
}

// Answer records the user's reply to the pending question of session id.
// The whole turn runs under the session lock and is applied only if every
// step succeeds; on failure the session is left as it was.
func (u *UseCase) Answer(ctx context.Context, id model.SessionID, answer string) (*AnswerResult, error) {
	ctx = logging.WithAttrs(ctx, "session_id", id)

	var result *AnswerResult
	err := u.sessions.WithLock(ctx, id, func(s *model.Session) error {
		if s.Finished() {
			return goerr.New("consultation already finished",
				goerr.T(model.TagState), goerr.V("session_id", id))
		}

		answer = strings.TrimSpace(answer)
		if answer == "" {
			return goerr.New("answer is required", goerr.T(model.TagInvalidArgument))
		}

		entities, err := u.extractor.Extract(ctx, answer)
		if err != nil {
			return goerr.Wrap(err, "failed to extract entities from answer",
				goerr.T(model.TagUpstream), goerr.V("session_id", id))
		}

		staged := s.Memory.Clone()
		staged.AddEntities(entities)
		turns := s.TurnsDone + 1

		if turns < s.MaxTurns {
			if next, ok := question.SelectNext(s.CaseType(), s.Subtype(), staged, s.AskedQuestions); ok {
				s.Memory = staged
				s.History = append(s.History, answer)
				s.TurnsDone = turns
				s.AskedQuestions = append(s.AskedQuestions, next)

				logging.From(ctx).Debug("turn accepted", "turns_done", turns, "max_turns", s.MaxTurns)
				result = &AnswerResult{Question: next, TurnsDone: turns, MaxTurns: s.MaxTurns}
				return nil
			}
			logging.From(ctx).Info("question catalog exhausted, finalizing early", "turns_done", turns)
		}

		report, err := u.finalize(ctx, s, staged, turns)
		if err != nil {
			return err
		}

		s.Memory = staged
		s.History = append(s.History, answer)
		s.TurnsDone = turns
		s.Report = report
		s.State = model.SessionStateDone

		logging.From(ctx).Info("consultation finished", "turns_done", turns)
		result = &AnswerResult{Report: report.Clone(), TurnsDone: turns, MaxTurns: s.MaxTurns}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Finished() {
		u.archiveReport(ctx, result.Report)
	}
	return result, nil
}

// finalize calls the analysis generator with the staged memory. The session
// stays in the finalizing state only while the generator runs; on failure it
// goes back to questioning so the turn can be retried.
func (u *UseCase) finalize(ctx context.Context, s *model.Session, memory *model.CaseMemory, turns int) (*model.Report, error) {
	s.State = model.SessionStateFinalizing

	statement, _ := memory.GetContext(model.ContextSituation)
	req := &model.AnalysisRequest{
		Summary:   memory.Summarize(),
		CaseType:  s.CaseType(),
		Subtype:   s.Subtype(),
		Statement: statement,
		Entities:  memory.Snapshot(),
	}

	text, err := u.generator.Generate(ctx, req)
	if err != nil {
		s.State = model.SessionStateQuestioning
		return nil, goerr.Wrap(err, "failed to generate analysis",
			goerr.T(model.TagUpstream), goerr.V("session_id", s.ID))
	}

	return &model.Report{
		SessionID:  s.ID,
		CaseType:   req.CaseType,
		Subtype:    req.Subtype,
		Text:       text,
		Entities:   req.Entities,
		Turns:      turns,
		FinishedAt: u.now(),
	}, nil
}
