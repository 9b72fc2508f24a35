package consult

import (
	"context"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Report returns the final report of a finished consultation
func (u *UseCase) Report(ctx context.Context, id model.SessionID) (*model.Report, error) {
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Finished() || session.Report == nil {
		return nil, goerr.New("consultation is still in progress",
			goerr.T(model.TagState),
			goerr.V("session_id", id),
			goerr.V("turns_done", session.TurnsDone))
	}
	return session.Report, nil
}
