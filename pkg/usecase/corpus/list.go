package corpus

import (
	"context"

	"github.com/m-mizutani/chatlaw/pkg/model"
)

// ListOptions contains options for listing provisions
type ListOptions struct {
	CaseType model.CaseType
	Offset   int
	Limit    int
}

// List retrieves stored provisions, optionally of one case type
func (u *UseCase) List(
	ctx context.Context,
	opts ListOptions,
) ([]*model.Provision, error) {
	provisions, err := u.repo.ListProvisions(ctx, opts.Offset, opts.Limit)
	if err != nil {
		return nil, err
	}

	if opts.CaseType != "" {
		filtered := make([]*model.Provision, 0, len(provisions))
		for _, p := range provisions {
			if p.CaseType == opts.CaseType {
				filtered = append(filtered, p)
			}
		}
		return filtered, nil
	}

	return provisions, nil
}
