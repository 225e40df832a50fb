package user

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/m-mizutani/goerr/v2"
)

// Resolver looks users up by their "<socialID>_<socialType>" reference.
type Resolver struct {
	repo interfaces.Repository
}

var _ interfaces.UserResolver = &Resolver{}

func NewResolver(repo interfaces.Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (x *Resolver) LookupUser(ctx context.Context, ref string) (*user.User, error) {
	socialID, socialType, err := user.ParseRef(ref)
	if err != nil {
		return nil, err
	}

	u, err := x.repo.GetUserBySocial(ctx, socialID, socialType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up user",
			goerr.TV(errs.UserRefKey, ref),
			goerr.T(errs.TagStorage))
	}
	if u == nil {
		return nil, goerr.New("user not found",
			goerr.TV(errs.UserRefKey, ref),
			goerr.T(errs.TagNotFound))
	}
	return u, nil
}
