package usecase

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// RegisterUser creates a user for a social login. A social account can be
// registered once.
func (u *UseCases) RegisterUser(ctx context.Context, socialID string, socialType types.SocialType) (*user.User, error) {
	newUser, err := user.New(ctx, socialID, socialType)
	if err != nil {
		return nil, err
	}

	existing, err := u.repository.GetUserBySocial(ctx, socialID, socialType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up user", goerr.T(errs.TagStorage))
	}
	if existing != nil {
		return nil, goerr.New("user already registered",
			goerr.TV(errs.UserIDKey, existing.ID),
			goerr.TV(errs.UserRefKey, existing.Ref()),
			goerr.T(errs.TagConflict))
	}

	if err := u.repository.PutUser(ctx, newUser); err != nil {
		if goerr.HasTag(err, errs.TagConflict) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to save user",
			goerr.TV(errs.UserIDKey, newUser.ID),
			goerr.T(errs.TagStorage))
	}

	logging.From(ctx).Info("user registered", "user_id", newUser.ID, "social_type", socialType)
	return newUser, nil
}

func (u *UseCases) LookupUser(ctx context.Context, ref string) (*user.User, error) {
	return u.userResolver.LookupUser(ctx, ref)
}
