package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// userSocial reserves a social account for one user.
type userSocial struct {
	UserID types.UserID `firestore:"user_id"`
}

func socialDocID(socialID string, socialType types.SocialType) string {
	return socialType.String() + ":" + socialID
}

// PutUser writes the user and its social index in one transaction, so a
// social account maps to at most one user.
func (r *Firestore) PutUser(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid user")
	}

	userRef := r.db.Collection(collectionUsers).Doc(u.ID.String())
	socialRef := r.db.Collection(collectionUserSocials).Doc(socialDocID(u.SocialID, u.SocialType))

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(socialRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			var owner userSocial
			if err := doc.DataTo(&owner); err != nil {
				return err
			}
			if owner.UserID != u.ID {
				return goerr.New("social account already registered",
					goerr.TV(errs.UserIDKey, owner.UserID),
					goerr.T(errs.TagConflict))
			}
		}

		if err := tx.Set(socialRef, userSocial{UserID: u.ID}); err != nil {
			return err
		}
		return tx.Set(userRef, u)
	})
	if err != nil {
		if goerr.HasTag(err, errs.TagConflict) {
			return err
		}
		return r.eb.Wrap(err, "failed to put user",
			goerr.TV(errs.UserIDKey, u.ID),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *Firestore) GetUser(ctx context.Context, id types.UserID) (*user.User, error) {
	doc, err := r.db.Collection(collectionUsers).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get user",
			goerr.TV(errs.UserIDKey, id),
			goerr.T(errs.TagStorage))
	}

	var u user.User
	if err := doc.DataTo(&u); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to user",
			goerr.TV(errs.UserIDKey, id),
			goerr.T(errs.TagInternal))
	}
	return &u, nil
}

func (r *Firestore) GetUserBySocial(ctx context.Context, socialID string, socialType types.SocialType) (*user.User, error) {
	doc, err := r.db.Collection(collectionUserSocials).Doc(socialDocID(socialID, socialType)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get user social index",
			goerr.V("social_id", socialID),
			goerr.V("social_type", socialType),
			goerr.T(errs.TagStorage))
	}

	var owner userSocial
	if err := doc.DataTo(&owner); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to user social index",
			goerr.T(errs.TagInternal))
	}
	return r.GetUser(ctx, owner.UserID)
}
