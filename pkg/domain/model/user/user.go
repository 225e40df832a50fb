package user

import (
	"context"
	"strings"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
)

type User struct {
	ID         types.UserID     `json:"id" firestore:"id"`
	SocialID   string           `json:"social_id" firestore:"social_id"`
	SocialType types.SocialType `json:"social_type" firestore:"social_type"`
	CreatedAt  time.Time        `json:"created_at" firestore:"created_at"`
}

func New(ctx context.Context, socialID string, socialType types.SocialType) (*User, error) {
	u := &User{
		ID:         types.NewUserID(),
		SocialID:   socialID,
		SocialType: socialType,
		CreatedAt:  clock.Now(ctx),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (x *User) Validate() error {
	if x.SocialID == "" {
		return goerr.New("social ID is empty", goerr.T(errs.TagInvalidArgument))
	}
	if strings.Contains(x.SocialID, refSeparator) {
		return goerr.New("social ID must not contain separator",
			goerr.V("social_id", x.SocialID),
			goerr.T(errs.TagInvalidArgument))
	}
	if err := x.SocialType.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user", goerr.T(errs.TagInvalidArgument))
	}
	return nil
}

const refSeparator = "_"

// Ref is the opaque reference clients use to identify themselves.
func (x *User) Ref() string {
	return x.SocialID + refSeparator + x.SocialType.String()
}

// ParseRef splits "<socialID>_<socialType>".
func ParseRef(ref string) (string, types.SocialType, error) {
	idx := strings.LastIndex(ref, refSeparator)
	if idx <= 0 || idx == len(ref)-1 {
		return "", "", goerr.New("malformed user reference",
			goerr.TV(errs.UserRefKey, ref),
			goerr.T(errs.TagInvalidArgument))
	}

	socialType := types.SocialType(ref[idx+1:])
	if err := socialType.Validate(); err != nil {
		return "", "", goerr.Wrap(err, "malformed user reference",
			goerr.TV(errs.UserRefKey, ref),
			goerr.T(errs.TagInvalidArgument))
	}
	return ref[:idx], socialType, nil
}
