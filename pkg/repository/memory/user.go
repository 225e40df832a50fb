package memory

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func socialKey(socialID string, socialType types.SocialType) string {
	return socialID + "\x00" + socialType.String()
}

func (r *Memory) PutUser(ctx context.Context, u *user.User) error {
	r.incrementCallCount("PutUser")
	if err := u.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid user")
	}

	r.userMu.Lock()
	defer r.userMu.Unlock()

	key := socialKey(u.SocialID, u.SocialType)
	if id, ok := r.usersBySocial[key]; ok && id != u.ID {
		return r.eb.New("social account already registered",
			goerr.TV(errs.UserIDKey, id),
			goerr.T(errs.TagConflict))
	}

	c := *u
	r.users[u.ID] = &c
	r.usersBySocial[key] = u.ID
	return nil
}

func (r *Memory) GetUser(ctx context.Context, id types.UserID) (*user.User, error) {
	r.incrementCallCount("GetUser")
	r.userMu.RLock()
	defer r.userMu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *Memory) GetUserBySocial(ctx context.Context, socialID string, socialType types.SocialType) (*user.User, error) {
	r.incrementCallCount("GetUserBySocial")
	r.userMu.RLock()
	defer r.userMu.RUnlock()

	id, ok := r.usersBySocial[socialKey(socialID, socialType)]
	if !ok {
		return nil, nil
	}
	c := *r.users[id]
	return &c, nil
}
