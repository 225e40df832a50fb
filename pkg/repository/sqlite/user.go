package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func (r *SQLite) PutUser(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid user")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.eb.Wrap(err, "failed to begin transaction", goerr.T(errs.TagStorage))
	}
	defer func() { _ = tx.Rollback() }()

	var owner string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE social_id = ? AND social_type = ?",
		u.SocialID, u.SocialType.String()).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return r.eb.Wrap(err, "failed to check social account", goerr.T(errs.TagStorage))
	case owner != u.ID.String():
		return r.eb.New("social account already registered",
			goerr.TV(errs.UserIDKey, types.UserID(owner)),
			goerr.T(errs.TagConflict))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, social_id, social_type, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			social_id = excluded.social_id,
			social_type = excluded.social_type,
			created_at = excluded.created_at`,
		u.ID.String(), u.SocialID, u.SocialType.String(), toUnix(u.CreatedAt))
	if err != nil {
		return r.eb.Wrap(err, "failed to put user",
			goerr.TV(errs.UserIDKey, u.ID),
			goerr.T(errs.TagStorage))
	}

	if err := tx.Commit(); err != nil {
		return r.eb.Wrap(err, "failed to commit user", goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *SQLite) queryUser(ctx context.Context, query string, args ...any) (*user.User, error) {
	var (
		u         user.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.SocialID, &u.SocialType, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to get user",
			goerr.V("args", args),
			goerr.T(errs.TagStorage))
	}
	u.CreatedAt = fromUnix(createdAt)
	return &u, nil
}

func (r *SQLite) GetUser(ctx context.Context, id types.UserID) (*user.User, error) {
	return r.queryUser(ctx, "SELECT id, social_id, social_type, created_at FROM users WHERE id = ?", id.String())
}

func (r *SQLite) GetUserBySocial(ctx context.Context, socialID string, socialType types.SocialType) (*user.User, error) {
	return r.queryUser(ctx,
		"SELECT id, social_id, social_type, created_at FROM users WHERE social_id = ? AND social_type = ?",
		socialID, socialType.String())
}
