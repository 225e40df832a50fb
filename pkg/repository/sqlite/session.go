package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Sessions are stored as a JSON document with prompts and answers inline.
// The other columns only serve lookups.

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLite) PutSession(ctx context.Context, s *session.Session) error {
	return r.writeSession(ctx, r.db, s)
}

func (r *SQLite) writeSession(ctx context.Context, db execer, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid session")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return r.eb.Wrap(err, "failed to marshal session",
			goerr.TV(errs.SessionIDKey, s.ID),
			goerr.T(errs.TagInternal))
	}

	var analyzeTime sql.NullInt64
	if s.AnalyzeTime != nil {
		analyzeTime = sql.NullInt64{Int64: toUnix(*s.AnalyzeTime), Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, status, analyze_time, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			status = excluded.status,
			analyze_time = excluded.analyze_time,
			created_at = excluded.created_at,
			data = excluded.data`,
		s.ID.String(), s.UserID.String(), s.Status.String(), analyzeTime, toUnix(s.CreatedAt), string(data))
	if err != nil {
		return r.eb.Wrap(err, "failed to put session",
			goerr.TV(errs.SessionIDKey, s.ID),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *SQLite) decodeSession(data string) (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, r.eb.Wrap(err, "failed to unmarshal session", goerr.T(errs.TagInternal))
	}
	return &s, nil
}

func (r *SQLite) getSession(ctx context.Context, query string, args ...any) (*session.Session, error) {
	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to get session",
			goerr.V("args", args),
			goerr.T(errs.TagStorage))
	}
	return r.decodeSession(data)
}

func (r *SQLite) listSessions(ctx context.Context, query string, args ...any) ([]*session.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to query sessions",
			goerr.V("args", args),
			goerr.T(errs.TagStorage))
	}
	defer func() { _ = rows.Close() }()

	sessions := []*session.Session{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, r.eb.Wrap(err, "failed to scan session", goerr.T(errs.TagStorage))
		}
		s, err := r.decodeSession(data)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, r.eb.Wrap(err, "failed to iterate sessions", goerr.T(errs.TagStorage))
	}
	return sessions, nil
}

func (r *SQLite) GetSession(ctx context.Context, id types.SessionID) (*session.Session, error) {
	return r.getSession(ctx, "SELECT data FROM sessions WHERE id = ?", id.String())
}

func (r *SQLite) GetUserSession(ctx context.Context, userID types.UserID, id types.SessionID) (*session.Session, error) {
	return r.getSession(ctx, "SELECT data FROM sessions WHERE id = ? AND user_id = ?", id.String(), userID.String())
}

// UpdateUserSession holds the only connection for the whole transaction, so
// concurrent updates of the same session are applied one after another.
func (r *SQLite) UpdateUserSession(ctx context.Context, userID types.UserID, id types.SessionID, fn func(s *session.Session) error) (*session.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to begin transaction",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}
	defer func() { _ = tx.Rollback() }()

	var data string
	err = tx.QueryRowContext(ctx, "SELECT data FROM sessions WHERE id = ? AND user_id = ?", id.String(), userID.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to get session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}

	s, err := r.decodeSession(data)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := r.writeSession(ctx, tx, s); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, r.eb.Wrap(err, "failed to commit session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}
	return s, nil
}

func (r *SQLite) DeleteSession(ctx context.Context, id types.SessionID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id.String()); err != nil {
		return r.eb.Wrap(err, "failed to delete session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *SQLite) ListUserSessions(ctx context.Context, userID types.UserID, offset, limit int) ([]*session.Session, error) {
	if offset < 0 || limit < 0 {
		return nil, r.eb.New("invalid page",
			goerr.V("offset", offset),
			goerr.V("limit", limit),
			goerr.T(errs.TagInvalidArgument))
	}
	return r.listSessions(ctx,
		"SELECT data FROM sessions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID.String(), limit, offset)
}

func (r *SQLite) CountUserSessions(ctx context.Context, userID types.UserID) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE user_id = ?", userID.String()).Scan(&n); err != nil {
		return 0, r.eb.Wrap(err, "failed to count sessions",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagStorage))
	}
	return n, nil
}

func (r *SQLite) GetLatestScoredSession(ctx context.Context, userID types.UserID) (*session.Session, error) {
	return r.getSession(ctx,
		"SELECT data FROM sessions WHERE user_id = ? AND status = ? AND analyze_time IS NOT NULL ORDER BY analyze_time DESC LIMIT 1",
		userID.String(), types.SessionStatusScored.String())
}

func (r *SQLite) GetScoredSessionsBySpan(ctx context.Context, userID types.UserID, begin, end time.Time) ([]*session.Session, error) {
	return r.listSessions(ctx,
		"SELECT data FROM sessions WHERE user_id = ? AND status = ? AND analyze_time >= ? AND analyze_time < ? ORDER BY analyze_time ASC",
		userID.String(), types.SessionStatusScored.String(), toUnix(begin), toUnix(end))
}
