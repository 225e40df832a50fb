package memory

import (
	"context"
	"sort"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func (r *Memory) PutSession(ctx context.Context, s *session.Session) error {
	r.incrementCallCount("PutSession")
	if err := s.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid session")
	}

	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()

	r.sessions[s.ID] = s.Copy()
	return nil
}

func (r *Memory) GetSession(ctx context.Context, id types.SessionID) (*session.Session, error) {
	r.incrementCallCount("GetSession")
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.Copy(), nil
}

func (r *Memory) GetUserSession(ctx context.Context, userID types.UserID, id types.SessionID) (*session.Session, error) {
	r.incrementCallCount("GetUserSession")
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	return s.Copy(), nil
}

func (r *Memory) UpdateUserSession(ctx context.Context, userID types.UserID, id types.SessionID, fn func(s *session.Session) error) (*session.Session, error) {
	r.incrementCallCount("UpdateUserSession")
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()

	stored, ok := r.sessions[id]
	if !ok || stored.UserID != userID {
		return nil, nil
	}

	s := stored.Copy()
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, r.eb.Wrap(err, "invalid session")
	}

	r.sessions[id] = s.Copy()
	return s, nil
}

func (r *Memory) DeleteSession(ctx context.Context, id types.SessionID) error {
	r.incrementCallCount("DeleteSession")
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()

	delete(r.sessions, id)
	return nil
}

// userSessions returns sessions of userID, newest first. Caller holds the lock.
func (r *Memory) userSessions(userID types.UserID) []*session.Session {
	var sessions []*session.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions
}

func (r *Memory) ListUserSessions(ctx context.Context, userID types.UserID, offset, limit int) ([]*session.Session, error) {
	r.incrementCallCount("ListUserSessions")
	if offset < 0 || limit < 0 {
		return nil, r.eb.New("invalid page",
			goerr.V("offset", offset),
			goerr.V("limit", limit),
			goerr.T(errs.TagInvalidArgument))
	}

	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	sessions := r.userSessions(userID)
	if offset >= len(sessions) {
		return []*session.Session{}, nil
	}
	end := offset + limit
	if end > len(sessions) {
		end = len(sessions)
	}

	result := make([]*session.Session, 0, end-offset)
	for _, s := range sessions[offset:end] {
		result = append(result, s.Copy())
	}
	return result, nil
}

func (r *Memory) CountUserSessions(ctx context.Context, userID types.UserID) (int, error) {
	r.incrementCallCount("CountUserSessions")
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	var n int
	for _, s := range r.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *Memory) GetLatestScoredSession(ctx context.Context, userID types.UserID) (*session.Session, error) {
	r.incrementCallCount("GetLatestScoredSession")
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	var latest *session.Session
	for _, s := range r.sessions {
		if s.UserID != userID || !s.IsScored() {
			continue
		}
		if latest == nil || s.AnalyzeTime.After(*latest.AnalyzeTime) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Copy(), nil
}

func (r *Memory) GetScoredSessionsBySpan(ctx context.Context, userID types.UserID, begin, end time.Time) ([]*session.Session, error) {
	r.incrementCallCount("GetScoredSessionsBySpan")
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	var result []*session.Session
	for _, s := range r.sessions {
		if s.UserID != userID || !s.IsScored() {
			continue
		}
		if s.AnalyzeTime.Before(begin) || !s.AnalyzeTime.Before(end) {
			continue
		}
		result = append(result, s.Copy())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AnalyzeTime.Before(*result[j].AnalyzeTime)
	})
	return result, nil
}
