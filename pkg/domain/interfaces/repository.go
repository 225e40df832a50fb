package interfaces

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
)

// Repository is the durable store. Getters return (nil, nil) when the entity
// does not exist.
type Repository interface {
	// Voice
	GetVoice(ctx context.Context, id types.VoiceID) (*voice.Voice, error)
	GetVoiceBySourceKey(ctx context.Context, key types.PromptKey) (*voice.Voice, error)
	// InsertVoiceIfAbsent stores v unless a voice with the same source key
	// exists. It returns the stored voice and whether v was inserted.
	InsertVoiceIfAbsent(ctx context.Context, v *voice.Voice) (*voice.Voice, bool, error)
	PutVoice(ctx context.Context, v *voice.Voice) error
	DeleteVoice(ctx context.Context, id types.VoiceID) error

	// Session
	PutSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, id types.SessionID) (*session.Session, error)
	GetUserSession(ctx context.Context, userID types.UserID, id types.SessionID) (*session.Session, error)
	DeleteSession(ctx context.Context, id types.SessionID) error
	// UpdateUserSession loads the session of the user, applies fn and stores
	// the result atomically. It returns (nil, nil) without calling fn when
	// the session does not exist. An error from fn is returned as is and
	// nothing is written.
	UpdateUserSession(ctx context.Context, userID types.UserID, id types.SessionID, fn func(s *session.Session) error) (*session.Session, error)
	// ListUserSessions returns sessions of a user, newest CreatedAt first.
	ListUserSessions(ctx context.Context, userID types.UserID, offset, limit int) ([]*session.Session, error)
	CountUserSessions(ctx context.Context, userID types.UserID) (int, error)
	GetLatestScoredSession(ctx context.Context, userID types.UserID) (*session.Session, error)
	// GetScoredSessionsBySpan returns scored sessions whose AnalyzeTime is in
	// [begin, end).
	GetScoredSessionsBySpan(ctx context.Context, userID types.UserID, begin, end time.Time) ([]*session.Session, error)

	// User
	PutUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id types.UserID) (*user.User, error)
	GetUserBySocial(ctx context.Context, socialID string, socialType types.SocialType) (*user.User, error)
}
