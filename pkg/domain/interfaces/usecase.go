package interfaces

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/model/trend"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
)

// ApiUsecases is what the HTTP controller and CLI drive.
type ApiUsecases interface {
	RegisterUser(ctx context.Context, socialID string, socialType types.SocialType) (*user.User, error)
	LookupUser(ctx context.Context, ref string) (*user.User, error)

	CreateSession(ctx context.Context, userID types.UserID) (*session.Session, error)
	RecordAnswer(ctx context.Context, userID types.UserID, sessionID types.SessionID, promptID types.PromptID, audio *voice.Audio) (*session.Answer, error)
	ScoreSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*session.Session, error)
	GetSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*session.Session, error)
	ListSessions(ctx context.Context, userID types.UserID, page int) (*session.Page, error)
	LatestSession(ctx context.Context, userID types.UserID) (*session.Session, error)
	DeleteSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) error

	WeeklyTrend(ctx context.Context, userID types.UserID, asOf time.Time) ([]trend.Point, error)
	DailyTrend(ctx context.Context, userID types.UserID, from, to time.Time) ([]trend.Point, error)

	WarmVoices(ctx context.Context) ([]*voice.Voice, error)
	GetVoiceAudio(ctx context.Context, userID types.UserID, sessionID types.SessionID, voiceID types.VoiceID) (*voice.Voice, []byte, error)
}
