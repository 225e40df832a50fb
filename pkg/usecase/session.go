package usecase

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

func (u *UseCases) requireUser(ctx context.Context, userID types.UserID) error {
	found, err := u.repository.GetUser(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to get user",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagStorage))
	}
	if found == nil {
		return goerr.New("user not found",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagNotFound))
	}
	return nil
}

func (u *UseCases) getUserSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*session.Session, error) {
	if err := sessionID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session ID", goerr.T(errs.TagInvalidArgument))
	}

	s, err := u.repository.GetUserSession(ctx, userID, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.T(errs.TagStorage))
	}
	if s == nil {
		return nil, goerr.New("session not found",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagNotFound))
	}
	return s, nil
}

func (u *UseCases) putSession(ctx context.Context, s *session.Session) error {
	if err := u.repository.PutSession(ctx, s); err != nil {
		return goerr.Wrap(err, "failed to save session",
			goerr.TV(errs.SessionIDKey, s.ID),
			goerr.T(errs.TagStorage))
	}
	return nil
}

// CreateSession selects prompts, voices each of them through the cache and
// stores a session that waits for answers.
func (u *UseCases) CreateSession(ctx context.Context, userID types.UserID) (*session.Session, error) {
	if err := u.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	contents, err := u.promptSelector.SelectPrompts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select prompts", goerr.TV(errs.UserIDKey, userID))
	}

	s, err := session.New(ctx, userID, contents)
	if err != nil {
		return nil, err
	}

	voices, err := u.voices.ResolvePrompts(ctx, contents)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare prompt voices", goerr.TV(errs.SessionIDKey, s.ID))
	}
	for i, p := range s.Prompts {
		if err := s.AttachPromptVoice(p.ID, voices[i]); err != nil {
			return nil, err
		}
	}
	if err := s.MarkAwaitingAnswers(ctx); err != nil {
		return nil, err
	}

	if err := u.putSession(ctx, s); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("session created",
		"session_id", s.ID,
		"user_id", userID,
		"prompts", len(s.Prompts))
	return s, nil
}

// RecordAnswer uploads a recording and attaches it to a prompt of the
// session.
func (u *UseCases) RecordAnswer(ctx context.Context, userID types.UserID, sessionID types.SessionID, promptID types.PromptID, audio *voice.Audio) (*session.Answer, error) {
	if audio == nil || len(audio.Data) == 0 {
		return nil, goerr.New("answer audio is empty",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.T(errs.TagInvalidArgument))
	}

	s, err := u.getUserSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	// Reject early so nothing is uploaded for a session that can't take it.
	if s.Status != types.SessionStatusAwaitingAnswers {
		return nil, goerr.New("session is not accepting answers",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.TV(errs.StatusKey, s.Status),
			goerr.T(errs.TagInvariant))
	}
	if s.Prompt(promptID) == nil {
		return nil, goerr.New("prompt not found in session",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.TV(errs.PromptIDKey, promptID),
			goerr.T(errs.TagNotFound))
	}

	voiceID := types.NewVoiceID()
	storedName := voice.RecordedName(voiceID, audio.Ext)
	url, err := u.storage.Put(ctx, storedName, audio.Data)
	if err != nil {
		return nil, err
	}
	recorded := voice.NewRecorded(ctx, voiceID, storedName, audio, url)

	if err := u.repository.PutVoice(ctx, recorded); err != nil {
		u.discardRecording(ctx, recorded)
		return nil, goerr.Wrap(err, "failed to save answer voice",
			goerr.TV(errs.VoiceIDKey, recorded.ID),
			goerr.T(errs.TagStorage))
	}

	// Uploads for other prompts of the same session may run in parallel, so
	// the answer is attached to the stored session in one atomic update.
	var answer *session.Answer
	updated, err := u.repository.UpdateUserSession(ctx, userID, sessionID, func(s *session.Session) error {
		a, err := s.AttachAnswer(ctx, promptID, recorded)
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	if err == nil && updated == nil {
		err = goerr.New("session not found",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagNotFound))
	}
	if err != nil {
		u.forgetRecording(ctx, recorded)
		return nil, err
	}

	logging.From(ctx).Info("answer recorded",
		"session_id", s.ID,
		"prompt_id", promptID,
		"voice_id", recorded.ID,
		"size", humanize.Bytes(uint64(recorded.Size)))
	return answer, nil
}

// forgetRecording removes both the record and the audio of a recording that
// could not be attached.
func (u *UseCases) forgetRecording(ctx context.Context, v *voice.Voice) {
	if err := u.repository.DeleteVoice(ctx, v.ID); err != nil {
		logging.From(ctx).Warn("failed to delete unattached voice",
			"voice_id", v.ID,
			logging.ErrAttr(err))
	}
	u.discardRecording(ctx, v)
}

func (u *UseCases) discardRecording(ctx context.Context, v *voice.Voice) {
	if err := u.storage.Delete(ctx, v.StoredName); err != nil {
		logging.From(ctx).Warn("failed to discard recording",
			"voice_id", v.ID,
			logging.ErrAttr(err))
	}
}

// ScoreSession sends every answer to the analysis service and stores the
// resulting feeling state. On any failure the stored session is left as it
// was.
func (u *UseCases) ScoreSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*session.Session, error) {
	s, err := u.getUserSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.BeginScoring(); err != nil {
		return nil, err
	}

	if u.emotion == nil {
		s.AbortScoring()
		return nil, goerr.New("emotion analyzer is not configured",
			goerr.TV(errs.SessionIDKey, s.ID),
			goerr.T(errs.TagInternal))
	}

	scores, err := u.emotion.AnalyzeAnswers(ctx, s.AnswerVoices())
	if err != nil {
		s.AbortScoring()
		return nil, goerr.Wrap(err, "failed to analyze answers", goerr.TV(errs.SessionIDKey, s.ID))
	}

	// Scores are applied to the stored session so answers that changed during
	// analysis fail the bijection check instead of being overwritten.
	s, err = u.repository.UpdateUserSession(ctx, userID, sessionID, func(stored *session.Session) error {
		if err := stored.BeginScoring(); err != nil {
			return err
		}
		return stored.ApplyScores(ctx, scores)
	})
	if err != nil {
		if goerr.HasTag(err, errs.TagInvariant) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to save scored session",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.T(errs.TagStorage))
	}
	if s == nil {
		return nil, goerr.New("session not found",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagNotFound))
	}

	logging.From(ctx).Info("session scored",
		"session_id", s.ID,
		"feeling_state", *s.FeelingState,
		"answers", len(s.Answers))
	return s, nil
}

func (u *UseCases) GetSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*session.Session, error) {
	return u.getUserSession(ctx, userID, sessionID)
}

// ListSessions returns the zero-based page of a user's sessions.
func (u *UseCases) ListSessions(ctx context.Context, userID types.UserID, page int) (*session.Page, error) {
	if page < 0 {
		return nil, goerr.New("page must not be negative",
			goerr.V("page", page),
			goerr.T(errs.TagInvalidArgument))
	}

	total, err := u.repository.CountUserSessions(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count sessions",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagStorage))
	}

	sessions, err := u.repository.ListUserSessions(ctx, userID, page*session.PageSize, session.PageSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagStorage))
	}

	return &session.Page{
		Sessions:   sessions,
		Page:       page,
		TotalPages: session.TotalPages(total, session.PageSize),
		TotalCount: total,
	}, nil
}

// LatestSession returns the most recently scored session.
func (u *UseCases) LatestSession(ctx context.Context, userID types.UserID) (*session.Session, error) {
	s, err := u.repository.GetLatestScoredSession(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest session",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagStorage))
	}
	if s == nil {
		return nil, goerr.New("no scored session",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagNotFound))
	}
	return s, nil
}

// DeleteSession removes the session together with its recorded answers.
// Cached prompt voices are shared and stay.
func (u *UseCases) DeleteSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) error {
	s, err := u.getUserSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	// Recordings go first so a failed delete can be retried.
	for _, v := range s.RecordedVoices() {
		if err := u.storage.Delete(ctx, v.StoredName); err != nil {
			return goerr.Wrap(err, "failed to delete answer audio", goerr.TV(errs.SessionIDKey, s.ID))
		}
		if err := u.repository.DeleteVoice(ctx, v.ID); err != nil {
			return goerr.Wrap(err, "failed to delete answer voice",
				goerr.TV(errs.SessionIDKey, s.ID),
				goerr.TV(errs.VoiceIDKey, v.ID),
				goerr.T(errs.TagStorage))
		}
	}

	if err := u.repository.DeleteSession(ctx, s.ID); err != nil {
		return goerr.Wrap(err, "failed to delete session",
			goerr.TV(errs.SessionIDKey, s.ID),
			goerr.T(errs.TagStorage))
	}

	logging.From(ctx).Info("session deleted", "session_id", s.ID, "user_id", userID)
	return nil
}
