package usecase

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// WarmVoices fills the voice cache for the whole prompt catalog.
func (u *UseCases) WarmVoices(ctx context.Context) ([]*voice.Voice, error) {
	contents := prompt.All()
	voices, err := u.voices.ResolvePrompts(ctx, contents)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to warm voice cache")
	}

	logging.From(ctx).Info("voice cache warmed", "prompts", len(voices))
	return voices, nil
}

// GetVoiceAudio reads the audio of a voice that belongs to the session,
// either a prompt voice or a recorded answer.
func (u *UseCases) GetVoiceAudio(ctx context.Context, userID types.UserID, sessionID types.SessionID, voiceID types.VoiceID) (*voice.Voice, []byte, error) {
	s, err := u.getUserSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	var found *voice.Voice
	for _, p := range s.Prompts {
		if p.Voice != nil && p.Voice.ID == voiceID {
			found = p.Voice
		}
	}
	for _, v := range s.AnswerVoices() {
		if v != nil && v.ID == voiceID {
			found = v
		}
	}
	if found == nil {
		return nil, nil, goerr.New("voice not found in session",
			goerr.TV(errs.SessionIDKey, sessionID),
			goerr.TV(errs.VoiceIDKey, voiceID),
			goerr.T(errs.TagNotFound))
	}

	data, err := u.storage.Get(ctx, found.StoredName)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get voice audio", goerr.TV(errs.VoiceIDKey, voiceID))
	}
	return found, data, nil
}
