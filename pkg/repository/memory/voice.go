package memory

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func copyVoice(v *voice.Voice) *voice.Voice {
	c := *v
	return &c
}

func (r *Memory) GetVoice(ctx context.Context, id types.VoiceID) (*voice.Voice, error) {
	r.incrementCallCount("GetVoice")
	r.voiceMu.RLock()
	defer r.voiceMu.RUnlock()

	v, ok := r.voices[id]
	if !ok {
		return nil, nil
	}
	return copyVoice(v), nil
}

func (r *Memory) GetVoiceBySourceKey(ctx context.Context, key types.PromptKey) (*voice.Voice, error) {
	r.incrementCallCount("GetVoiceBySourceKey")
	r.voiceMu.RLock()
	defer r.voiceMu.RUnlock()

	id, ok := r.voicesByKey[key]
	if !ok {
		return nil, nil
	}
	return copyVoice(r.voices[id]), nil
}

func (r *Memory) InsertVoiceIfAbsent(ctx context.Context, v *voice.Voice) (*voice.Voice, bool, error) {
	r.incrementCallCount("InsertVoiceIfAbsent")
	if err := v.Validate(); err != nil {
		return nil, false, r.eb.Wrap(err, "invalid voice")
	}
	if !v.IsSynthesized() {
		return nil, false, r.eb.New("voice has no source key",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagInvalidArgument))
	}

	r.voiceMu.Lock()
	defer r.voiceMu.Unlock()

	if id, ok := r.voicesByKey[v.SourceKey]; ok {
		return copyVoice(r.voices[id]), false, nil
	}
	r.voices[v.ID] = copyVoice(v)
	r.voicesByKey[v.SourceKey] = v.ID
	return copyVoice(v), true, nil
}

func (r *Memory) PutVoice(ctx context.Context, v *voice.Voice) error {
	r.incrementCallCount("PutVoice")
	if err := v.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid voice")
	}

	r.voiceMu.Lock()
	defer r.voiceMu.Unlock()

	r.voices[v.ID] = copyVoice(v)
	if v.IsSynthesized() {
		r.voicesByKey[v.SourceKey] = v.ID
	}
	return nil
}

func (r *Memory) DeleteVoice(ctx context.Context, id types.VoiceID) error {
	r.incrementCallCount("DeleteVoice")
	r.voiceMu.Lock()
	defer r.voiceMu.Unlock()

	v, ok := r.voices[id]
	if !ok {
		return nil
	}
	if v.IsSynthesized() && r.voicesByKey[v.SourceKey] == id {
		delete(r.voicesByKey, v.SourceKey)
	}
	delete(r.voices, id)
	return nil
}
