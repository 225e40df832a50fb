package firestore

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (r *Firestore) GetVoice(ctx context.Context, id types.VoiceID) (*voice.Voice, error) {
	doc, err := r.db.Collection(collectionVoices).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get voice",
			goerr.TV(errs.VoiceIDKey, id),
			goerr.T(errs.TagStorage))
	}

	var v voice.Voice
	if err := doc.DataTo(&v); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to voice",
			goerr.TV(errs.VoiceIDKey, id),
			goerr.T(errs.TagInternal))
	}
	return &v, nil
}

// Synthesized voice IDs are derived from the source key, so the lookup is a
// point read.
func (r *Firestore) GetVoiceBySourceKey(ctx context.Context, key types.PromptKey) (*voice.Voice, error) {
	return r.GetVoice(ctx, types.NewPromptVoiceID(key))
}

func (r *Firestore) InsertVoiceIfAbsent(ctx context.Context, v *voice.Voice) (*voice.Voice, bool, error) {
	if err := v.Validate(); err != nil {
		return nil, false, r.eb.Wrap(err, "invalid voice")
	}
	if !v.IsSynthesized() {
		return nil, false, r.eb.New("voice has no source key",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagInvalidArgument))
	}

	_, err := r.db.Collection(collectionVoices).Doc(v.ID.String()).Create(ctx, v)
	if err == nil {
		return v, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, r.eb.Wrap(err, "failed to create voice",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagStorage))
	}

	existing, err := r.GetVoice(ctx, v.ID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, r.eb.New("voice vanished after conflicting insert",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagStorage))
	}
	return existing, false, nil
}

func (r *Firestore) PutVoice(ctx context.Context, v *voice.Voice) error {
	if err := v.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid voice")
	}

	if _, err := r.db.Collection(collectionVoices).Doc(v.ID.String()).Set(ctx, v); err != nil {
		return r.eb.Wrap(err, "failed to put voice",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *Firestore) DeleteVoice(ctx context.Context, id types.VoiceID) error {
	if _, err := r.db.Collection(collectionVoices).Doc(id.String()).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return r.eb.Wrap(err, "failed to delete voice",
			goerr.TV(errs.VoiceIDKey, id),
			goerr.T(errs.TagStorage))
	}
	return nil
}
