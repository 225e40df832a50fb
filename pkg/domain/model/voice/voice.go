package voice

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
)

// Dir is the storage directory every voice object lives under. The analysis
// service receives locators relative to the bucket root.
const Dir = "voice/"

// Voice is a stored audio artifact. SourceKey is set for synthesized prompt
// audio and empty for recorded answers.
type Voice struct {
	ID          types.VoiceID   `json:"id" firestore:"id"`
	StoredName  string          `json:"stored_name" firestore:"stored_name"`
	AccessURL   string          `json:"access_url" firestore:"access_url"`
	SourceKey   types.PromptKey `json:"source_key,omitempty" firestore:"source_key"`
	ContentType string          `json:"content_type" firestore:"content_type"`
	Size        int64           `json:"size" firestore:"size"`
	CreatedAt   time.Time       `json:"created_at" firestore:"created_at"`
}

// Audio is encoded audio returned by a synthesizer or uploaded by a user.
type Audio struct {
	Data        []byte
	ContentType string
	Ext         string
}

// NewSynthesized builds the cache entry for a prompt. Its ID and stored name
// are derived from the prompt only.
func NewSynthesized(ctx context.Context, content prompt.Content, audio *Audio, accessURL string) *Voice {
	return &Voice{
		ID:          types.NewPromptVoiceID(content.Key),
		StoredName:  content.StoredName(audio.Ext),
		AccessURL:   accessURL,
		SourceKey:   content.Key,
		ContentType: audio.ContentType,
		Size:        int64(len(audio.Data)),
		CreatedAt:   clock.Now(ctx),
	}
}

// NewRecorded builds a voice for a user recording. storedName must already be
// unique, see RecordedName.
func NewRecorded(ctx context.Context, id types.VoiceID, storedName string, audio *Audio, accessURL string) *Voice {
	return &Voice{
		ID:          id,
		StoredName:  storedName,
		AccessURL:   accessURL,
		ContentType: audio.ContentType,
		Size:        int64(len(audio.Data)),
		CreatedAt:   clock.Now(ctx),
	}
}

// RecordedName returns the stored name of a recorded answer.
func RecordedName(id types.VoiceID, ext string) string {
	if ext == "" {
		return id.String()
	}
	return id.String() + "." + ext
}

// ObjectPath returns the object path of a stored name.
func ObjectPath(storedName string) string {
	return Dir + storedName
}

// Locator is the storage-relative path handed to the analysis service.
func (x *Voice) Locator() string {
	return ObjectPath(x.StoredName)
}

func (x *Voice) IsSynthesized() bool {
	return x.SourceKey != ""
}

func (x *Voice) Validate() error {
	if x.ID == "" {
		return goerr.New("voice ID is empty", goerr.T(errs.TagInvalidArgument))
	}
	if x.StoredName == "" {
		return goerr.New("voice stored name is empty",
			goerr.TV(errs.VoiceIDKey, x.ID),
			goerr.T(errs.TagInvalidArgument))
	}
	if x.SourceKey != "" && x.ID != types.NewPromptVoiceID(x.SourceKey) {
		return goerr.New("synthesized voice ID does not match its source key",
			goerr.TV(errs.VoiceIDKey, x.ID),
			goerr.TV(errs.PromptKeyKey, x.SourceKey),
			goerr.T(errs.TagInvalidArgument))
	}
	return nil
}
