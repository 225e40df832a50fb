package interfaces

import (
	"context"
	"io"

	"github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
)

//go:generate go tool moq -out ../mock/adaptor.go -pkg mock . Synthesizer EmotionAnalyzer UserResolver PromptSelector

// StorageClient is the blob store holding voice audio.
type StorageClient interface {
	PutObject(ctx context.Context, object string) io.WriteCloser
	GetObject(ctx context.Context, object string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, object string) error
	ObjectURL(object string) string
	Close(ctx context.Context)
}

// Synthesizer turns prompt text into speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*voice.Audio, error)
}

// EmotionAnalyzer scores one recording. locator is relative to the blob
// store root, the audio itself is never sent.
type EmotionAnalyzer interface {
	Analyze(ctx context.Context, locator string) (*emotion.Result, error)
}

// UserResolver maps an opaque user reference to a registered user.
type UserResolver interface {
	LookupUser(ctx context.Context, ref string) (*user.User, error)
}

// PromptSelector picks the prompts of a new session.
type PromptSelector interface {
	SelectPrompts(ctx context.Context) ([]prompt.Content, error)
}
