package usecase

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/adapter/storage"
	"github.com/feelcast/feelcast/pkg/adapter/tts"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/repository"
	"github.com/feelcast/feelcast/pkg/service/emotion"
	promptService "github.com/feelcast/feelcast/pkg/service/prompt"
	storageService "github.com/feelcast/feelcast/pkg/service/storage"
	"github.com/feelcast/feelcast/pkg/service/trend"
	userService "github.com/feelcast/feelcast/pkg/service/user"
	"github.com/feelcast/feelcast/pkg/service/voicecache"
	"github.com/feelcast/feelcast/pkg/utils/clock"
)

type UseCases struct {
	// services and adapters
	repository     interfaces.Repository
	storageClient  interfaces.StorageClient
	synthesizer    interfaces.Synthesizer
	analyzer       interfaces.EmotionAnalyzer
	userResolver   interfaces.UserResolver
	promptSelector interfaces.PromptSelector

	// configs
	storagePrefix       string
	synthesisTimeout    time.Duration
	analysisTimeout     time.Duration
	voiceConcurrency    int
	analysisConcurrency int
	location            *time.Location

	// built from the above in New
	storage *storageService.Service
	voices  *voicecache.Service
	emotion *emotion.Service
	trend   *trend.Service
}

var _ interfaces.ApiUsecases = &UseCases{}

type Option func(*UseCases)

func WithRepository(repository interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repository
	}
}

func WithStorageClient(storageClient interfaces.StorageClient) Option {
	return func(u *UseCases) {
		u.storageClient = storageClient
	}
}

func WithSynthesizer(synthesizer interfaces.Synthesizer) Option {
	return func(u *UseCases) {
		u.synthesizer = synthesizer
	}
}

func WithEmotionAnalyzer(analyzer interfaces.EmotionAnalyzer) Option {
	return func(u *UseCases) {
		u.analyzer = analyzer
	}
}

func WithUserResolver(resolver interfaces.UserResolver) Option {
	return func(u *UseCases) {
		u.userResolver = resolver
	}
}

func WithPromptSelector(selector interfaces.PromptSelector) Option {
	return func(u *UseCases) {
		u.promptSelector = selector
	}
}

func WithStoragePrefix(storagePrefix string) Option {
	return func(u *UseCases) {
		u.storagePrefix = storagePrefix
	}
}

func WithSynthesisTimeout(d time.Duration) Option {
	return func(u *UseCases) {
		u.synthesisTimeout = d
	}
}

func WithAnalysisTimeout(d time.Duration) Option {
	return func(u *UseCases) {
		u.analysisTimeout = d
	}
}

// WithVoiceConcurrency limits parallel prompt synthesis in one session.
func WithVoiceConcurrency(n int) Option {
	return func(u *UseCases) {
		u.voiceConcurrency = n
	}
}

// WithAnalysisConcurrency limits in-flight analysis calls per session.
func WithAnalysisConcurrency(n int) Option {
	return func(u *UseCases) {
		u.analysisConcurrency = n
	}
}

// WithLocation sets the time zone trend days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(u *UseCases) {
		u.location = loc
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		synthesisTimeout:    voicecache.DefaultSynthesisTimeout,
		analysisTimeout:     emotion.DefaultAnalysisTimeout,
		voiceConcurrency:    voicecache.DefaultConcurrency,
		analysisConcurrency: emotion.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.repository == nil {
		u.repository = repository.NewMemory()
	}
	if u.storageClient == nil {
		u.storageClient = storage.NewMemoryClient()
	}
	if u.synthesizer == nil {
		u.synthesizer = tts.Silent{}
	}
	if u.userResolver == nil {
		u.userResolver = userService.NewResolver(u.repository)
	}
	if u.promptSelector == nil {
		u.promptSelector = promptService.NewSelector()
	}

	u.storage = storageService.New(u.storageClient, storageService.WithPrefix(u.storagePrefix))
	u.voices = voicecache.New(u.repository, u.synthesizer, u.storage,
		voicecache.WithSynthesisTimeout(u.synthesisTimeout),
		voicecache.WithConcurrency(u.voiceConcurrency),
	)
	if u.analyzer != nil {
		u.emotion = emotion.New(u.analyzer,
			emotion.WithTimeout(u.analysisTimeout),
			emotion.WithConcurrency(u.analysisConcurrency),
			emotion.WithLocator(u.storage.Locator),
		)
	}
	u.trend = trend.New(u.repository)

	return u
}

func (u *UseCases) withLocation(ctx context.Context) context.Context {
	if u.location == nil {
		return ctx
	}
	return clock.WithLocation(ctx, u.location)
}
