package voicecache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	adapter "github.com/feelcast/feelcast/pkg/adapter/storage"
	"github.com/feelcast/feelcast/pkg/domain/mock"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/repository"
	"github.com/feelcast/feelcast/pkg/service/storage"
	"github.com/feelcast/feelcast/pkg/service/voicecache"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func newAudio() *voice.Audio {
	return &voice.Audio{Data: []byte("RIFF-audio"), ContentType: "audio/wav", Ext: "wav"}
}

type fixture struct {
	repo    *repository.Memory
	blobs   *adapter.MemoryClient
	synth   *mock.SynthesizerMock
	service *voicecache.Service
}

func setup(synth *mock.SynthesizerMock, opts ...voicecache.Option) *fixture {
	repo := repository.NewMemory()
	blobs := adapter.NewMemoryClient()
	return &fixture{
		repo:    repo,
		blobs:   blobs,
		synth:   synth,
		service: voicecache.New(repo, synth, storage.New(blobs), opts...),
	}
}

func TestResolveVoice(t *testing.T) {
	content := prompt.Fixed()[0]

	t.Run("miss synthesizes and stores", func(t *testing.T) {
		f := setup(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				gt.Equal(t, text, content.Text)
				return newAudio(), nil
			},
		})

		v, err := f.service.ResolveVoice(t.Context(), content)
		gt.NoError(t, err).Required()
		gt.Equal(t, v.ID, types.NewPromptVoiceID(content.Key))
		gt.Equal(t, v.SourceKey, content.Key)
		gt.Equal(t, v.StoredName, "voice-question1.wav")
		gt.Equal(t, v.AccessURL, "memory://voice/voice-question1.wav")
		gt.Equal(t, v.Size, int64(len(newAudio().Data)))
		gt.A(t, f.synth.SynthesizeCalls()).Length(1)
		gt.A(t, f.blobs.Objects()).Length(1)

		stored, err := f.repo.GetVoiceBySourceKey(t.Context(), content.Key)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.ID, v.ID)
	})

	t.Run("hit does not synthesize", func(t *testing.T) {
		f := setup(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				return newAudio(), nil
			},
		})

		first, err := f.service.ResolveVoice(t.Context(), content)
		gt.NoError(t, err).Required()

		second, err := f.service.ResolveVoice(t.Context(), content)
		gt.NoError(t, err).Required()
		gt.Equal(t, *second, *first)
		gt.A(t, f.synth.SynthesizeCalls()).Length(1)
	})

	t.Run("concurrent callers share one synthesis", func(t *testing.T) {
		release := make(chan struct{})
		var calls atomic.Int32
		f := setup(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				calls.Add(1)
				<-release
				return newAudio(), nil
			},
		})

		const n = 16
		var wg sync.WaitGroup
		results := make([]*voice.Voice, n)
		errList := make([]error, n)
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errList[i] = f.service.ResolveVoice(t.Context(), content)
			}(i)
		}

		// Let every goroutine reach the cache before synthesis finishes
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		gt.Equal(t, calls.Load(), int32(1))
		for i := range n {
			gt.NoError(t, errList[i])
			gt.Equal(t, results[i].ID, types.NewPromptVoiceID(content.Key))
		}
		gt.Equal(t, f.repo.GetCallCount("InsertVoiceIfAbsent"), 1)
		gt.A(t, f.blobs.Objects()).Length(1)
	})

	t.Run("two services sharing a store keep one voice", func(t *testing.T) {
		repo := repository.NewMemory()
		blobs := adapter.NewMemoryClient()
		synth := &mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				return newAudio(), nil
			},
		}
		a := voicecache.New(repo, synth, storage.New(blobs))
		b := voicecache.New(repo, synth, storage.New(blobs))

		var wg sync.WaitGroup
		var va, vb *voice.Voice
		var errA, errB error
		wg.Add(2)
		go func() { defer wg.Done(); va, errA = a.ResolveVoice(t.Context(), content) }()
		go func() { defer wg.Done(); vb, errB = b.ResolveVoice(t.Context(), content) }()
		wg.Wait()

		gt.NoError(t, errA)
		gt.NoError(t, errB)
		gt.Equal(t, va.ID, vb.ID)
		gt.Equal(t, va.CreatedAt, vb.CreatedAt)
		gt.A(t, blobs.Objects()).Length(1)
	})

	t.Run("synthesis failure stores nothing", func(t *testing.T) {
		f := setup(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				return nil, errors.New("quota exceeded")
			},
		})

		_, err := f.service.ResolveVoice(t.Context(), content)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagExternal))
		gt.True(t, goerr.HasTag(err, errs.TagSynthesis))
		gt.False(t, goerr.HasTag(err, errs.TagTimeout))
		gt.A(t, f.blobs.Objects()).Length(0)

		stored, err := f.repo.GetVoiceBySourceKey(t.Context(), content.Key)
		gt.NoError(t, err)
		gt.V(t, stored).Nil()
	})

	t.Run("synthesis timeout", func(t *testing.T) {
		f := setup(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}, voicecache.WithSynthesisTimeout(10*time.Millisecond))

		_, err := f.service.ResolveVoice(t.Context(), content)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagExternal))
		gt.True(t, goerr.HasTag(err, errs.TagSynthesis))
		gt.True(t, goerr.HasTag(err, errs.TagTimeout))
		gt.A(t, f.blobs.Objects()).Length(0)
	})

	t.Run("failed synthesis can be retried", func(t *testing.T) {
		var fail atomic.Bool
		fail.Store(true)
		f := setup(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				if fail.Load() {
					return nil, errors.New("unavailable")
				}
				return newAudio(), nil
			},
		})

		_, err := f.service.ResolveVoice(t.Context(), content)
		gt.Error(t, err)

		fail.Store(false)
		v, err := f.service.ResolveVoice(t.Context(), content)
		gt.NoError(t, err).Required()
		gt.Equal(t, v.SourceKey, content.Key)
	})

	t.Run("unknown prompt is rejected", func(t *testing.T) {
		f := setup(&mock.SynthesizerMock{})
		_, err := f.service.ResolveVoice(t.Context(), prompt.Content{Key: "nope", Text: "?"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
		gt.A(t, f.synth.SynthesizeCalls()).Length(0)
	})
}

func TestResolvePrompts(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	f := setup(&mock.SynthesizerMock{
		SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				prev := maxInFlight.Load()
				if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return newAudio(), nil
		},
	}, voicecache.WithConcurrency(2))

	contents := prompt.All()
	voices, err := f.service.ResolvePrompts(t.Context(), contents)
	gt.NoError(t, err).Required()
	gt.A(t, voices).Length(len(contents))
	for i, v := range voices {
		gt.Equal(t, v.SourceKey, contents[i].Key)
	}
	gt.A(t, f.synth.SynthesizeCalls()).Length(len(contents))
	gt.True(t, maxInFlight.Load() <= 2)
}
