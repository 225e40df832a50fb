package voicecache

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/service/storage"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSynthesisTimeout = 30 * time.Second
	DefaultConcurrency      = 4
)

// Service returns the synthesized voice of a prompt, synthesizing it at most
// once per prompt.
type Service struct {
	repo        interfaces.Repository
	synth       interfaces.Synthesizer
	storage     *storage.Service
	timeout     time.Duration
	concurrency int

	group singleflight.Group
}

type Option func(*Service)

func WithSynthesisTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithConcurrency limits parallel resolutions in ResolvePrompts.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

func New(repo interfaces.Repository, synth interfaces.Synthesizer, storageSvc *storage.Service, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		synth:       synth,
		storage:     storageSvc,
		timeout:     DefaultSynthesisTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	return s
}

// ResolveVoice returns the cached voice of content, or synthesizes, uploads
// and records it. Concurrent callers for the same prompt share one
// synthesis.
func (s *Service) ResolveVoice(ctx context.Context, content prompt.Content) (*voice.Voice, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}

	cached, err := s.lookup(ctx, content)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	// The shared call must not die with the first caller's request.
	fillCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(content.Key.String(), func() (any, error) {
		return s.fill(fillCtx, content)
	})

	select {
	case <-ctx.Done():
		return nil, goerr.Wrap(ctx.Err(), "canceled while waiting for voice",
			goerr.TV(errs.PromptKeyKey, content.Key))
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v := *res.Val.(*voice.Voice)
		return &v, nil
	}
}

func (s *Service) lookup(ctx context.Context, content prompt.Content) (*voice.Voice, error) {
	v, err := s.repo.GetVoiceBySourceKey(ctx, content.Key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up voice",
			goerr.TV(errs.PromptKeyKey, content.Key),
			goerr.T(errs.TagStorage))
	}
	return v, nil
}

func (s *Service) fill(ctx context.Context, content prompt.Content) (*voice.Voice, error) {
	// Another caller may have finished between the first lookup and here.
	if v, err := s.lookup(ctx, content); err != nil || v != nil {
		return v, err
	}

	audio, err := s.synthesize(ctx, content)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Put(ctx, content.StoredName(audio.Ext), audio.Data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload synthesized voice",
			goerr.TV(errs.PromptKeyKey, content.Key))
	}

	candidate := voice.NewSynthesized(ctx, content, audio, url)
	stored, inserted, err := s.repo.InsertVoiceIfAbsent(ctx, candidate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record synthesized voice",
			goerr.TV(errs.PromptKeyKey, content.Key),
			goerr.TV(errs.VoiceIDKey, candidate.ID),
			goerr.T(errs.TagStorage))
	}

	logging.From(ctx).Info("prompt voice cached",
		"prompt_key", content.Key,
		"voice_id", stored.ID,
		"size", humanize.Bytes(uint64(stored.Size)),
		"inserted", inserted)

	return stored, nil
}

func (s *Service) synthesize(ctx context.Context, content prompt.Content) (*voice.Audio, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	audio, err := s.synth.Synthesize(ctx, content.Text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, goerr.Wrap(err, "voice synthesis timed out",
				goerr.TV(errs.PromptKeyKey, content.Key),
				goerr.V("timeout", s.timeout.String()),
				goerr.T(errs.TagExternal),
				goerr.T(errs.TagSynthesis),
				goerr.T(errs.TagTimeout))
		}
		return nil, goerr.Wrap(err, "voice synthesis failed",
			goerr.TV(errs.PromptKeyKey, content.Key),
			goerr.T(errs.TagExternal),
			goerr.T(errs.TagSynthesis))
	}
	if audio == nil || len(audio.Data) == 0 {
		return nil, goerr.New("synthesizer returned no audio",
			goerr.TV(errs.PromptKeyKey, content.Key),
			goerr.T(errs.TagExternal),
			goerr.T(errs.TagSynthesis))
	}

	return audio, nil
}

// ResolvePrompts resolves the voices of contents concurrently. The result is
// in input order. Any failure fails the whole batch.
func (s *Service) ResolvePrompts(ctx context.Context, contents []prompt.Content) ([]*voice.Voice, error) {
	voices := make([]*voice.Voice, len(contents))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, content := range contents {
		g.Go(func() error {
			v, err := s.ResolveVoice(gCtx, content)
			if err != nil {
				return err
			}
			voices[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return voices, nil
}
