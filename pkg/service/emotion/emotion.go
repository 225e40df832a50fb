package emotion

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	model "github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency     = 4
	DefaultAnalysisTimeout = 30 * time.Second
)

// Service scores a set of recordings through the analysis service. A batch
// either fully succeeds or returns no results.
type Service struct {
	analyzer    interfaces.EmotionAnalyzer
	concurrency int
	timeout     time.Duration
	locator     func(*voice.Voice) string
}

type Option func(*Service)

func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

// WithTimeout bounds each analysis call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithLocator overrides how a voice is addressed in the blob store. The
// default is voice.Voice.Locator.
func WithLocator(fn func(*voice.Voice) string) Option {
	return func(s *Service) {
		s.locator = fn
	}
}

func New(analyzer interfaces.EmotionAnalyzer, opts ...Option) *Service {
	s := &Service{
		analyzer:    analyzer,
		concurrency: DefaultConcurrency,
		timeout:     DefaultAnalysisTimeout,
		locator:     (*voice.Voice).Locator,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	return s
}

// AnalyzeAnswers returns one ScoredAnswer per voice, in input order.
func (s *Service) AnalyzeAnswers(ctx context.Context, voices []*voice.Voice) ([]model.ScoredAnswer, error) {
	if len(voices) == 0 {
		return []model.ScoredAnswer{}, nil
	}

	seen := make(map[types.VoiceID]struct{}, len(voices))
	for _, v := range voices {
		if v == nil {
			return nil, goerr.New("nil voice in analysis batch", goerr.T(errs.TagInvalidArgument))
		}
		if _, ok := seen[v.ID]; ok {
			return nil, goerr.New("duplicated voice in analysis batch",
				goerr.TV(errs.VoiceIDKey, v.ID),
				goerr.T(errs.TagInvalidArgument))
		}
		seen[v.ID] = struct{}{}
	}

	var (
		mu      sync.Mutex
		results = make(map[types.VoiceID]*model.Result, len(voices))
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, v := range voices {
		g.Go(func() error {
			result, err := s.analyze(gCtx, v)
			if err != nil {
				return err
			}
			mu.Lock()
			results[v.ID] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	scored := make([]model.ScoredAnswer, 0, len(voices))
	for _, v := range voices {
		r, ok := results[v.ID]
		if !ok {
			return nil, goerr.New("analysis result missing",
				goerr.TV(errs.VoiceIDKey, v.ID),
				goerr.T(errs.TagInternal))
		}
		scored = append(scored, model.ScoredAnswer{
			VoiceID:         v.ID,
			FeelingScore:    r.FeelingScore,
			TranscribedText: r.TranscribedText,
		})
	}

	logging.From(ctx).Info("answers analyzed", "count", len(scored))
	return scored, nil
}

func (s *Service) analyze(ctx context.Context, v *voice.Voice) (*model.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	locator := s.locator(v)
	result, err := s.analyzer.Analyze(ctx, locator)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, goerr.Wrap(err, "emotion analysis timed out",
				goerr.TV(errs.VoiceIDKey, v.ID),
				goerr.TV(errs.LocatorKey, locator),
				goerr.V("timeout", s.timeout.String()),
				goerr.T(errs.TagExternal),
				goerr.T(errs.TagAnalysis),
				goerr.T(errs.TagTimeout))
		}
		return nil, goerr.Wrap(err, "emotion analysis failed",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.TV(errs.LocatorKey, locator),
			goerr.T(errs.TagExternal),
			goerr.T(errs.TagAnalysis))
	}
	if result == nil {
		return nil, goerr.New("analysis service returned no result",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.TV(errs.LocatorKey, locator),
			goerr.T(errs.TagExternal),
			goerr.T(errs.TagAnalysis))
	}
	return result, nil
}
