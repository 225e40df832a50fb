package usecase_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	adapter "github.com/feelcast/feelcast/pkg/adapter/storage"
	"github.com/feelcast/feelcast/pkg/domain/mock"
	"github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/repository"
	"github.com/feelcast/feelcast/pkg/usecase"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/stretchr/testify/assert"
)

type fixture struct {
	repo     *repository.Memory
	blobs    *adapter.MemoryClient
	analyzer *mock.EmotionAnalyzerMock
	uc       *usecase.UseCases
	user     *user.User
}

// blobScoreAnalyzer reads the recorded blob and uses its content as the
// feeling score, so tests control scores through the uploaded audio.
func blobScoreAnalyzer(blobs *adapter.MemoryClient) *mock.EmotionAnalyzerMock {
	return &mock.EmotionAnalyzerMock{
		AnalyzeFunc: func(ctx context.Context, locator string) (*emotion.Result, error) {
			r, err := blobs.GetObject(ctx, locator)
			if err != nil {
				return nil, err
			}
			defer r.Close()
			raw, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			score, err := strconv.ParseFloat(string(raw), 64)
			if err != nil {
				return nil, err
			}
			return &emotion.Result{FeelingScore: score, TranscribedText: "text of " + locator}, nil
		},
	}
}

func fixedSelector() *mock.PromptSelectorMock {
	return &mock.PromptSelectorMock{
		SelectPromptsFunc: func(ctx context.Context) ([]prompt.Content, error) {
			return prompt.Fixed(), nil
		},
	}
}

func setup(t *testing.T, opts ...usecase.Option) *fixture {
	t.Helper()
	repo := repository.NewMemory()
	blobs := adapter.NewMemoryClient()
	analyzer := blobScoreAnalyzer(blobs)

	base := []usecase.Option{
		usecase.WithRepository(repo),
		usecase.WithStorageClient(blobs),
		usecase.WithEmotionAnalyzer(analyzer),
		usecase.WithPromptSelector(fixedSelector()),
	}
	uc := usecase.New(append(base, opts...)...)

	u, err := uc.RegisterUser(t.Context(), "kakao-1", types.SocialTypeKakao)
	gt.NoError(t, err).Required()

	return &fixture{repo: repo, blobs: blobs, analyzer: analyzer, uc: uc, user: u}
}

func scoreAudio(score string) *voice.Audio {
	return &voice.Audio{Data: []byte(score), ContentType: "audio/webm", Ext: "webm"}
}

func answerAll(t *testing.T, f *fixture, s *session.Session, scores ...string) {
	t.Helper()
	gt.Equal(t, len(scores), len(s.Prompts))
	for i, p := range s.Prompts {
		_, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, p.ID, scoreAudio(scores[i]))
		gt.NoError(t, err).Required()
	}
}

func countObjects(blobs *adapter.MemoryClient, prefix string) int {
	n := 0
	for _, name := range blobs.Objects() {
		if strings.HasPrefix(name, prefix) {
			n++
		}
	}
	return n
}

func TestRegisterUser(t *testing.T) {
	f := setup(t)

	t.Run("lookup by reference", func(t *testing.T) {
		found, err := f.uc.LookupUser(t.Context(), f.user.Ref())
		gt.NoError(t, err).Required()
		gt.Equal(t, found.ID, f.user.ID)
	})

	t.Run("same social account conflicts", func(t *testing.T) {
		_, err := f.uc.RegisterUser(t.Context(), "kakao-1", types.SocialTypeKakao)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagConflict))
	})

	t.Run("unknown reference is not found", func(t *testing.T) {
		_, err := f.uc.LookupUser(t.Context(), "nobody_KAKAO")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})
}

func TestLookupUserWithResolver(t *testing.T) {
	resolved := &user.User{ID: types.NewUserID(), SocialID: "ext-1", SocialType: types.SocialTypeGoogle}
	resolver := &mock.UserResolverMock{
		LookupUserFunc: func(ctx context.Context, ref string) (*user.User, error) {
			if ref != "token-1" {
				return nil, goerr.New("unknown reference", goerr.T(errs.TagNotFound))
			}
			return resolved, nil
		},
	}
	f := setup(t, usecase.WithUserResolver(resolver))

	found, err := f.uc.LookupUser(t.Context(), "token-1")
	gt.NoError(t, err).Required()
	gt.Equal(t, found.ID, resolved.ID)

	_, err = f.uc.LookupUser(t.Context(), f.user.Ref())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	gt.A(t, resolver.LookupUserCalls()).Length(2)
}

func TestCreateSession(t *testing.T) {
	t.Run("prompts are voiced and session awaits answers", func(t *testing.T) {
		f := setup(t)

		s, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, s.Status, types.SessionStatusAwaitingAnswers)
		gt.A(t, s.Prompts).Length(len(prompt.Fixed()))
		for _, p := range s.Prompts {
			gt.V(t, p.Voice).NotNil()
			gt.Equal(t, p.Voice.SourceKey, p.Content.Key)
		}

		stored, err := f.repo.GetSession(t.Context(), s.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.Status, types.SessionStatusAwaitingAnswers)
	})

	t.Run("second session reuses cached voices", func(t *testing.T) {
		f := setup(t)

		first, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()
		before := countObjects(f.blobs, "voice/")

		second, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, countObjects(f.blobs, "voice/"), before)
		gt.NotEqual(t, second.ID, first.ID)
		gt.Equal(t, second.Prompts[0].Voice.ID, first.Prompts[0].Voice.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := setup(t)
		_, err := f.uc.CreateSession(t.Context(), types.NewUserID())
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("synthesis failure stores no session", func(t *testing.T) {
		f := setup(t, usecase.WithSynthesizer(&mock.SynthesizerMock{
			SynthesizeFunc: func(ctx context.Context, text string) (*voice.Audio, error) {
				return nil, errors.New("tts down")
			},
		}))

		_, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagExternal))

		count, err := f.repo.CountUserSessions(t.Context(), f.user.ID)
		gt.NoError(t, err)
		gt.Equal(t, count, 0)
	})
}

func TestRecordAnswer(t *testing.T) {
	f := setup(t)
	s, err := f.uc.CreateSession(t.Context(), f.user.ID)
	gt.NoError(t, err).Required()
	promptID := s.Prompts[0].ID

	t.Run("empty audio", func(t *testing.T) {
		_, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, promptID, &voice.Audio{})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagInvalidArgument))
	})

	t.Run("unknown prompt", func(t *testing.T) {
		_, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, types.NewPromptID(), scoreAudio("50"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("records and persists", func(t *testing.T) {
		answer, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, promptID, scoreAudio("50"))
		gt.NoError(t, err).Required()
		gt.Equal(t, answer.PromptID, promptID)
		gt.False(t, answer.Voice.IsSynthesized())

		stored, err := f.repo.GetVoice(t.Context(), answer.Voice.ID)
		gt.NoError(t, err).Required()
		gt.V(t, stored).NotNil()

		got, err := f.uc.GetSession(t.Context(), f.user.ID, s.ID)
		gt.NoError(t, err).Required()
		gt.A(t, got.Answers).Length(1)
	})

	t.Run("second answer to the same prompt conflicts and is discarded", func(t *testing.T) {
		before := countObjects(f.blobs, "voice/")
		_, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, promptID, scoreAudio("60"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagConflict))
		gt.Equal(t, countObjects(f.blobs, "voice/"), before)
	})

	t.Run("another user's session is not found", func(t *testing.T) {
		other, err := f.uc.RegisterUser(t.Context(), "apple-9", types.SocialTypeApple)
		gt.NoError(t, err).Required()

		_, err = f.uc.RecordAnswer(t.Context(), other.ID, s.ID, promptID, scoreAudio("10"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})
}

func TestRecordAnswerConcurrently(t *testing.T) {
	f := setup(t, usecase.WithPromptSelector(&mock.PromptSelectorMock{
		SelectPromptsFunc: func(ctx context.Context) ([]prompt.Content, error) {
			return prompt.All(), nil
		},
	}))
	s, err := f.uc.CreateSession(t.Context(), f.user.ID)
	gt.NoError(t, err).Required()

	var wg sync.WaitGroup
	for _, p := range s.Prompts {
		wg.Add(1)
		go func(promptID types.PromptID) {
			defer wg.Done()
			_, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, promptID, scoreAudio("50"))
			gt.NoError(t, err)
		}(p.ID)
	}
	wg.Wait()

	got, err := f.uc.GetSession(t.Context(), f.user.ID, s.ID)
	gt.NoError(t, err).Required()
	gt.A(t, got.Answers).Length(len(s.Prompts))
	for _, a := range got.Answers {
		stored, err := f.repo.GetVoice(t.Context(), a.Voice.ID)
		gt.NoError(t, err).Required()
		gt.V(t, stored).NotNil()
	}
}

func TestGetVoiceAudio(t *testing.T) {
	f := setup(t)
	s, err := f.uc.CreateSession(t.Context(), f.user.ID)
	gt.NoError(t, err).Required()
	answer, err := f.uc.RecordAnswer(t.Context(), f.user.ID, s.ID, s.Prompts[0].ID, scoreAudio("42"))
	gt.NoError(t, err).Required()

	t.Run("answer voice", func(t *testing.T) {
		v, data, err := f.uc.GetVoiceAudio(t.Context(), f.user.ID, s.ID, answer.Voice.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, v.ContentType, "audio/webm")
		gt.Equal(t, string(data), "42")
	})

	t.Run("prompt voice", func(t *testing.T) {
		v, data, err := f.uc.GetVoiceAudio(t.Context(), f.user.ID, s.ID, s.Prompts[0].Voice.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, v.SourceKey, s.Prompts[0].Content.Key)
		gt.Equal(t, int64(len(data)), v.Size)
	})

	t.Run("voice of another session", func(t *testing.T) {
		_, _, err := f.uc.GetVoiceAudio(t.Context(), f.user.ID, s.ID, types.NewVoiceID())
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("another user's session", func(t *testing.T) {
		_, _, err := f.uc.GetVoiceAudio(t.Context(), types.NewUserID(), s.ID, answer.Voice.ID)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})
}

func TestScoreSession(t *testing.T) {
	t.Run("feeling state is the mean of answer scores", func(t *testing.T) {
		f := setup(t)
		s, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()
		answerAll(t, f, s, "80", "70")

		scored, err := f.uc.ScoreSession(t.Context(), f.user.ID, s.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, scored.Status, types.SessionStatusScored)
		gt.V(t, scored.FeelingState).NotNil()
		assert.InDelta(t, 75.0, *scored.FeelingState, 0.0001)
		gt.V(t, scored.AnalyzeTime).NotNil()
		gt.Equal(t, len(f.analyzer.AnalyzeCalls()), 2)
		for _, a := range scored.Answers {
			gt.V(t, a.FeelingScore).NotNil()
			gt.S(t, a.TranscribedText).Contains(a.Voice.StoredName)
		}

		latest, err := f.uc.LatestSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, latest.ID, s.ID)
	})

	t.Run("zero answers is rejected without analysis", func(t *testing.T) {
		f := setup(t)
		s, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()

		_, err = f.uc.ScoreSession(t.Context(), f.user.ID, s.ID)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagInvariant))
		gt.Equal(t, len(f.analyzer.AnalyzeCalls()), 0)
	})

	t.Run("one failed analysis leaves the session unscored", func(t *testing.T) {
		f := setup(t)
		s, err := f.uc.CreateSession(t.Context(), f.user.ID)
		gt.NoError(t, err).Required()
		// second answer is not a number and fails in the analyzer
		answerAll(t, f, s, "80", "broken")

		_, err = f.uc.ScoreSession(t.Context(), f.user.ID, s.ID)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagExternal))

		stored, err := f.uc.GetSession(t.Context(), f.user.ID, s.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.Status, types.SessionStatusAwaitingAnswers)
		gt.V(t, stored.FeelingState).Nil()

		_, err = f.uc.LatestSession(t.Context(), f.user.ID)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("without analyzer", func(t *testing.T) {
		repo := repository.NewMemory()
		uc := usecase.New(usecase.WithRepository(repo), usecase.WithPromptSelector(fixedSelector()))
		u, err := uc.RegisterUser(t.Context(), "naver-1", types.SocialTypeGoogle)
		gt.NoError(t, err).Required()
		s, err := uc.CreateSession(t.Context(), u.ID)
		gt.NoError(t, err).Required()
		for _, p := range s.Prompts {
			_, err := uc.RecordAnswer(t.Context(), u.ID, s.ID, p.ID, scoreAudio("1"))
			gt.NoError(t, err).Required()
		}

		_, err = uc.ScoreSession(t.Context(), u.ID, s.ID)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagInternal))
	})
}

func TestListSessions(t *testing.T) {
	f := setup(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	var ids []types.SessionID
	for i := range 12 {
		ctx := clock.With(t.Context(), func() time.Time { return base.Add(time.Duration(i) * time.Hour) })
		s, err := f.uc.CreateSession(ctx, f.user.ID)
		gt.NoError(t, err).Required()
		ids = append(ids, s.ID)
	}

	first, err := f.uc.ListSessions(t.Context(), f.user.ID, 0)
	gt.NoError(t, err).Required()
	gt.A(t, first.Sessions).Length(session.PageSize)
	gt.Equal(t, first.TotalCount, 12)
	gt.Equal(t, first.TotalPages, 2)
	gt.Equal(t, first.Sessions[0].ID, ids[11])

	second, err := f.uc.ListSessions(t.Context(), f.user.ID, 1)
	gt.NoError(t, err).Required()
	gt.A(t, second.Sessions).Length(2)
	gt.Equal(t, second.Sessions[1].ID, ids[0])

	beyond, err := f.uc.ListSessions(t.Context(), f.user.ID, 5)
	gt.NoError(t, err).Required()
	gt.A(t, beyond.Sessions).Length(0)

	_, err = f.uc.ListSessions(t.Context(), f.user.ID, -1)
	gt.True(t, goerr.HasTag(err, errs.TagInvalidArgument))
}

func TestDeleteSession(t *testing.T) {
	f := setup(t)
	s, err := f.uc.CreateSession(t.Context(), f.user.ID)
	gt.NoError(t, err).Required()
	answerAll(t, f, s, "10", "20")
	promptObjects := len(prompt.Fixed())
	gt.Equal(t, countObjects(f.blobs, "voice/"), promptObjects+2)

	t.Run("another user can not delete", func(t *testing.T) {
		err := f.uc.DeleteSession(t.Context(), types.NewUserID(), s.ID)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("deletes recordings and keeps prompt voices", func(t *testing.T) {
		answered, err := f.uc.GetSession(t.Context(), f.user.ID, s.ID)
		gt.NoError(t, err).Required()
		recorded := answered.RecordedVoices()
		gt.A(t, recorded).Length(2)
		gt.NoError(t, f.uc.DeleteSession(t.Context(), f.user.ID, s.ID)).Required()

		gt.Equal(t, countObjects(f.blobs, "voice/"), promptObjects)
		for _, v := range recorded {
			got, err := f.repo.GetVoice(t.Context(), v.ID)
			gt.NoError(t, err)
			gt.V(t, got).Nil()
		}
		for _, p := range s.Prompts {
			got, err := f.repo.GetVoice(t.Context(), p.Voice.ID)
			gt.NoError(t, err)
			gt.V(t, got).NotNil()
		}

		_, err = f.uc.GetSession(t.Context(), f.user.ID, s.ID)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})
}

func TestTrend(t *testing.T) {
	f := setup(t)
	day := func(d, h int) context.Context {
		at := time.Date(2024, 3, d, h, 0, 0, 0, time.UTC)
		return clock.With(t.Context(), func() time.Time { return at })
	}

	record := func(ctx context.Context, scores ...string) {
		s, err := f.uc.CreateSession(ctx, f.user.ID)
		gt.NoError(t, err).Required()
		answerAll(t, f, s, scores...)
		_, err = f.uc.ScoreSession(ctx, f.user.ID, s.ID)
		gt.NoError(t, err).Required()
	}
	record(day(5, 9), "80", "70")
	record(day(5, 20), "60", "90")
	record(day(7, 9), "40", "40")

	points, err := f.uc.WeeklyTrend(t.Context(), f.user.ID, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC))
	gt.NoError(t, err).Required()
	gt.A(t, points).Length(2)
	gt.Equal(t, points[0].Date, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	assert.InDelta(t, 75.0, points[0].AvgFeelingState, 0.0001)
	assert.InDelta(t, 40.0, points[1].AvgFeelingState, 0.0001)

	daily, err := f.uc.DailyTrend(t.Context(), f.user.ID,
		time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	gt.NoError(t, err).Required()
	gt.A(t, daily).Length(1)
}

func TestWarmVoices(t *testing.T) {
	f := setup(t)
	voices, err := f.uc.WarmVoices(t.Context())
	gt.NoError(t, err).Required()
	gt.A(t, voices).Length(len(prompt.All()))

	again, err := f.uc.WarmVoices(t.Context())
	gt.NoError(t, err).Required()
	gt.Equal(t, again[3].ID, voices[3].ID)
	gt.Equal(t, countObjects(f.blobs, "voice/"), len(prompt.All()))
}
