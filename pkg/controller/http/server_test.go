package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	server "github.com/feelcast/feelcast/pkg/controller/http"
	"github.com/feelcast/feelcast/pkg/domain/mock"
	"github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/model/trend"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/usecase"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/gt"
)

type testServer struct {
	srv *server.Server
	ref string
}

func newTestServer(t *testing.T, score float64) *testServer {
	t.Helper()
	uc := usecase.New(
		usecase.WithPromptSelector(&mock.PromptSelectorMock{
			SelectPromptsFunc: func(ctx context.Context) ([]prompt.Content, error) {
				return prompt.Fixed(), nil
			},
		}),
		usecase.WithEmotionAnalyzer(&mock.EmotionAnalyzerMock{
			AnalyzeFunc: func(ctx context.Context, locator string) (*emotion.Result, error) {
				return &emotion.Result{FeelingScore: score, TranscribedText: "fine"}, nil
			},
		}),
	)
	ts := &testServer{srv: server.New(uc)}

	rec := ts.do(t, http.MethodPost, "/api/v1/users", "application/json",
		[]byte(`{"social_id":"user-1","social_type":"KAKAO"}`), false)
	gt.Equal(t, rec.Code, http.StatusCreated)

	var created struct {
		Ref string `json:"ref"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
	gt.Equal(t, created.Ref, "user-1_KAKAO")
	ts.ref = created.Ref
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, contentType string, body []byte, withUser bool) *httptest.ResponseRecorder {
	t.Helper()
	return ts.doAt(t, t.Context(), method, path, contentType, body, withUser)
}

func (ts *testServer) doAt(t *testing.T, ctx context.Context, method, path, contentType string, body []byte, withUser bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequestWithContext(ctx, method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if withUser {
		req.Header.Set(server.UserHeader, ts.ref)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	srv := server.New(usecase.New())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Header().Get("X-Request-Id")).Contains("-")
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t, 64)

	rec := ts.do(t, http.MethodPost, "/api/v1/sessions", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusCreated)
	created := decode[session.Session](t, rec)
	gt.Equal(t, created.Status, types.SessionStatusAwaitingAnswers)
	gt.A(t, created.Prompts).Length(len(prompt.Fixed()))

	base := "/api/v1/sessions/" + created.ID.String()

	t.Run("scoring without answers conflicts", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/score", "", nil, true)
		gt.Equal(t, rec.Code, http.StatusConflict)
	})

	t.Run("unsupported audio type", func(t *testing.T) {
		path := base + "/prompts/" + created.Prompts[0].ID.String() + "/answer"
		rec := ts.do(t, http.MethodPost, path, "text/plain", []byte("hello"), true)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	var answers []session.Answer
	for _, p := range created.Prompts {
		path := base + "/prompts/" + p.ID.String() + "/answer"
		rec := ts.do(t, http.MethodPost, path, "audio/webm", []byte("recorded"), true)
		gt.Equal(t, rec.Code, http.StatusCreated)
		answers = append(answers, decode[session.Answer](t, rec))
	}

	t.Run("answer audio is served", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base+"/voices/"+answers[0].Voice.ID.String(), "", nil, true)
		gt.Equal(t, rec.Code, http.StatusOK)
		gt.Equal(t, rec.Header().Get("Content-Type"), "audio/webm")
		gt.Equal(t, rec.Body.String(), "recorded")
	})

	t.Run("prompt audio is served", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base+"/voices/"+created.Prompts[0].Voice.ID.String(), "", nil, true)
		gt.Equal(t, rec.Code, http.StatusOK)
		gt.True(t, rec.Body.Len() > 0)
	})

	t.Run("voice outside the session", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base+"/voices/"+types.NewVoiceID().String(), "", nil, true)
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})

	rec = ts.do(t, http.MethodPost, base+"/score", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusOK)
	scored := decode[session.Session](t, rec)
	gt.Equal(t, scored.Status, types.SessionStatusScored)
	gt.V(t, scored.FeelingState).NotNil()
	gt.Equal(t, *scored.FeelingState, 64.0)

	rec = ts.do(t, http.MethodGet, "/api/v1/sessions/latest", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, decode[session.Session](t, rec).ID, created.ID)

	rec = ts.do(t, http.MethodGet, "/api/v1/sessions?page=0", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusOK)
	page := decode[session.Page](t, rec)
	gt.Equal(t, page.TotalCount, 1)
	gt.Equal(t, page.TotalPages, 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/trend/weekly", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusOK)
	weekly := decode[struct {
		Points []trend.Point `json:"points"`
	}](t, rec)
	gt.A(t, weekly.Points).Length(1)
	gt.Equal(t, weekly.Points[0].AvgFeelingState, 64.0)

	rec = ts.do(t, http.MethodDelete, base, "", nil, true)
	gt.Equal(t, rec.Code, http.StatusNoContent)

	rec = ts.do(t, http.MethodGet, base, "", nil, true)
	gt.Equal(t, rec.Code, http.StatusNotFound)
}

func TestUserHeader(t *testing.T) {
	ts := newTestServer(t, 50)

	t.Run("missing header", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/sessions", "", nil, false)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
		req.Header.Set(server.UserHeader, "ghost_GOOGLE")
		rec := httptest.NewRecorder()
		ts.srv.ServeHTTP(rec, req)
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/users", "application/json",
			[]byte(`{"social_id":"user-1","social_type":"KAKAO"}`), false)
		gt.Equal(t, rec.Code, http.StatusConflict)
	})
}

func TestTrendQuery(t *testing.T) {
	ts := newTestServer(t, 50)

	t.Run("bad date", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/trend/weekly?as_of=2024-13-01", "", nil, true)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("daily requires both ends", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/trend/daily?from=2024-03-01", "", nil, true)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("reversed range", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/trend/daily?from=2024-03-10&to=2024-03-01", "", nil, true)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("empty range", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/trend/daily?from=2024-03-01&to=2024-03-10", "", nil, true)
		gt.Equal(t, rec.Code, http.StatusOK)
		got := decode[struct {
			Points []trend.Point `json:"points"`
		}](t, rec)
		gt.A(t, got.Points).Length(0)
	})
}

func TestWeeklyTrendDefaultsToRequestClock(t *testing.T) {
	ts := newTestServer(t, 40)
	answeredAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	ctx := clock.With(t.Context(), func() time.Time { return answeredAt })

	rec := ts.doAt(t, ctx, http.MethodPost, "/api/v1/sessions", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusCreated)
	created := decode[session.Session](t, rec)
	base := "/api/v1/sessions/" + created.ID.String()
	for _, p := range created.Prompts {
		rec := ts.doAt(t, ctx, http.MethodPost, base+"/prompts/"+p.ID.String()+"/answer", "audio/webm", []byte("recorded"), true)
		gt.Equal(t, rec.Code, http.StatusCreated)
	}
	rec = ts.doAt(t, ctx, http.MethodPost, base+"/score", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusOK)

	later := clock.With(t.Context(), func() time.Time { return answeredAt.Add(48 * time.Hour) })
	rec = ts.doAt(t, later, http.MethodGet, "/api/v1/trend/weekly", "", nil, true)
	gt.Equal(t, rec.Code, http.StatusOK)
	weekly := decode[struct {
		Points []trend.Point `json:"points"`
	}](t, rec)
	gt.A(t, weekly.Points).Length(1)
	gt.Equal(t, weekly.Points[0].DateString(), "2024-03-05")
	gt.Equal(t, weekly.Points[0].AvgFeelingState, 40.0)
}
