package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
)

// DefaultMaxAudioSize caps the body of an answer upload.
const DefaultMaxAudioSize = 20 << 20

type Server struct {
	router       *chi.Mux
	location     *time.Location
	maxAudioSize int64
}

type Options func(*Server)

// WithLocation sets the time zone trend query dates are read in.
func WithLocation(loc *time.Location) Options {
	return func(s *Server) {
		s.location = loc
	}
}

func WithMaxAudioSize(size int64) Options {
	return func(s *Server) {
		s.maxAudioSize = size
	}
}

func New(uc interfaces.ApiUsecases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		location:     time.UTC,
		maxAudioSize: DefaultMaxAudioSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", registerUserHandler(uc))

		r.Group(func(r chi.Router) {
			r.Use(resolveUser(uc))

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", createSessionHandler(uc))
				r.Get("/", listSessionsHandler(uc))
				r.Get("/latest", latestSessionHandler(uc))
				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", getSessionHandler(uc))
					r.Delete("/", deleteSessionHandler(uc))
					r.Post("/prompts/{promptID}/answer", recordAnswerHandler(uc, s.maxAudioSize))
					r.Post("/score", scoreSessionHandler(uc))
					r.Get("/voices/{voiceID}", voiceAudioHandler(uc))
				})
			})

			r.Route("/trend", func(r chi.Router) {
				r.Get("/weekly", weeklyTrendHandler(uc, s.location))
				r.Get("/daily", dailyTrendHandler(uc, s.location))
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent
		logging.From(r.Context()).Warn("failed to write response", logging.ErrAttr(err))
	}
}
