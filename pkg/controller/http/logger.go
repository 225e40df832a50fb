package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/feelcast/feelcast/pkg/utils/request_id"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqID := request_id.Ensure(r.Context(), r.Header.Get(request_id.Header))
		logger := logging.From(ctx).With("request_id", reqID)
		ctx = logging.With(ctx, logger)
		w.Header().Set(request_id.Header, reqID)

		started := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		logger.Info("Access Log",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("query", r.URL.Query()),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(started)),
		)
	})
}
