package errs

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/feelcast/feelcast/pkg/utils/request_id"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs an unexpected error and reports it to Sentry. Sentry is a no-op
// when it was not initialized.
func Handle(ctx context.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[CRITICAL] error handling crashed: original_error=%s, panic=%v\n",
				err.Error(), r)
		}
	}()

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if reqID := request_id.FromContext(ctx); reqID != "" {
			scope.SetTag("request_id", reqID)
		}
		for k, v := range goerr.Values(err) {
			scope.SetExtra(k, v)
		}
		for k, v := range goerr.TypedValues(err) {
			scope.SetExtra(k, v)
		}
	})
	evID := hub.CaptureException(err)

	logging.From(ctx).Error("Error: "+err.Error(),
		logging.ErrAttr(err),
		slog.Any("sentry.id", evID),
	)
}
