package request_id

import (
	"context"

	"github.com/google/uuid"
)

type ctxRequestIDKey struct{}

// Header carries a caller-supplied request ID.
const Header = "X-Request-Id"

func With(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey{}, requestID)
}

func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ctxRequestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// Ensure keeps a request ID that is already set, or sets a new one.
func Ensure(ctx context.Context, requestID string) (context.Context, string) {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return With(ctx, requestID), requestID
}
