package safe

import (
	"context"
	"fmt"
	"io"

	"github.com/feelcast/feelcast/pkg/utils/logging"
)

// Close releases c and logs a failure.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("failed to release resource",
			"resource", fmt.Sprintf("%T", c),
			logging.ErrAttr(err))
	}
}

// Closer defers Close for callers that hand out a release func.
func Closer(ctx context.Context, c io.Closer) func() {
	return func() { Close(ctx, c) }
}
