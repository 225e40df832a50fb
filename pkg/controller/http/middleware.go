package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// UserHeader carries the opaque user reference, "<socialID>_<socialType>".
const UserHeader = "X-Feelcast-User"

type ctxUserKey struct{}

func withUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

func userFrom(ctx context.Context) *user.User {
	if u, ok := ctx.Value(ctxUserKey{}).(*user.User); ok {
		return u
	}
	return nil
}

// resolveUser looks up the caller from UserHeader. There is no
// authentication; the reference is trusted as is.
func resolveUser(uc interfaces.ApiUsecases) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ref := r.Header.Get(UserHeader)
			if ref == "" {
				handleError(w, r, goerr.New("user reference header is missing",
					goerr.V("header", UserHeader),
					goerr.T(errs.TagInvalidArgument)))
				return
			}

			u, err := uc.LookupUser(r.Context(), ref)
			if err != nil {
				handleError(w, r, err)
				return
			}

			ctx := withUser(r.Context(), u)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", u.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				panicErr := goerr.New("panic recovered",
					goerr.V("panic", fmt.Sprintf("%v", err)),
					goerr.V("stack", string(debug.Stack())),
					goerr.V("method", r.Method),
					goerr.V("path", r.URL.Path),
					goerr.T(errs.TagInternal),
				)
				handleError(w, r, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
