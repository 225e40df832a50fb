package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Client errors (4xx)
	TagNotFound        = goerr.NewTag("not_found")        // 404
	TagInvalidArgument = goerr.NewTag("invalid_argument") // 400
	TagConflict        = goerr.NewTag("conflict")         // 409

	// Usage errors. Scoring a session with no answers, broken score mapping, etc.
	TagInvariant = goerr.NewTag("invariant") // 409

	// Server errors (5xx)
	TagInternal = goerr.NewTag("internal") // 500
	TagStorage  = goerr.NewTag("storage")  // 500, blob store and durable store
	TagExternal = goerr.NewTag("external") // 502
	TagTimeout  = goerr.NewTag("timeout")  // 504

	// Kind of external service failure, used together with TagExternal
	TagSynthesis = goerr.NewTag("synthesis")
	TagAnalysis  = goerr.NewTag("analysis")
)
