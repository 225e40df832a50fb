package errs

import (
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// IDs
	UserIDKey    = goerr.NewTypedKey[types.UserID]("user_id")
	SessionIDKey = goerr.NewTypedKey[types.SessionID]("session_id")
	PromptIDKey  = goerr.NewTypedKey[types.PromptID]("prompt_id")
	VoiceIDKey   = goerr.NewTypedKey[types.VoiceID]("voice_id")
	PromptKeyKey = goerr.NewTypedKey[types.PromptKey]("prompt_key")

	// Values
	StatusKey     = goerr.NewTypedKey[types.SessionStatus]("status")
	RepositoryKey = goerr.NewTypedKey[string]("repository")
	LocatorKey    = goerr.NewTypedKey[string]("locator")
	ObjectKey     = goerr.NewTypedKey[string]("object")
	EndpointKey   = goerr.NewTypedKey[string]("endpoint")
	HTTPStatusKey = goerr.NewTypedKey[int]("http_status")
	UserRefKey    = goerr.NewTypedKey[string]("user_ref")
)
