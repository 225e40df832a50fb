package http

var (
	PanicRecoveryMiddleware = panicRecoveryMiddleware
	LoggingMiddleware       = loggingMiddleware
	HandleError             = handleError
	ParseAudioType          = parseAudioType
)
