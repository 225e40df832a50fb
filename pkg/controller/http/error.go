package http

import (
	"net/http"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.From(r.Context())

	// timeout is checked before external because a deadline on an external
	// call carries both tags
	switch {
	case goerr.HasTag(err, errs.TagInvalidArgument):
		logger.Warn("Bad Request", logging.ErrAttr(err))
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case goerr.HasTag(err, errs.TagNotFound):
		logger.Warn("Not Found", logging.ErrAttr(err))
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})

	case goerr.HasTag(err, errs.TagConflict), goerr.HasTag(err, errs.TagInvariant):
		logger.Warn("Conflict", logging.ErrAttr(err))
		writeJSON(w, r, http.StatusConflict, errorResponse{Error: err.Error()})

	case goerr.HasTag(err, errs.TagTimeout):
		logger.Error("Gateway Timeout", logging.ErrAttr(err))
		writeJSON(w, r, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})

	case goerr.HasTag(err, errs.TagExternal):
		logger.Error("External Service Error", logging.ErrAttr(err))
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: err.Error()})

	default:
		errs.Handle(r.Context(), err)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
