package http

import (
	"encoding/json"
	"net/http"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type registerUserRequest struct {
	SocialID   string           `json:"social_id"`
	SocialType types.SocialType `json:"social_type"`
}

type userResponse struct {
	*user.User
	Ref string `json:"ref"`
}

func registerUserHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to decode request body", goerr.T(errs.TagInvalidArgument)))
			return
		}

		u, err := uc.RegisterUser(r.Context(), req.SocialID, req.SocialType)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, userResponse{User: u, Ref: u.Ref()})
	}
}
