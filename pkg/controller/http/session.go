package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

func sessionIDParam(r *http.Request) types.SessionID {
	return types.SessionID(chi.URLParam(r, "sessionID"))
}

func createSessionHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.CreateSession(r.Context(), userFrom(r.Context()).ID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, s)
	}
}

func listSessionsHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if v := r.URL.Query().Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				handleError(w, r, goerr.Wrap(err, "invalid page",
					goerr.V("page", v),
					goerr.T(errs.TagInvalidArgument)))
				return
			}
			page = n
		}

		p, err := uc.ListSessions(r.Context(), userFrom(r.Context()).ID, page)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, p)
	}
}

func latestSessionHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.LatestSession(r.Context(), userFrom(r.Context()).ID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, s)
	}
}

func getSessionHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.GetSession(r.Context(), userFrom(r.Context()).ID, sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, s)
	}
}

func deleteSessionHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteSession(r.Context(), userFrom(r.Context()).ID, sessionIDParam(r)); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

var audioExtensions = map[string]string{
	"audio/wav":    "wav",
	"audio/x-wav":  "wav",
	"audio/wave":   "wav",
	"audio/webm":   "webm",
	"audio/ogg":    "ogg",
	"audio/mpeg":   "mp3",
	"audio/mp4":    "m4a",
	"audio/x-m4a":  "m4a",
	"audio/aac":    "aac",
	"audio/flac":   "flac",
	"audio/x-flac": "flac",
}

// parseAudioType returns the media type and file extension of an upload.
func parseAudioType(contentType string) (string, string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", goerr.Wrap(err, "invalid content type",
			goerr.V("content_type", contentType),
			goerr.T(errs.TagInvalidArgument))
	}
	ext, ok := audioExtensions[mediaType]
	if !ok {
		return "", "", goerr.New("unsupported audio type",
			goerr.V("content_type", mediaType),
			goerr.T(errs.TagInvalidArgument))
	}
	return mediaType, ext, nil
}

func recordAnswerHandler(uc interfaces.ApiUsecases, maxSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, ext, err := parseAudioType(r.Header.Get("Content-Type"))
		if err != nil {
			handleError(w, r, err)
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				handleError(w, r, goerr.Wrap(err, "audio is too large",
					goerr.V("limit", maxSize),
					goerr.T(errs.TagInvalidArgument)))
				return
			}
			handleError(w, r, goerr.Wrap(err, "failed to read audio", goerr.T(errs.TagInvalidArgument)))
			return
		}

		audio := &voice.Audio{Data: data, ContentType: mediaType, Ext: ext}
		promptID := types.PromptID(chi.URLParam(r, "promptID"))

		answer, err := uc.RecordAnswer(r.Context(), userFrom(r.Context()).ID, sessionIDParam(r), promptID, audio)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, answer)
	}
}

func scoreSessionHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.ScoreSession(r.Context(), userFrom(r.Context()).ID, sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, s)
	}
}

func voiceAudioHandler(uc interfaces.ApiUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		voiceID := types.VoiceID(chi.URLParam(r, "voiceID"))
		v, data, err := uc.GetVoiceAudio(r.Context(), userFrom(r.Context()).ID, sessionIDParam(r), voiceID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", v.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logging.From(r.Context()).Warn("failed to write voice audio", logging.ErrAttr(err))
		}
	}
}
