package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/digitallabs/icp-engine/apperrors"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors are
// logged with detail and surface as an opaque 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var status int
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindGenerationInvalid:
		status = http.StatusUnprocessableEntity
	case apperrors.KindGenerationTimeout:
		status = http.StatusGatewayTimeout
	case apperrors.KindStore:
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
	}

	// Store and unknown failures are masked; every other kind, including
	// the 504 timeout, keeps its message.
	var body errorBody
	body.Error.Code = kind.Code()
	if kind == apperrors.KindStore || kind == apperrors.KindUnknown {
		logger.Error("request failed", "error", err)
		body.Error.Message = "internal error"
	} else {
		body.Error.Message = err.Error()
	}
	writeJSON(w, status, body)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation(err)
	}
	return nil
}
