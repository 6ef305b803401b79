package web

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/justestif/go-mood-recommender/internal/logging"
	"github.com/justestif/go-mood-recommender/internal/recommend"
)

// totalCountHeader carries the number of candidates before paging.
const totalCountHeader = "X-Total-Count"

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  []recommend.FieldError `json:"fields,omitempty"`
}

// respondJSON sends v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError sends an error envelope. err, when set, is logged but not
// exposed to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Err(err).Str("code", code).Msg("request failed")
	}
	respondJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// respondValidation sends a 400 with per-field details.
func respondValidation(w http.ResponseWriter, fields []recommend.FieldError) {
	respondJSON(w, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
		Code:    "VALIDATION_ERROR",
		Message: "invalid query parameters",
		Fields:  fields,
	}})
}
