package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/shared"
)

// envelope wraps successful RPC results.
type envelope struct {
	Message any `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error to its HTTP status by [shared.ErrorKind].
func StatusFor(err error) int {
	switch shared.ErrorKind(err) {
	case shared.KindValidation:
		return http.StatusExpectationFailed
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err and logs upstream and internal failures.
func writeError(w http.ResponseWriter, logger *log.Logger, r *http.Request, err error) {
	kind := shared.ErrorKind(err)
	switch kind {
	case shared.KindUpstream:
		logger.Warn("upstream failure", "path", r.URL.Path, "error", err)
	case shared.KindInternal:
		logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, StatusFor(err), errorBody{Error: shared.UserMessage(err), Kind: kind.String()})
}
