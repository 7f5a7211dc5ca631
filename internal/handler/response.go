package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/commutelog/api/internal/ctxkeys"
	"github.com/commutelog/api/internal/validation"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// serverError logs err and answers with a generic message.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", ctxkeys.RequestID(r.Context()),
	)
	writeMessage(w, http.StatusInternalServerError, message)
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
// On failure the 400 response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	err = validation.Struct(dst)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	return parseID(r.PathValue(name))
}

func parseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ownerID reads the user_id a commute request is scoped to.
func ownerID(w http.ResponseWriter, value string) (int64, bool) {
	id, ok := parseID(value)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Missing user_id")
	}
	return id, ok
}

// uploadError maps a failed image upload to a response.
func uploadError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, validation.ErrInvalidFile):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		serverError(w, r, message, err)
	}
}
