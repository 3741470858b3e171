// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client. Error
// responses, and confirmations without a payload, always look like:
//
//	{ "message": "Student not found" }
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Messages shared by more than one handler.
const (
	MsgInternalError = "Internal server error"
)

// Message is the envelope for errors and bare confirmations.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes data JSON-encoded with the given HTTP status code.
//
// Header() → WriteHeader() → body writes: once WriteHeader is called the
// headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	if err := WriteJSON(w, status, Message{Message: msg}); err != nil {
		slog.Debug("write response failed", slog.String("error", err.Error()))
	}
}

// InternalError logs err for operators and answers the client with a
// generic 500. The cause is never returned to the caller.
func InternalError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, slog.String("error", err.Error()))
	WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
}
