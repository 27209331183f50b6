package web

// errors.go renders every error the same way: the technical error is logged
// with the request ID, the client gets the mapped user message and code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/logging"
)

var (
	errRateLimited    = errors.New("rate limit exceeded")
	errAsyncDisabled  = errors.New("async imports are not enabled")
	errReportNotFound = errors.New("report not found")
	errFileTooLarge   = errors.New("file too large")
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	respondErrorJSON(w, userMsg, statusCode)
}

// respondMessage sends a fixed error text with the code mapped from err.
func (s *Server) respondMessage(w http.ResponseWriter, r *http.Request, err error, statusCode int, message string) {
	userMsg := core.MapError(err)
	userMsg.Message = message

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)
	respondErrorJSON(w, userMsg, statusCode)
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
