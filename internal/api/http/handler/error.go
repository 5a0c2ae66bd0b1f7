package handler

import (
	"net/http"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

func statusOf(err error) int {
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindAuthentication:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError renders err as {"message": ...}. Internal errors are logged
// and rendered as "Server error".
func handleError(w http.ResponseWriter, err error, logger *logger.Logger) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("HTTP handler: request failed", "error", err.Error())
	}
	writeMessage(w, status, model.MessageOf(err))
}
