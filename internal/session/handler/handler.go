package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yassirh/stocktake-service/internal/session"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type SessionHandler struct {
	uc     session.UseCase
	logger logger.ZapLogger
}

func NewSessionHandler(uc session.UseCase, log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{uc: uc, logger: log}
}

// CreateOrResume serves POST /sessions.
func (h *SessionHandler) CreateOrResume(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.CreateOrResumeToday(r.Context())
	if err != nil {
		h.logger.Error("failed to create or resume session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// List serves GET /sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.uc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
