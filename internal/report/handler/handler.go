package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/yassirh/stocktake-service/internal/report"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{uc: uc, logger: log}
}

// Summary serves GET /summary?sessionId=<id>.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var sessionID int64
	if raw := r.URL.Query().Get("sessionId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sessionId"})
			return
		}
		sessionID = parsed
	}

	rep, err := h.uc.Summarize(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, report.ErrNoActiveSession) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "NoActiveSession"})
			return
		}
		h.logger.Error("failed to summarize session", zap.Int64("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// Dashboard serves GET /dashboard.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
