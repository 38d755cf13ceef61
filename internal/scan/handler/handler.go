package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yassirh/stocktake-service/internal/scan"
	"github.com/yassirh/stocktake-service/internal/scan/dto"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type ScanHandler struct {
	uc     scan.UseCase
	logger logger.ZapLogger
}

type IngestRequest struct {
	Barcode   string `json:"barcode"`
	SessionID int64  `json:"session_id"`
	Depot     string `json:"depot,omitempty"`
}

type IngestResponse struct {
	Accepted bool        `json:"accepted"`
	Product  interface{} `json:"product,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	Message  string      `json:"message,omitempty"`
}

type ResetRequest struct {
	SessionID int64 `json:"session_id"`
}

type ResetResponse struct {
	Success      bool  `json:"success"`
	ScansDeleted int64 `json:"scans_deleted"`
}

func NewScanHandler(uc scan.UseCase, log logger.ZapLogger) *ScanHandler {
	return &ScanHandler{uc: uc, logger: log}
}

// Ingest serves POST /scan.
func (h *ScanHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, IngestResponse{
			Accepted: false,
			Reason:   "InvalidBarcode",
			Message:  "invalid request body",
		})
		return
	}

	product, err := h.uc.Ingest(r.Context(), &dto.IngestInput{
		Barcode:   req.Barcode,
		SessionID: req.SessionID,
		Depot:     req.Depot,
	})
	if err != nil {
		if reason := scan.Reason(err); reason != "" {
			writeJSON(w, rejectionStatus(err), IngestResponse{
				Accepted: false,
				Reason:   reason,
				Message:  err.Error(),
			})
			return
		}
		h.logger.Error("scan ingestion failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, IngestResponse{
			Accepted: false,
			Message:  "internal error",
		})
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Accepted: true,
		Product:  product,
	})
}

func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, scan.ErrInvalidBarcode), errors.Is(err, scan.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, scan.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.Is(err, scan.ErrDuplicateScan):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// List serves GET /scans?model=&date=.
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.ScanFilters{
		Model: r.URL.Query().Get("model"),
	}
	if rawDay := r.URL.Query().Get("date"); rawDay != "" {
		day, err := time.Parse("2006-01-02", rawDay)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		filters.Day = &day
	}

	details, err := h.uc.ListScans(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list scans", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// Reset serves POST /admin/reset.
func (h *ScanHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id required"})
		return
	}

	deleted, err := h.uc.Reset(r.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("failed to reset session", zap.Int64("session_id", req.SessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, ResetResponse{Success: true, ScansDeleted: deleted})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
