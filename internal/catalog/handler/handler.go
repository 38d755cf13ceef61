package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/yassirh/stocktake-service/internal/catalog"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: log}
}

// GetProduct serves GET /products/{barcode}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	barcode := mux.Vars(r)["barcode"]

	p, err := h.uc.GetProduct(r.Context(), barcode)
	if err != nil {
		h.logger.Error("failed to fetch product", zap.String("barcode", barcode), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
