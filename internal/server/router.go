package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	catalogH "github.com/yassirh/stocktake-service/internal/catalog/handler"
	reportH "github.com/yassirh/stocktake-service/internal/report/handler"
	scanH "github.com/yassirh/stocktake-service/internal/scan/handler"
	sessionH "github.com/yassirh/stocktake-service/internal/session/handler"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type Handlers struct {
	Catalog *catalogH.CatalogHandler
	Session *sessionH.SessionHandler
	Scan    *scanH.ScanHandler
	Report  *reportH.ReportHandler
}

func NewRouter(h Handlers, log logger.ZapLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/scan", h.Scan.Ingest).Methods("POST")
	r.HandleFunc("/scans", h.Scan.List).Methods("GET")
	r.HandleFunc("/admin/reset", h.Scan.Reset).Methods("POST")

	r.HandleFunc("/sessions", h.Session.CreateOrResume).Methods("POST")
	r.HandleFunc("/sessions", h.Session.List).Methods("GET")

	r.HandleFunc("/summary", h.Report.Summary).Methods("GET")
	r.HandleFunc("/dashboard", h.Report.Dashboard).Methods("GET")

	r.HandleFunc("/products/{barcode}", h.Catalog.GetProduct).Methods("GET")

	return r
}

func requestLogger(log logger.ZapLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}
