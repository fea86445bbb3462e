package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/dragonboard/internal/api/handlers"
	"github.com/wonny/dragonboard/internal/metrics"
	"github.com/wonny/dragonboard/pkg/logger"
)

// NewRouter creates and configures the HTTP router. metricsReg may be nil
// when metrics are disabled.
// ⭐ SSOT: 路由设置只在这个函数
func NewRouter(h *handlers.DashboardHandler, metricsReg *metrics.Registry, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	if metricsReg != nil {
		r.Handle("/metrics", metricsReg.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	// 主线板块 + 全球映射
	api.HandleFunc("/sectors", h.GetSectors).Methods(http.MethodGet)
	api.HandleFunc("/sectors.csv", h.ExportSectorsCSV).Methods(http.MethodGet)
	api.HandleFunc("/mapping", h.GetMapping).Methods(http.MethodGet)

	// 龙头 PK
	api.HandleFunc("/leaders", h.GetLeaders).Methods(http.MethodGet)
	api.HandleFunc("/leaders.csv", h.ExportLeadersCSV).Methods(http.MethodGet)
	api.HandleFunc("/leaders.xlsx", h.ExportLeadersXLSX).Methods(http.MethodGet)

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log, metricsReg))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "dragonboard-api",
	})
}
