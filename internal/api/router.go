package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"website-audit/internal/common/logger"
)

// NewRouter mounts the audit API, health probes, and the metrics endpoint.
func NewRouter(log logger.Logger, handlers *Handlers, allowedOrigins []string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestID)
	mux.Use(RequestLogger(log))
	mux.Use(CORS(allowedOrigins))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Post("/analyze", handlers.Analyze)
		r.Post("/create-payment", handlers.CreatePayment)
		r.Post("/lead-capture", handlers.LeadCapture)
		r.Post("/generate-pdf", handlers.GeneratePDF)
	})

	return mux
}
