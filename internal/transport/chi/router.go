package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/simglobe/simglobe/internal/metrics"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter mounts the API on a chi router with the standard middleware stack.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(metrics.Middleware("/metrics"))

	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.MethodNotAllowed)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.ListRisks)
			r.Get("/search/{query}", s.SearchRisks)
			r.Get("/{marketId}", s.GetRisk)
		})
		r.Route("/analyze", func(r chi.Router) {
			r.Post("/", s.Analyze)
			r.Post("/product", s.AnalyzeProduct)
			r.Get("/summary", s.AnalysisSummary)
			r.Get("/usage", s.AnalystUsage)
		})
		r.Route("/hedge", func(r chi.Router) {
			r.Post("/", s.CreateHedge)
			r.Post("/estimate", s.EstimateHedge)
			r.Post("/suggest", s.SuggestHedge)
			r.Get("/history/{wallet}", s.HedgeHistory)
			r.Get("/{transactionId}", s.GetHedge)
		})
		r.Route("/match", func(r chi.Router) {
			r.Post("/product", s.MatchProduct)
			r.Post("/risk", s.MatchRisk)
		})
		r.Post("/products/assess", s.AssessProduct)
		r.Get("/voice-brief/transcript", s.BriefingTranscript)
	})

	return r
}
