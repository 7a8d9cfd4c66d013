// Package server 提供推荐引擎的 HTTP API 层。
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rushteam/eventrec/engine"
)

// Server 把引擎操作映射为 HTTP 路由。
type Server struct {
	engine *engine.Engine
	logger zerolog.Logger
}

func New(eng *engine.Engine, logger zerolog.Logger) *Server {
	return &Server{engine: eng, logger: logger}
}

// Router 组装全部路由与中间件。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/recommendations", func(r chi.Router) {
		r.Get("/personalized", s.handlePersonalized)
		r.Get("/discovery", s.handleDiscovery)
		r.Get("/trending", s.handleTrending)
	})

	r.Get("/api/events/{eventID}/similar", s.handleSimilar)

	r.Route("/api/analytics", func(r chi.Router) {
		r.Get("/sales-forecast", s.handleSalesForecast)
		r.Get("/pricing-optimization", s.handlePricing)
		r.Post("/sentiment", s.handleSentiment)
		r.Post("/anomaly-detection", s.handleAnomaly)
	})

	return r
}

// requestLogger 用结构化日志记录每个请求的方法、路径、状态与耗时。
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
