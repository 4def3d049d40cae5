// File: internal/infra/web/server.go
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"marketing-automation/internal/usecase"
)

// Server wires the parsing-status, webhook-proxy and chat routes.
type Server struct {
	statusUC  usecase.StatusUseCase
	triggerUC usecase.TriggerUseCase
	chatUC    usecase.ChatUseCase
	log       *zerolog.Logger
}

func NewServer(statusUC usecase.StatusUseCase, triggerUC usecase.TriggerUseCase, chatUC usecase.ChatUseCase, logger *zerolog.Logger) *Server {
	webLog := logger.With().Str("component", "web").Logger()
	return &Server{
		statusUC:  statusUC,
		triggerUC: triggerUC,
		chatUC:    chatUC,
		log:       &webLog,
	}
}

// Router builds the chi router with the common middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.traceMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Post("/parsing-status", s.handleStatusSet)
		api.Get("/parsing-status", s.handleStatusGet)
		api.Post("/webhook", s.handleTrigger)
		api.Post("/chat", s.handleChat)
		api.Get("/chat/history", s.handleChatHistory)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
