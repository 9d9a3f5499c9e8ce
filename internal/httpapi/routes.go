package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/breach-party/backend/internal/hub"
	"github.com/breach-party/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, frontendURL string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/api/sessions", CreateSession(h, frontendURL, log))
	r.Get("/api/sessions/{id}", GetSession(h))
	r.Get("/api/sessions/{id}/game", GetGame(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
