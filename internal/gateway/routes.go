package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/agro-ai-gateway/internal/history"
)

func RegisterRoutes(r chi.Router, h *Handler, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate", h.Generate)
			r.Post("/assistant", h.GenerateKind(history.KindAssistant))
			r.Post("/farm", h.GenerateKind(history.KindFarmAnalyzer))
			r.Post("/soil", h.GenerateKind(history.KindSoilAnalyzer))
			r.Post("/crop", h.GenerateKind(history.KindCropAnalyzer))
		})
		r.Get("/prompts", h.ListPrompts)
	})
}
