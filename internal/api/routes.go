package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/resolve", h.Resolve)
		r.Post("/catalog", h.ReplaceCatalog)

		r.Get("/learned", h.ListLearned)
		r.Post("/learned", h.CorrectLearned)
		r.Post("/learned/confirm", h.ConfirmLearned)
		r.Get("/learned/export", h.ExportLearned)
		r.Post("/learned/import", h.ImportLearned)
		r.Delete("/learned/{text}", h.DeleteLearned)
	})

	return r
}
