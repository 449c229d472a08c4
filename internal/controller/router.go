package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (c Controller) Mux() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", c.Health)
	r.Get("/town", c.GetTown)
	r.Get("/conversation-areas/{area-id}", c.GetConversationArea)
	r.Get("/viewing-areas/{area-id}", c.GetViewingArea)
	r.Put("/viewing-areas/{area-id}", c.UpdateViewingArea)

	return r
}
