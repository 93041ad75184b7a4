package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewAPIRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, NewStructuredLogger(), ConnectionClose)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/messages/$extract", extractMessages)
	})
	r.Get("/_version", getVersion)
	r.Get("/_health", healthCheck)
	return r
}
