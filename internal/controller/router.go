package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", c.Healthz)
		r.Get("/videos/{video-id}", c.GetVideo)
		r.Get("/ws", c.ServeSession)
	})

	static := c.staticHandler()
	r.Get("/*", static)
	r.Head("/*", static)

	return r
}
