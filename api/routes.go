package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes() {
	// Middleware stack
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/users/{userID}/theme", func(r chi.Router) {
			r.Get("/", s.handleGetTheme)               // GET /api/v1/users/{userID}/theme
			r.Put("/", s.handleSetMode)                // PUT /api/v1/users/{userID}/theme
			r.Put("/os-scheme", s.handleSetOSScheme)   // PUT /api/v1/users/{userID}/theme/os-scheme
			r.Post("/toggle", s.handleToggle)          // POST /api/v1/users/{userID}/theme/toggle
			r.Get("/palette", s.handleGetUserPalette)  // GET /api/v1/users/{userID}/theme/palette
		})

		r.Get("/palettes/{scheme}", s.handleGetPalette) // GET /api/v1/palettes/{scheme}
	})
}
