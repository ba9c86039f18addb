package civic

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnatlas/atlas-backend/internal/auth"
	"github.com/mnatlas/atlas-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Public routes. Boundary payloads are heavy, keep a per-IP budget.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(5, 10))
		r.Get("/kinds", GetKinds)
		r.Get("/boundaries/{kind}", GetBoundariesByKind)
		r.Get("/boundaries/{kind}/{name}", GetBoundaryByName)
		r.Get("/counties", GetCounties)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))
		r.Post("/admin/counties", SeedCounties)
	})

	return r
}
