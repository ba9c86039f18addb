package mentions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnatlas/atlas-backend/internal/auth"
	"github.com/mnatlas/atlas-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Public routes
	r.Get("/pins", GetPins)
	r.Get("/collections/{id}/pins", GetCollectionPins)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/pins", CreatePin)
		r.Delete("/pins/{id}", DeletePin)
		r.Post("/collections", CreateCollection)
		r.Get("/collections", GetMyCollections)
		r.Post("/collections/{id}/pins", AddPinToCollection)
	})

	return r
}
