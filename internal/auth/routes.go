package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnatlas/atlas-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	r.Post("/register", RegisterHandler)
	r.Post("/login", LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/logout", LogoutHandler)
		r.Get("/me", MeHandler)
		r.Patch("/profile", UpdateProfileHandler)
		r.Post("/password", UpdatePasswordHandler)
	})

	return r
}
