package checkbook

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnatlas/atlas-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Public, read-only. Budget listings page through big tables, so they
	// share the civic endpoints' per-IP budget.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(5, 10))
		r.Get("/budgets", GetBudgets)
		r.Get("/budgets/agencies", GetAgencySpending)
	})

	return r
}
