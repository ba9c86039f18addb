package billing

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnatlas/atlas-backend/internal/auth"
	"github.com/mnatlas/atlas-backend/internal/middleware"
)

func InitProcessor() {
	client, err := NewClient()
	if err != nil {
		log.Printf("[billing] WARNING: failed to initialize payment client: %v", err)
		return
	}
	if client == nil {
		log.Println("[billing] PAYMENTS_API_KEY not set, checkout disabled")
		return
	}
	Processor = client
	log.Println("[billing] payment client initialized")
}

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Public: the processor calls this, not a browser.
	r.Post("/webhook", WebhookHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/checkout", CreateCheckoutHandler)
		r.Get("/subscription", GetMySubscriptionHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))
		r.Get("/admin/subscriptions", ListSubscriptionsHandler)
	})

	return r
}
