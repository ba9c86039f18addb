package billing

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/mnatlas/atlas-backend/internal/db"
	"github.com/mnatlas/atlas-backend/internal/utils"
	"gorm.io/gorm"
)

// Processor is the active payment client, initialized in Init().
// Nil when PAYMENTS_API_KEY is unset; checkout then returns 503.
var Processor *Client

// CreateCheckoutHandler handles POST /billing/checkout.
// Resolves (or lazily creates) the user's processor customer, then returns
// the hosted checkout URL for the configured price.
func CreateCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	if Processor == nil {
		http.Error(w, "Billing is not configured", http.StatusServiceUnavailable)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	priceID := os.Getenv("PAYMENTS_PRICE_ID")
	successURL := os.Getenv("PAYMENTS_SUCCESS_URL")
	cancelURL := os.Getenv("PAYMENTS_CANCEL_URL")
	if priceID == "" || successURL == "" || cancelURL == "" {
		http.Error(w, "Billing is not configured", http.StatusServiceUnavailable)
		return
	}

	var cust Customer
	err := db.DB.First(&cust, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var username string
		db.DB.Raw(`SELECT username FROM app_auth.users WHERE user_id = ?`, userID).Scan(&username)

		customerID, cerr := Processor.CreateCustomer(r.Context(), userID, username)
		if cerr != nil {
			log.Printf("[billing] create customer for %s: %v", userID, cerr)
			http.Error(w, "Failed to create billing customer", http.StatusBadGateway)
			return
		}
		cust = Customer{UserID: userID, CustomerID: customerID}
		if err := db.DB.Create(&cust).Error; err != nil {
			http.Error(w, "Failed to save billing customer", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, "Failed to look up billing customer", http.StatusInternalServerError)
		return
	}

	session, err := Processor.CreateCheckoutSession(r.Context(), cust.CustomerID, priceID, successURL, cancelURL)
	if err != nil {
		log.Printf("[billing] checkout for %s: %v", userID, err)
		http.Error(w, "Failed to create checkout session", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": session.URL})
}

// GetMySubscriptionHandler handles GET /billing/subscription
func GetMySubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	var sub Subscription
	err := db.DB.Where("user_id = ?", userID).Order("updated_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"none"}`))
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch subscription", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sub)
}

// SubscriptionRow is one line of the admin reconciliation listing.
type SubscriptionRow struct {
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	CustomerID       string `json:"customer_id"`
	SubscriptionID   string `json:"subscription_id"`
	Status           string `json:"status"`
	CurrentPeriodEnd string `json:"current_period_end"`
}

// ListSubscriptionsHandler handles GET /billing/admin/subscriptions.
// Joins local users against processor-synced state so admins can spot
// drift (e.g. active users with canceled subscriptions).
func ListSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	var rows []SubscriptionRow
	err := db.DB.Raw(`
		SELECT s.user_id,
		       COALESCE(u.username, '') AS username,
		       s.customer_id,
		       s.subscription_id,
		       s.status,
		       COALESCE(to_char(s.current_period_end, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'), '') AS current_period_end
		FROM billing.subscriptions s
		LEFT JOIN app_auth.users u ON u.user_id = s.user_id
		ORDER BY s.updated_at DESC
	`).Scan(&rows).Error
	if err != nil {
		http.Error(w, "Failed to fetch subscriptions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
