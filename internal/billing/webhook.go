package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mnatlas/atlas-backend/internal/db"
)

// webhookTolerance bounds how stale a signed timestamp may be.
const webhookTolerance = 5 * time.Minute

// WebhookHandler handles POST /billing/webhook.
// Events are verified, stored idempotently, then applied to local
// subscription state.
func WebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.Body.Close()

	secret := os.Getenv("PAYMENTS_WEBHOOK_SECRET")
	if secret == "" {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if !verifySignature(sig, raw, secret, time.Now()) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object map[string]interface{} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if event.ID == "" {
		http.Error(w, "missing event id", http.StatusBadRequest)
		return
	}

	duplicate, err := processEvent(gormEventStore{}, event.ID, event.Type, raw, func() error {
		return applyEvent(event.Type, event.Data.Object)
	})
	if err != nil {
		log.Printf("[billing] apply %s (%s): %v", event.Type, event.ID, err)
		http.Error(w, "event handling failed", http.StatusInternalServerError)
		return
	}
	if duplicate {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"duplicate":true}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}

// eventStore persists webhook events and their processed state.
type eventStore interface {
	Record(id, eventType string, payload []byte) (duplicate, processed bool, err error)
	MarkProcessed(id string) error
}

type gormEventStore struct{}

func (gormEventStore) Record(id, eventType string, payload []byte) (bool, bool, error) {
	res := db.DB.Exec(`
    insert into billing.webhook_events (event_id, type, payload, received_at, processed)
    values (?, ?, ?::jsonb, ?, false)
    on conflict (event_id) do nothing
`, id, eventType, string(payload), time.Now())
	if res.Error != nil {
		return false, false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, false, nil
	}

	var processed bool
	err := db.DB.Raw(`select processed from billing.webhook_events where event_id = ?`, id).Scan(&processed).Error
	return true, processed, err
}

func (gormEventStore) MarkProcessed(id string) error {
	return db.DB.Exec(`update billing.webhook_events set processed = true where event_id = ?`, id).Error
}

// processEvent records the event, applies it, and marks it processed only
// after apply succeeds. Processors redeliver on a 500, so a redelivery of an
// event whose apply failed must run the apply again rather than
// short-circuiting as a duplicate.
func processEvent(store eventStore, id, eventType string, payload []byte, apply func() error) (duplicate bool, err error) {
	dup, processed, err := store.Record(id, eventType, payload)
	if err != nil {
		return false, err
	}
	if dup && processed {
		return true, nil
	}

	if err := apply(); err != nil {
		return false, err
	}
	return false, store.MarkProcessed(id)
}

// verifySignature checks the processor's "t=<unix>,v1=<hex hmac>" scheme:
// HMAC-SHA256 over "<t>.<payload>" with the endpoint secret, plus a
// freshness window against replay.
func verifySignature(header string, payload []byte, secret string, now time.Time) bool {
	var ts string
	var candidates []string

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if ts == "" || len(candidates) == 0 {
		return false
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(unix, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, c := range candidates {
		if hmac.Equal([]byte(c), []byte(expected)) {
			return true
		}
	}
	return false
}

// applyEvent folds one processor event into local subscription state.
func applyEvent(eventType string, obj map[string]interface{}) error {
	switch eventType {
	case "checkout.session.completed":
		customerID := str(obj, "customer")
		subscriptionID := str(obj, "subscription")
		if customerID == "" || subscriptionID == "" {
			return nil // one-off payment, nothing to track
		}

		var cust Customer
		if err := db.DB.First(&cust, "customer_id = ?", customerID).Error; err != nil {
			log.Printf("[billing] WARNING: checkout for unknown customer %s", customerID)
			return nil
		}

		return db.DB.Exec(`
        insert into billing.subscriptions (user_id, customer_id, subscription_id, status, created_at, updated_at)
        values (?, ?, ?, 'active', now(), now())
        on conflict (subscription_id) do update set status = 'active', updated_at = now()
    `, cust.UserID, customerID, subscriptionID).Error

	case "customer.subscription.updated", "customer.subscription.deleted":
		subscriptionID := str(obj, "id")
		if subscriptionID == "" {
			return nil
		}

		status := str(obj, "status")
		if eventType == "customer.subscription.deleted" {
			status = "canceled"
		}

		fields := map[string]interface{}{"status": status}
		if end, ok := obj["current_period_end"].(float64); ok {
			fields["current_period_end"] = time.Unix(int64(end), 0)
		}
		if price := nestedPriceID(obj); price != "" {
			fields["price_id"] = price
		}

		return db.DB.Model(&Subscription{}).
			Where("subscription_id = ?", subscriptionID).
			Updates(fields).Error
	}

	// Unhandled event types are stored but otherwise ignored.
	return nil
}

func str(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func nestedPriceID(obj map[string]interface{}) string {
	items, ok := obj["items"].(map[string]interface{})
	if !ok {
		return ""
	}
	data, ok := items["data"].([]interface{})
	if !ok || len(data) == 0 {
		return ""
	}
	first, ok := data[0].(map[string]interface{})
	if !ok {
		return ""
	}
	price, ok := first["price"].(map[string]interface{})
	if !ok {
		return ""
	}
	return str(price, "id")
}
