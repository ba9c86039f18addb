package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func signPayload(t *testing.T, payload []byte, secret string, at time.Time) string {
	t.Helper()
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature_Valid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()
	header := signPayload(t, payload, "whsec_test", now)

	if !verifySignature(header, payload, "whsec_test", now) {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := signPayload(t, payload, "whsec_other", now)

	if verifySignature(header, payload, "whsec_test", now) {
		t.Error("expected signature with wrong secret to fail")
	}
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := signPayload(t, payload, "whsec_test", now)

	if verifySignature(header, []byte(`{"id":"evt_2"}`), "whsec_test", now) {
		t.Error("expected tampered payload to fail verification")
	}
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-time.Hour)
	header := signPayload(t, payload, "whsec_test", signedAt)

	if verifySignature(header, payload, "whsec_test", time.Now()) {
		t.Error("expected hour-old signature to be rejected")
	}
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{"", "t=abc,v1=def", "v1=deadbeef", "t=123"} {
		if verifySignature(header, payload, "whsec_test", now) {
			t.Errorf("expected malformed header %q to fail", header)
		}
	}
}

// mockEventStore implements eventStore in memory: id -> processed flag.
type mockEventStore struct {
	events map[string]bool
}

func (m *mockEventStore) Record(id, _ string, _ []byte) (bool, bool, error) {
	processed, ok := m.events[id]
	if ok {
		return true, processed, nil
	}
	m.events[id] = false
	return false, false, nil
}

func (m *mockEventStore) MarkProcessed(id string) error {
	m.events[id] = true
	return nil
}

// TestProcessEvent_RetryAfterApplyFailure: a delivery whose apply fails must
// leave the event unprocessed, and the processor's redelivery must run the
// apply again instead of short-circuiting as a duplicate.
func TestProcessEvent_RetryAfterApplyFailure(t *testing.T) {
	store := &mockEventStore{events: map[string]bool{}}

	_, err := processEvent(store, "evt_1", "customer.subscription.updated", nil, func() error {
		return errors.New("transient db failure")
	})
	if err == nil {
		t.Fatal("expected first delivery to surface the apply failure")
	}
	if store.events["evt_1"] {
		t.Fatal("event must not be marked processed after a failed apply")
	}

	applied := 0
	dup, err := processEvent(store, "evt_1", "customer.subscription.updated", nil, func() error {
		applied++
		return nil
	})
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if dup {
		t.Error("redelivery of an unprocessed event must not report duplicate")
	}
	if applied != 1 {
		t.Errorf("expected apply to run once on redelivery, ran %d times", applied)
	}
	if !store.events["evt_1"] {
		t.Error("expected event marked processed after successful apply")
	}
}

// TestProcessEvent_DuplicateSkipsApply: once an event is processed, further
// redeliveries must not run the apply again.
func TestProcessEvent_DuplicateSkipsApply(t *testing.T) {
	store := &mockEventStore{events: map[string]bool{"evt_done": true}}

	dup, err := processEvent(store, "evt_done", "checkout.session.completed", nil, func() error {
		t.Error("apply must not run for an already-processed event")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Error("expected duplicate report for a processed event")
	}
}

func TestNestedPriceID(t *testing.T) {
	raw := `{
		"id": "sub_1",
		"items": {"data": [{"price": {"id": "price_mn_monthly"}}]}
	}`
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatal(err)
	}

	if got := nestedPriceID(obj); got != "price_mn_monthly" {
		t.Errorf("expected price_mn_monthly, got %q", got)
	}
	if got := nestedPriceID(map[string]interface{}{}); got != "" {
		t.Errorf("expected empty price id for empty object, got %q", got)
	}
}

func TestStrFallback(t *testing.T) {
	m := map[string]interface{}{"customer": "cus_123", "number": 5}
	if got := str(m, "missing", "customer"); got != "cus_123" {
		t.Errorf("expected fallback to customer key, got %q", got)
	}
	if got := str(m, "number"); got != "" {
		t.Errorf("expected non-string value to be skipped, got %q", got)
	}
}
