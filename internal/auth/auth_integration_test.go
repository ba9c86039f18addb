package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mnatlas/atlas-backend/internal/auth"
	"github.com/mnatlas/atlas-backend/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect()
	dbAvailable = true

	auth.Init()

	r := chi.NewRouter()
	r.Mount("/auth", auth.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// createTestUser inserts a unique user and registers cleanup. Returns the
// username and plaintext password.
func createTestUser(t *testing.T) (username, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username = fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	user := auth.User{
		UserID:         uuid.New().String(),
		Username:       username,
		HashedPassword: string(hashed),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	return username, password
}

func loginUser(t *testing.T, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := http.Post(testServer.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	return resp
}

func sessionCookieValue(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Value
		}
	}
	return ""
}

// TestLogin_PersistsSessionBeforeCookie: a 200 login must leave a session row
// the cookie actually points at; a cookie referencing no row would 401 every
// subsequent request.
func TestLogin_PersistsSessionBeforeCookie(t *testing.T) {
	username, password := createTestUser(t)

	resp := loginUser(t, username, password)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	sessionID := sessionCookieValue(resp)
	if sessionID == "" {
		t.Fatal("expected session_id cookie on successful login")
	}

	var session auth.Session
	if err := db.DB.First(&session, "session_id = ?", sessionID).Error; err != nil {
		t.Fatalf("cookie points at no session row: %v", err)
	}
	if session.ExpiresAt.Before(time.Now()) {
		t.Error("new session is already expired")
	}
}

// TestLogin_ReplacesExistingSession: a second login issues a new session id
// and the old one stops resolving (one session per user).
func TestLogin_ReplacesExistingSession(t *testing.T) {
	username, password := createTestUser(t)

	first := loginUser(t, username, password)
	first.Body.Close()
	firstID := sessionCookieValue(first)

	second := loginUser(t, username, password)
	second.Body.Close()
	secondID := sessionCookieValue(second)

	if firstID == "" || secondID == "" || firstID == secondID {
		t.Fatalf("expected two distinct session ids, got %q and %q", firstID, secondID)
	}

	var stale auth.Session
	if err := db.DB.First(&stale, "session_id = ?", firstID).Error; err == nil {
		t.Error("expected first session id to be replaced")
	}
	if err := db.DB.First(&stale, "session_id = ?", secondID).Error; err != nil {
		t.Errorf("expected second session id to resolve: %v", err)
	}
}

// TestLogin_WrongPassword is the unauthorized path.
func TestLogin_WrongPassword(t *testing.T) {
	username, _ := createTestUser(t)

	resp := loginUser(t, username, "not-the-password")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if sessionCookieValue(resp) != "" {
		t.Error("failed login must not set a session cookie")
	}
}
