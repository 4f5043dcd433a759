package middlewares

import (
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/smart-bookmarks/internal/auth"
)

func newTestMiddleware() (*MiddlewareHandler, *sessions.CookieStore) {
	sessionStore := sessions.NewCookieStore([]byte("test-auth-key-0123456789abcdef"))
	logger := log.New(os.Stdout, "TEST: ", log.Ldate|log.Ltime)
	return NewMiddlewareHandler(logger, sessionStore, nil), sessionStore
}

// sessionCookie builds a request cookie carrying an authenticated session.
func sessionCookie(t *testing.T, store *sessions.CookieStore, values map[string]interface{}) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	session, err := store.Get(req, auth.SessionName)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(req, rec); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie written")
	}
	return cookies[0]
}

func TestAuthenticateRejectsMissingSession(t *testing.T) {
	mh, _ := newTestMiddleware()

	handler := mh.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateRejectsIncompleteSession(t *testing.T) {
	mh, sessionStore := newTestMiddleware()

	handler := mh.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with an incomplete session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.AddCookie(sessionCookie(t, sessionStore, map[string]interface{}{
		"user_email": "someone@example.com",
		// user_id missing
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticatePutsUserInContext(t *testing.T) {
	mh, sessionStore := newTestMiddleware()

	userID := uuid.New()
	var sawUser bool

	handler := mh.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r)
		if !ok {
			t.Fatal("no user in context")
		}
		if user.ID != userID {
			t.Errorf("user ID = %s, want %s", user.ID, userID)
		}
		if user.Email != "someone@example.com" {
			t.Errorf("user email = %s, want someone@example.com", user.Email)
		}
		sawUser = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.AddCookie(sessionCookie(t, sessionStore, map[string]interface{}{
		"user_email": "someone@example.com",
		"user_id":    userID.String(),
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !sawUser {
		t.Fatal("inner handler never ran")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCorsRejectsUnknownOrigin(t *testing.T) {
	sessionStore := sessions.NewCookieStore([]byte("test-auth-key-0123456789abcdef"))
	logger := log.New(os.Stdout, "TEST: ", log.Ldate|log.Ltime)
	mh := NewMiddlewareHandler(logger, sessionStore, []string{"https://app.example.com"})

	handler := mh.Cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCorsAllowsConfiguredOrigin(t *testing.T) {
	sessionStore := sessions.NewCookieStore([]byte("test-auth-key-0123456789abcdef"))
	logger := log.New(os.Stdout, "TEST: ", log.Ldate|log.Ltime)
	mh := NewMiddlewareHandler(logger, sessionStore, []string{"https://app.example.com"})

	handler := mh.Cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://app.example.com")
	}
}
