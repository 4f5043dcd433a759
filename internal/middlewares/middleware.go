package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/smart-bookmarks/internal/auth"
	"github.com/grvbrk/smart-bookmarks/internal/models"
	"github.com/grvbrk/smart-bookmarks/internal/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

type MiddlewareHandler struct {
	Logger         *log.Logger
	SessionStore   *sessions.CookieStore
	AllowedOrigins []string
}

func NewMiddlewareHandler(logger *log.Logger, store *sessions.CookieStore, allowedOrigins []string) *MiddlewareHandler {
	return &MiddlewareHandler{
		Logger:         logger,
		SessionStore:   store,
		AllowedOrigins: allowedOrigins,
	}
}

func (mh *MiddlewareHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		session, err := mh.SessionStore.Get(r, auth.SessionName)
		if err != nil {
			mh.Logger.Println("Error getting session in auth middleware:", err)
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		if session.IsNew {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		userEmail, emailOk := session.Values["user_email"].(string)
		userIDStr, idOk := session.Values["user_id"].(string)

		if !emailOk || !idOk || userEmail == "" || userIDStr == "" {
			mh.Logger.Println("Invalid or missing user data in session")
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			mh.Logger.Println("Invalid user ID format in session:", err)
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		user := &models.User{
			ID:    userID,
			Email: userEmail,
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (mh *MiddlewareHandler) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && !mh.isOriginAllowed(origin) {
			mh.Logger.Printf("Origin not allowed: %s", origin)
			utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"error": "Origin not allowed"})
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mh.Logger.Printf("Request: %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) isOriginAllowed(origin string) bool {
	for _, allowedOrigin := range mh.AllowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}

func GetUserFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}
