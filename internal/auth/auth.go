package auth

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/smart-bookmarks/internal/config"
	"github.com/grvbrk/smart-bookmarks/internal/models"
	"github.com/grvbrk/smart-bookmarks/internal/store"
	"github.com/grvbrk/smart-bookmarks/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const SessionName = "bookmarks_session"

type Oauth interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

type GoogleOauth struct {
	Logger    *log.Logger
	Config    *oauth2.Config
	Store     *sessions.CookieStore
	UserStore store.UserStore
}

func NewGoogleOauth(cfg *config.Config, logger *log.Logger, sessionStore *sessions.CookieStore, userStore store.UserStore) *GoogleOauth {
	return &GoogleOauth{
		Logger: logger,
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.profile", "https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		Store:     sessionStore,
		UserStore: userStore,
	}
}

func (g *GoogleOauth) Login(w http.ResponseWriter, r *http.Request) {
	state := hex.EncodeToString(securecookie.GenerateRandomKey(16))

	session, _ := g.Store.Get(r, SessionName)
	session.Values["oauth_state"] = state
	if err := session.Save(r, w); err != nil {
		g.Logger.Println("Error saving oauth state in session", err)
	}

	url := g.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (g *GoogleOauth) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := g.Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	delete(session.Values, "user_id")
	delete(session.Values, "user_email")
	session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (g *GoogleOauth) Callback(w http.ResponseWriter, r *http.Request) {
	session, _ := g.Store.Get(r, SessionName)

	wantState, _ := session.Values["oauth_state"].(string)
	if wantState == "" || r.URL.Query().Get("state") != wantState {
		g.Logger.Println("Oauth state mismatch in callback")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Bad Request"})
		return
	}
	delete(session.Values, "oauth_state")

	code := r.URL.Query().Get("code")
	token, err := g.Config.Exchange(r.Context(), code)
	if err != nil {
		g.Logger.Println("Error exchanging user token", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	client := g.Config.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		g.Logger.Println("Error getting user info", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	defer resp.Body.Close()

	var userInfo struct {
		GoogleID string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Image    string `json:"picture"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		g.Logger.Println("Error decoding user info", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	user, err := g.UserStore.GetUserByGoogleID(userInfo.GoogleID)
	if err != nil {
		g.Logger.Println("Error getting user by google id", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	if user == nil {
		newUser := &models.User{
			GoogleID: userInfo.GoogleID,
			Name:     userInfo.Name,
			Email:    userInfo.Email,
			ImageSrc: userInfo.Image,
		}

		err = g.UserStore.CreateUser(newUser)
		if err != nil {
			g.Logger.Println("Error creating user", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
			return
		}

		user = newUser
	}

	session.Values["user_id"] = user.ID.String()
	session.Values["user_email"] = userInfo.Email
	session.Values["user_image"] = userInfo.Image
	session.Values["user_name"] = userInfo.Name

	err = session.Save(r, w)
	if err != nil {
		g.Logger.Println("Error saving session", err)
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (g *GoogleOauth) AuthUser(w http.ResponseWriter, r *http.Request) {

	session, err := g.Store.Get(r, SessionName)
	if err != nil {
		g.Logger.Println("Failed to decode session:", err)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Unauthorized"})
		return
	}

	email, ok := session.Values["user_email"].(string)
	if !ok || email == "" {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Unauthorized"})
		return
	}

	userID, _ := session.Values["user_id"].(string)
	userImage, _ := session.Values["user_image"].(string)
	userName, _ := session.Values["user_name"].(string)
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"user_id":    userID,
		"user_email": email,
		"user_image": userImage,
		"user_name":  userName,
	})
}

// GetUser reads the authenticated user out of the cookie session. A missing
// session is the normal logged-out state; callers turn the error into a
// redirect or a 401, not a server failure.
func (g *GoogleOauth) GetUser(r *http.Request) (*models.User, error) {
	session, err := g.Store.Get(r, SessionName)

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	userEmail, ok := session.Values["user_email"].(string)
	if !ok || userEmail == "" {
		return nil, fmt.Errorf("no user email found in session")
	}

	id, ok := session.Values["user_id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("no user id found in session")
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}

	return &models.User{
		ID:    userID,
		Email: userEmail,
	}, nil
}
