package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/grvbrk/smart-bookmarks/internal/auth"
)

type PageHandler struct {
	Oauth     *auth.GoogleOauth
	Templates *template.Template
	Logger    *log.Logger
}

func NewPageHandler(oauth *auth.GoogleOauth, templates *template.Template, logger *log.Logger) *PageHandler {
	return &PageHandler{
		Oauth:     oauth,
		Templates: templates,
		Logger:    logger,
	}
}

// HandlerLanding serves the sign-in page. An already authenticated user is
// sent straight to the dashboard.
func (ph *PageHandler) HandlerLanding(w http.ResponseWriter, r *http.Request) {
	if _, err := ph.Oauth.GetUser(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ph.render(w, "landing.html")
}

// HandlerDashboard serves the bookmark dashboard shell. Without a session it
// redirects to the landing page before any data is touched; the page itself
// loads bookmarks through the JSON API.
func (ph *PageHandler) HandlerDashboard(w http.ResponseWriter, r *http.Request) {
	if _, err := ph.Oauth.GetUser(r); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ph.render(w, "dashboard.html")
}

func (ph *PageHandler) render(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ph.Templates.ExecuteTemplate(w, name, nil); err != nil {
		ph.Logger.Println("Error rendering template", name, err)
	}
}
