package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/grvbrk/smart-bookmarks/internal/app"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httprate.LimitAll(200, time.Minute))
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(app.MiddlewareHandler.Security)

	// Views
	r.Get("/", app.PageHandler.HandlerLanding)
	r.Get("/dashboard", app.PageHandler.HandlerDashboard)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(app.StaticFS))))

	r.Route("/auth", func(r chi.Router) {

		r.Use(httprate.LimitAll(100, time.Minute))

		r.Get("/google/login", app.Oauth.Login)
		r.Get("/google/logout", app.Oauth.Logout)
		r.Get("/google/callback", app.Oauth.Callback)

		r.Group(func(r chi.Router) {
			r.Use(app.MiddlewareHandler.Cors)
			r.Get("/user", app.Oauth.AuthUser)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitAll(100, time.Minute))
		r.Use(app.MiddlewareHandler.Cors)
		r.Use(app.MiddlewareHandler.Authenticate)

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", app.BookmarkHandler.HandlerGetBookmarks)
			r.Post("/", app.BookmarkHandler.HandlerCreateBookmark)
			r.Delete("/{id}", app.BookmarkHandler.HandlerDeleteBookmark)
			r.Get("/live", app.BookmarkHandler.HandlerStreamBookmarkChanges)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/metrics", app.DashboardHandler.HandlerGetDashboardMetrics)
		})
	})

	return r
}
