package app

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/smart-bookmarks/internal/auth"
	"github.com/grvbrk/smart-bookmarks/internal/config"
	"github.com/grvbrk/smart-bookmarks/internal/handlers"
	"github.com/grvbrk/smart-bookmarks/internal/middlewares"
	"github.com/grvbrk/smart-bookmarks/internal/realtime"
	"github.com/grvbrk/smart-bookmarks/internal/store"
	"github.com/grvbrk/smart-bookmarks/internal/store/analytics"
	"github.com/grvbrk/smart-bookmarks/migrations"
	"github.com/grvbrk/smart-bookmarks/web"
	"github.com/redis/go-redis/v9"
)

type Application struct {
	Logger            *log.Logger
	Config            *config.Config
	RedisClient       *redis.Client
	Oauth             *auth.GoogleOauth
	SessionStore      *sessions.CookieStore
	StaticFS          fs.FS
	db                *sql.DB
	chConn            driver.Conn
	MiddlewareHandler *middlewares.MiddlewareHandler
	BookmarkHandler   *handlers.BookmarkHandler
	DashboardHandler  *handlers.DashboardHandler
	PageHandler       *handlers.PageHandler
}

func NewApplication(cfg *config.Config) (*Application, error) {
	logger := log.New(os.Stdout, "LOGGING: ", log.Ldate|log.Ltime)

	pgDB, err := store.ConnectPGDB(cfg.DatabaseURL)
	if err != nil {
		logger.Println("Error connecting to db")
		return nil, err
	}

	err = store.MigrateFS(pgDB, migrations.FS, "db")
	if err != nil {
		logger.Println("PANIC: Postgresql migration failed, exiting...")
		return nil, err
	}

	logger.Println("Database migrated...")

	redisClient, err := store.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Println("Error connecting to redis")
		return nil, err
	}

	chConn, err := store.ConnectClickhouse(cfg)
	if err != nil {
		logger.Println("Error connecting to clickhouse")
		return nil, err
	}

	err = store.MigrateClickhouse(cfg)
	if err != nil {
		logger.Println("PANIC: Clickhouse migration failed, exiting...")
		return nil, err
	}

	sessionStore := newSessionStore(cfg)

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	staticFS, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	userStore := store.NewPostgresUserStore(pgDB)
	bookmarkStore := store.NewPostgresBookmarkStore(pgDB)
	dashboardStore := store.NewPostgresDashboardStore(pgDB)
	eventStore := analytics.NewClickhouseEventStore(chConn)

	broker := realtime.NewRedisBroker(redisClient, logger)

	oauth := auth.NewGoogleOauth(cfg, logger, sessionStore, userStore)

	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkStore, eventStore, broker, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardStore, eventStore, logger)
	pageHandler := handlers.NewPageHandler(oauth, templates, logger)

	middlewareHandler := middlewares.NewMiddlewareHandler(logger, sessionStore, cfg.AllowedOrigins)

	app := &Application{
		Logger:            logger,
		Config:            cfg,
		RedisClient:       redisClient,
		Oauth:             oauth,
		SessionStore:      sessionStore,
		StaticFS:          staticFS,
		db:                pgDB,
		chConn:            chConn,
		MiddlewareHandler: middlewareHandler,
		BookmarkHandler:   bookmarkHandler,
		DashboardHandler:  dashboardHandler,
		PageHandler:       pageHandler,
	}

	return app, nil
}

func (a *Application) Close() {
	if a.RedisClient != nil {
		a.RedisClient.Close()
	}
	if a.chConn != nil {
		a.chConn.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func newSessionStore(cfg *config.Config) *sessions.CookieStore {
	authKey := []byte(cfg.SessionAuthKey)
	if len(authKey) == 0 {
		authKey = securecookie.GenerateRandomKey(64)
	}
	encryptionKey := []byte(cfg.SessionEncryptionKey)
	if len(encryptionKey) == 0 {
		encryptionKey = securecookie.GenerateRandomKey(32)
	}

	options := &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}

	if cfg.IsProduction() {
		options.Secure = true
		options.SameSite = http.SameSiteNoneMode
		options.Domain = cfg.CookieDomain
	} else {
		options.Secure = false
		options.SameSite = http.SameSiteLaxMode
	}

	sessionStore := sessions.NewCookieStore(authKey, encryptionKey)
	sessionStore.Options = options
	return sessionStore
}
