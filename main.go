package main

import (
	"log"
	"net/http"
	"time"

	"github.com/grvbrk/smart-bookmarks/internal/app"
	"github.com/grvbrk/smart-bookmarks/internal/config"
	"github.com/grvbrk/smart-bookmarks/internal/routes"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	app, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatal("Failed to start application:", err)
	}
	defer app.Close()

	r := routes.SetupRoutes(app)

	server := &http.Server{
		Addr:        cfg.Port,
		Handler:     r,
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// No write timeout: the live-updates stream stays open until the
		// client disconnects.
		WriteTimeout: 0,
	}

	app.Logger.Println("Server started on port", cfg.Port)

	err = server.ListenAndServe()
	if err != nil {
		app.Logger.Fatal("Error starting server", err)
	}
}
