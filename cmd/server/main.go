package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/staynear-app/server/internal/api"
	"github.com/staynear-app/server/internal/config"
	"github.com/staynear-app/server/internal/repositories"
)

// @title StayNear API
// @version 1.0
// @description Location sharing and friendship backend.
func main() {
	cfg := config.Envs

	db, err := repositories.Connect(cfg.DB_URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	avatars, err := repositories.NewAvatarStore(cfg.R2, cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize avatar store: %v", err)
	}

	handler := api.SetupRouter(api.RouterConfig{
		DB:        db,
		Avatars:   avatars,
		JWTSecret: cfg.JWTSecret,
		Cors:      cfg.CorsConfig,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logrus.Infof("Starting StayNear server on port %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
