package main

import (
	"net/http"
	"os"
	"time"

	"petstore-api/internal/config"
	"petstore-api/internal/platform/logger"
	"petstore-api/internal/router"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "petstore-api",
	})

	handler, err := router.New(router.Options{Cfg: cfg, Log: log})
	if err != nil {
		log.Error("startup failed", "err", err.Error())
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", "addr", cfg.Addr, "auth_mode", string(cfg.AuthMode))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "err", err.Error())
		os.Exit(1)
	}
}
