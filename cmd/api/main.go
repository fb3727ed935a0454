package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"prescription-matcher/internal/platform/config"
	"prescription-matcher/internal/platform/httpserver"
	"prescription-matcher/internal/platform/logger"
	"prescription-matcher/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional (dev)
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("RX_CONFIG"), nil)
	if err != nil {
		return err
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := router.OpenStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	r := router.NewRouter(router.Options{Store: store, Logger: lg})

	return httpserver.Run(ctx, cfg.Addr, r, lg)
}
