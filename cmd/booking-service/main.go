package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"towntriphub/internal/booking/bootstrap"
	"towntriphub/internal/shared/config"
	"towntriphub/internal/shared/logger"

	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в контейнере конфигурация приходит из окружения
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger("booking-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	bootstrap.Run(ctx, cfg, log)
}
