package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"commentary_enricher/internal/cli"
)

func main() {
	// Загружаем .env (опционально)
	_ = godotenv.Load()

	// Контекст с сигналами завершения
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		log.Error("❌ command failed", "err", err)
		stop()
		os.Exit(1)
	}
}
