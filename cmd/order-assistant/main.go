package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/app"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if os.Getenv("SIGNAL_LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	setupLogger()
	cfg := app.ReadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// В stdio-режиме сервис говорит только по MCP: логи уходят в stderr,
	// HTTP-поверхности не поднимаются.
	if os.Getenv("SIGNAL_MCP_STDIO") == "1" {
		log.SetOutput(os.Stderr)
		if err := app.RunStdio(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("mcp stdio сервер завершился с ошибкой")
		}
		return
	}

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.Storage,
	}).Info("запускаем order assistant")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("order assistant остановлен")
}
