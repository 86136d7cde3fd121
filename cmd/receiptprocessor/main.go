package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iurnickita/receiptprocessor/internal/config"
	"github.com/iurnickita/receiptprocessor/internal/handler"
	"github.com/iurnickita/receiptprocessor/internal/logger"
	"github.com/iurnickita/receiptprocessor/internal/service"
	"github.com/iurnickita/receiptprocessor/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}
	defer zaplog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := store.NewStore()
	service := service.NewService(store, zaplog)

	return handler.Serve(ctx, cfg.Handler, service, zaplog)
}
