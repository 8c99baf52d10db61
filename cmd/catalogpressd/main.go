package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"catalogpress/internal/config"
	"catalogpress/internal/daemon"
	"catalogpress/internal/editstore"
	"catalogpress/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validate config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := editstore.Open(cfg)
	if err != nil {
		logger.Error("open edit store", logging.Error(err))
		return
	}
	defer store.Close()

	d, err := daemon.New(cfg, store, buildRepository(cfg), buildAuthenticator(cfg), logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("catalogpressd shut down")
}
