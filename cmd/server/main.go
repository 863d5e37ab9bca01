package main

import (
	"go.uber.org/zap"

	"github.com/swiftserve/swiftserve/internal/app"
	"github.com/swiftserve/swiftserve/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("config load failed", zap.Error(err))
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		zap.L().Fatal("logger init failed", zap.Error(err))
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	srv, err := app.NewServer(cfg, log)
	if err != nil {
		log.Fatal("server init failed", zap.Error(err))
	}
	if err := srv.Run(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
