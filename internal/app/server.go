package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/swiftserve/swiftserve/internal/api"
	"github.com/swiftserve/swiftserve/internal/cart"
	"github.com/swiftserve/swiftserve/internal/config"
	"github.com/swiftserve/swiftserve/internal/orders"
	"github.com/swiftserve/swiftserve/internal/realtime"
	"github.com/swiftserve/swiftserve/internal/store"
	"github.com/swiftserve/swiftserve/migrations"
)

// Server owns the process-wide resources: the HTTP listener, the shared
// DB pool, and the room registry all connections share.
type Server struct {
	httpServer *http.Server
	cfg        config.Config
	log        *zap.Logger

	Registry    *realtime.Registry
	Broadcaster *realtime.Broadcaster
	Gateway     *orders.Gateway
	DB          *sql.DB
}

func NewServer(cfg config.Config, log *zap.Logger) (*Server, error) {
	db, err := store.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnBoot {
		if err := store.Migrate(db, migrations.FS); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	st := store.New(db)
	reg := realtime.NewRegistry()
	bc := realtime.NewBroadcaster(reg, log)
	gw := orders.NewGateway(st, bc, log)

	h := api.NewHandlers(st, gw, cart.NewService(), log)
	ws := api.NewWSHandler(reg, gw, log)

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: api.SetupRoutes(h, ws, log),
		},
		cfg:         cfg,
		log:         log,
		Registry:    reg,
		Broadcaster: bc,
		Gateway:     gw,
		DB:          db,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then drains with the configured
// shutdown timeout.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.DB.Close()
	return err
}
