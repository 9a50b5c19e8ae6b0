package main

import (
	"context"

	fiberws "github.com/gofiber/websocket/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sponsorhub/bidengine/internal/auction/application"
	"github.com/sponsorhub/bidengine/internal/auction/infra/repository/postgres"
	gateway "github.com/sponsorhub/bidengine/internal/auction/infra/websocket"
	"github.com/sponsorhub/bidengine/internal/shared/config"
	"github.com/sponsorhub/bidengine/internal/shared/db"
	"github.com/sponsorhub/bidengine/internal/shared/db/migrations"
	"github.com/sponsorhub/bidengine/internal/shared/httpserver"
	"github.com/sponsorhub/bidengine/internal/shared/logger"
	ws "github.com/sponsorhub/bidengine/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	cfg := config.Load()
	log.Info("starting bidengine server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence is optional: any failure here degrades the process to
	// memory-only mode instead of refusing to start.
	var store application.SnapshotStore
	if cfg.PersistEnabled {
		if err := migrations.RunMigrations(); err != nil {
			log.Warn("database migration failed, running memory-only", zap.Error(err))
		} else if pool, err := db.GetPostgresDBPool(ctx); err != nil {
			log.Warn("database unavailable, running memory-only", zap.Error(err))
		} else {
			defer pool.Close()
			store = postgres.NewSnapshotRepository(pool)
		}
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	processor := application.NewProcessor(hub, store, clockwork.NewRealClock(), cfg.SweepInterval)
	go processor.Run(ctx)

	gw := gateway.NewGateway(ctx, processor, hub)
	go gw.ListenForMessages(ctx)

	server := httpserver.NewServer()
	server.App().Get("/ws", fiberws.New(gw.HandleConnection))

	if err := server.Start(":" + cfg.Port); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
