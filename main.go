package main

import (
	"context"
	"log"

	"chat-api/confs"
	"chat-api/db"
	"chat-api/server"
	"chat-api/services"

	"go.uber.org/zap"
)

func main() {
	// load config
	cfg, err := confs.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	// connect to database Postgres
	database, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to DB", zap.Error(err))
	}

	// keep the validator pool synced with the external registry
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sync := services.NewRegistrySync(database, cfg, logger)
	go sync.Run(ctx)

	// run server
	srv := server.NewServer(database, cfg, logger)
	srv.Start()
}
