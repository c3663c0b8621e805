package main

import (
	"context"
	"log"
	"time"

	"showtime-engine/cmd"
	"showtime-engine/internal/data/repository"
	"showtime-engine/internal/wire"
	"showtime-engine/pkg/database"
	"showtime-engine/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, config, logger)

	// Screening statuses converge to the clock even with no traffic.
	go runStatusSweep(app, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func runStatusSweep(app *wire.App, config *utils.Config, logger *zap.Logger) {
	interval := time.Duration(config.Lifecycle.SweepIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := app.Service.Lifecycle.Sweep(ctx); err != nil {
			logger.Error("Background status sweep failed", zap.Error(err))
		}
		cancel()
	}
}
