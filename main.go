// main.go
package main

import (
	"log"

	"studio-booking/cmd"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/wire"
	"studio-booking/pkg/database"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/metrics"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Outgoing mail
	sender, err := mailer.New(config.Email)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	m := metrics.New(config.App.Name)

	// Wire all dependencies
	app := wire.Wiring(repos, config, sender, m, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
