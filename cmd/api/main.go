package main

import (
	"context"
	"os"

	"github.com/yigit/tuitiondesk/internal/pkg/logger"
	"github.com/yigit/tuitiondesk/internal/server"
)

// @title Tuition Center API
// @version 1.0
// @description API for managing students, fees, attendance and announcements of a tuition center

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
