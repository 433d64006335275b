package main

import (
	"context"
	"log/slog"
	"os"

	"enrollstats/internal/app"
	"enrollstats/internal/infrastructure"
)

func main() {
	// Create application instance
	application, err := app.NewApplication(context.Background(), nil, nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	// Start application
	if err := application.Run(); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
