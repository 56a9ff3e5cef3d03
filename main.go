package main

import (
	"log"

	"brineviz/internal/config"
	"brineviz/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	server := ui.NewServer(appConfig)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
