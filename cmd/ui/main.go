package main

import (
	"log"
	"os"

	"brineviz/ui"
)

func main() {
	port := os.Getenv("UI_PORT")
	if port == "" {
		port = "8081"
	}
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	app, err := ui.NewApp(ui.AppConfig{
		Port:    port,
		APIBase: apiBase,
	})
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting BrineViz UI on http://localhost:%s", port)
	log.Fatal(app.Start())
}
