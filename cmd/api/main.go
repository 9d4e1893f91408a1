package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/yt-insights/ytexport/internal/api"
	"github.com/yt-insights/ytexport/internal/config"
	"github.com/yt-insights/ytexport/internal/fetcher"
	"github.com/yt-insights/ytexport/internal/models"
	"github.com/yt-insights/ytexport/internal/server"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	search, err := api.NewChannelSearch(context.Background(), cfg.YouTubeAPIKey, api.EndpointOptions(cfg.APIBaseURL)...)
	if err != nil {
		log.Fatalf("Failed to initialize YouTube API: %v", err)
	}
	client := api.NewYouTubeClient(cfg.YouTubeAPIKey, api.WithBaseURL(cfg.APIBaseURL))

	f := fetcher.New(search, client, fetcher.Options{
		MaxVideos: cfg.MaxVideos,
		PageSize:  cfg.PageSize,
	})

	var store server.RunStore
	if cfg.DBPath != "" {
		db, err := models.NewDatabase(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		store = db
	}

	if err := server.NewServer(cfg, f, store).Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
