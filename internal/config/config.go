package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
	ErrInvalidLimit  = errors.New("invalid fetch limit")
)

const (
	DefaultMaxVideos  = 20
	DefaultPageSize   = 10
	DefaultAPIBaseURL = "https://www.googleapis.com"
	DefaultPort       = "8080"

	// maxPageSize is the largest maxResults the playlistItems endpoint accepts.
	maxPageSize = 50
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey string
	// MaxVideos caps the number of video records collected per run.
	MaxVideos int
	// PageSize is the maxResults sent with each playlistItems request.
	PageSize    int
	OutputDir   string
	APIBaseURL  string
	DBPath      string
	Port        string
	CORSOrigins []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		MaxVideos:     DefaultMaxVideos,
		PageSize:      DefaultPageSize,
		OutputDir:     envOr("OUTPUT_DIR", "."),
		APIBaseURL:    strings.TrimRight(envOr("YOUTUBE_API_URL", DefaultAPIBaseURL), "/"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          envOr("PORT", DefaultPort),
		CORSOrigins:   splitList(envOr("CORS_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.MaxVideos, err = envInt("MAX_VIDEOS_TO_FETCH", DefaultMaxVideos); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = envInt("PAGE_SIZE", DefaultPageSize); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	if c.MaxVideos <= 0 {
		return fmt.Errorf("%w: MAX_VIDEOS_TO_FETCH must be positive, got %d", ErrInvalidLimit, c.MaxVideos)
	}
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		return fmt.Errorf("%w: PAGE_SIZE must be between 1 and %d, got %d", ErrInvalidLimit, maxPageSize, c.PageSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidLimit, key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
