package server

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yt-insights/ytexport/internal/api"
	"github.com/yt-insights/ytexport/internal/config"
	"github.com/yt-insights/ytexport/internal/export"
	"github.com/yt-insights/ytexport/internal/fetcher"
	"github.com/yt-insights/ytexport/internal/models"
)

// RunStore persists run snapshots
type RunStore interface {
	StoreRun(summary models.RunSummary, records []models.VideoRecord) error
	GetLatestRun(channelID string) (*models.StoredRun, error)
}

// Server represents the API server
type Server struct {
	router  *gin.Engine
	fetcher *fetcher.Fetcher
	store   RunStore
	port    string
}

// NewServer creates a new API server. store may be nil, which disables run history.
func NewServer(cfg *config.Config, f *fetcher.Fetcher, store RunStore) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router:  router,
		fetcher: f,
		store:   store,
		port:    cfg.Port,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts listening on the configured port
func (s *Server) Run() error {
	log.Printf("Server starting on port %s", s.port)
	return s.router.Run(":" + s.port)
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	s.router.GET("/channel/title/:title", s.getChannelByTitle)
	s.router.GET("/channel/:id", s.getChannelByID)
	s.router.GET("/channel/:id/videos", s.getChannelVideos)
	s.router.GET("/channel/:id/latest", s.getLatestRun)
}

// getChannelByTitle handles requests to resolve a channel by its display name
func (s *Server) getChannelByTitle(c *gin.Context) {
	channelID, err := s.fetcher.ResolveChannel(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}

	channel, err := s.fetcher.ChannelSummary(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

// getChannelByID handles requests to get channel by ID
func (s *Server) getChannelByID(c *gin.Context) {
	channel, err := s.fetcher.ChannelSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

// getChannelVideos runs a capped fetch for the channel and returns the records
func (s *Server) getChannelVideos(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or csv"})
		return
	}

	channelID := c.Param("id")
	log.Printf("Fetching videos for channel: %s", channelID)

	result, err := s.fetcher.FetchChannel(c.Request.Context(), channelID)
	if err != nil {
		log.Printf("Error fetching videos for channel %s: %v", channelID, err)
		respondError(c, err)
		return
	}

	s.storeRun(result)

	var buf bytes.Buffer
	switch format {
	case "csv":
		err = export.WriteCSV(&buf, result.Records)
	default:
		err = export.WriteJSON(&buf, result.Records)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode videos"})
		return
	}

	paths := export.Files("", result.DateFetched)
	if format == "csv" {
		c.Header("Content-Disposition", `attachment; filename="`+paths.CSV+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// getLatestRun returns the last stored run for a channel
func (s *Server) getLatestRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run history is disabled"})
		return
	}

	run, err := s.store.GetLatestRun(c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRun) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error reading stored run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) storeRun(result *fetcher.Result) {
	if s.store == nil {
		return
	}
	if err := s.store.StoreRun(result.Summary(), result.Records); err != nil {
		log.Printf("Failed to store run: %v", err)
	}
}

func respondError(c *gin.Context, err error) {
	var statusErr *api.StatusError
	switch {
	case errors.Is(err, fetcher.ErrEmptyChannelName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, api.ErrChannelNotFound), errors.Is(err, api.ErrNoUploadsPlaylist):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &statusErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
