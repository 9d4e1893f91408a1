package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yt-insights/ytexport/internal/models"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	apiPath        = "/youtube/v3"
)

var (
	ErrChannelNotFound   = errors.New("channel not found")
	ErrNoUploadsPlaylist = errors.New("uploads playlist not found")
)

// HTTPClient is the subset of *http.Client used by YouTubeClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures a YouTubeClient
type ClientOption func(*YouTubeClient)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *YouTubeClient) {
		c.client = httpClient
	}
}

// WithBaseURL points the client at another API host (used by tests and proxies)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *YouTubeClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// YouTubeClient handles direct HTTP requests to YouTube API
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  HTTPClient
}

// NewYouTubeClient creates a new YouTube client
func NewYouTubeClient(apiKey string, opts ...ClientOption) *YouTubeClient {
	c := &YouTubeClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return fmt.Sprintf("YouTube API %s rejected the request (status 400) - check the API key and parameters", e.Endpoint)
	case http.StatusUnauthorized:
		return fmt.Sprintf("YouTube API %s authentication failed (status 401) - check YOUTUBE_API_KEY", e.Endpoint)
	case http.StatusForbidden:
		return fmt.Sprintf("YouTube API %s access denied (status 403) - the key may be invalid or the quota exceeded", e.Endpoint)
	case http.StatusNotFound:
		return fmt.Sprintf("YouTube API %s not found (status 404)", e.Endpoint)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("YouTube API %s rate limit exceeded (status 429)", e.Endpoint)
	case http.StatusServiceUnavailable:
		return fmt.Sprintf("YouTube API %s temporarily unavailable (status 503)", e.Endpoint)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Sprintf("YouTube API %s server error (status %d)", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("YouTube API %s returned status code: %d", e.Endpoint, e.StatusCode)
	}
}

// GetChannelSummary fetches the statistics and uploads playlist of a channel
func (c *YouTubeClient) GetChannelSummary(ctx context.Context, channelID string) (*models.ChannelSummary, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", channelID)

	var response models.ChannelResponse
	if err := c.get(ctx, "channels", params, &response); err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	summary := response.Items[0].Summary()
	if summary.UploadsPlaylistID == "" {
		return nil, fmt.Errorf("%w for channel %s", ErrNoUploadsPlaylist, channelID)
	}
	return summary, nil
}

// ListPlaylistItems fetches one page of a playlist. An empty pageToken requests the first page.
func (c *YouTubeClient) ListPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int) (*models.PlaylistItemsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(maxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var response models.PlaylistItemsResponse
	if err := c.get(ctx, "playlistItems", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListVideos fetches snippet and statistics for the given videos in one call
func (c *YouTubeClient) ListVideos(ctx context.Context, videoIDs []string) ([]models.VideoItem, error) {
	if len(videoIDs) == 0 {
		return []models.VideoItem{}, nil
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", strings.Join(videoIDs, ","))

	var response models.VideoListResponse
	if err := c.get(ctx, "videos", params, &response); err != nil {
		return nil, err
	}
	if response.Items == nil {
		return []models.VideoItem{}, nil
	}
	return response.Items, nil
}

func (c *YouTubeClient) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s/%s?%s", c.baseURL, apiPath, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("YouTube API %s returned %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
