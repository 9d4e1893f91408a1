package api

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ChannelSearch resolves channel names through the YouTube Data API client library
type ChannelSearch struct {
	service *youtube.Service
}

// NewChannelSearch creates the search service. Extra options are passed to youtube.NewService.
func NewChannelSearch(ctx context.Context, apiKey string, opts ...option.ClientOption) (*ChannelSearch, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &ChannelSearch{service: service}, nil
}

// EndpointOptions points the service at baseURL. The default API host needs no option.
func EndpointOptions(baseURL string) []option.ClientOption {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || baseURL == defaultBaseURL {
		return nil
	}
	return []option.ClientOption{option.WithEndpoint(baseURL + "/")}
}

// ResolveChannelID returns the id of the first channel matching name,
// or "" when the search has no results.
func (s *ChannelSearch) ResolveChannelID(ctx context.Context, name string) (string, error) {
	call := s.service.Search.List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("error searching for channel: %w", err)
	}

	if len(response.Items) == 0 {
		return "", nil
	}

	item := response.Items[0]
	if item.Snippet != nil && item.Snippet.ChannelId != "" {
		return item.Snippet.ChannelId, nil
	}
	if item.Id != nil {
		return item.Id.ChannelId, nil
	}
	return "", nil
}
