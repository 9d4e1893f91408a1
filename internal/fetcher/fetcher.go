// Package fetcher collects channel statistics and a capped list of video records
// from a channel's uploads playlist.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/yt-insights/ytexport/internal/api"
	"github.com/yt-insights/ytexport/internal/models"
)

// DateLayout is the format of VideoRecord.DateFetched and of export file names.
const DateLayout = "2006-01-02"

var ErrEmptyChannelName = errors.New("channel name is required")

// Resolver turns a channel display name into a channel id.
// It returns "" and no error when nothing matches.
type Resolver interface {
	ResolveChannelID(ctx context.Context, name string) (string, error)
}

// Source is the part of the YouTube API the fetcher reads from.
type Source interface {
	GetChannelSummary(ctx context.Context, channelID string) (*models.ChannelSummary, error)
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int) (*models.PlaylistItemsResponse, error)
	ListVideos(ctx context.Context, videoIDs []string) ([]models.VideoItem, error)
}

// Options configures a Fetcher
type Options struct {
	MaxVideos int
	PageSize  int
	// Out receives human-readable progress. Nil discards it.
	Out io.Writer
	// Now is the clock used for DateFetched. Nil uses time.Now.
	Now func() time.Time
}

// Fetcher runs the resolve, stats and pagination steps for one channel
type Fetcher struct {
	resolver  Resolver
	source    Source
	maxVideos int
	pageSize  int
	out       io.Writer
	now       func() time.Time
}

// Result is the outcome of a run
type Result struct {
	Channel     *models.ChannelSummary
	DateFetched string
	Records     []models.VideoRecord
}

// Summary aggregates the result's records.
func (r *Result) Summary() models.RunSummary {
	return models.Summarize(r.Channel, r.DateFetched, r.Records)
}

// New creates a Fetcher
func New(resolver Resolver, source Source, opts Options) *Fetcher {
	f := &Fetcher{
		resolver:  resolver,
		source:    source,
		maxVideos: opts.MaxVideos,
		pageSize:  opts.PageSize,
		out:       opts.Out,
		now:       opts.Now,
	}
	if f.out == nil {
		f.out = io.Discard
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// ResolveChannel looks up the channel id for name.
func (f *Fetcher) ResolveChannel(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyChannelName
	}

	channelID, err := f.resolver.ResolveChannelID(ctx, name)
	if err != nil {
		return "", err
	}
	if channelID == "" {
		return "", fmt.Errorf("%w: no match for %q", api.ErrChannelNotFound, name)
	}
	return channelID, nil
}

// Run resolves name and fetches its channel summary and video records.
func (f *Fetcher) Run(ctx context.Context, name string) (*Result, error) {
	channelID, err := f.ResolveChannel(ctx, name)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f.out, "Channel ID: %s\n", channelID)

	return f.FetchChannel(ctx, channelID)
}

// ChannelSummary fetches the statistics of a known channel id.
func (f *Fetcher) ChannelSummary(ctx context.Context, channelID string) (*models.ChannelSummary, error) {
	return f.source.GetChannelSummary(ctx, channelID)
}

// FetchChannel fetches the summary and video records of a known channel id.
func (f *Fetcher) FetchChannel(ctx context.Context, channelID string) (*Result, error) {
	channel, err := f.source.GetChannelSummary(ctx, channelID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f.out, "The channel %s has %d subscribers, %d views and %d videos\n",
		channel.Title, channel.SubscriberCount, channel.ViewCount, channel.VideoCount)

	date := f.now().Format(DateLayout)
	records, err := f.FetchVideos(ctx, channel.UploadsPlaylistID, date)
	if err != nil {
		return nil, err
	}

	return &Result{
		Channel:     channel,
		DateFetched: date,
		Records:     records,
	}, nil
}

// FetchVideos pages through playlistID until MaxVideos records are collected
// or the playlist has no further pages. Records keep API order.
func (f *Fetcher) FetchVideos(ctx context.Context, playlistID, dateFetched string) ([]models.VideoRecord, error) {
	records := make([]models.VideoRecord, 0, f.maxVideos)
	cursor := ""

	for len(records) < f.maxVideos {
		if cursor != "" {
			log.Printf("Fetching next page of playlist %s", playlistID)
		}

		page, err := f.source.ListPlaylistItems(ctx, playlistID, cursor, f.pageSize)
		if err != nil {
			return nil, err
		}

		if ids := page.VideoIDs(); len(ids) > 0 {
			videos, err := f.source.ListVideos(ctx, ids)
			if err != nil {
				return nil, err
			}

			for _, video := range videos {
				if len(records) >= f.maxVideos {
					break
				}
				record := video.Record(dateFetched)
				records = append(records, record)
				f.printRecord(record)
			}
		}

		// A token equal to the one just used would repeat the same page forever.
		if len(records) < f.maxVideos && page.NextPageToken != "" && page.NextPageToken != cursor {
			cursor = page.NextPageToken
			fmt.Fprintf(f.out, "\n%s\nThere are more videos available. Next page token: %s...\n%s\n",
				separator, truncate(cursor, 20), separator)
			continue
		}
		break
	}

	fmt.Fprintf(f.out, "\n%s\nFetched %d videos. Stopping...\n%s\n", separator, len(records), separator)
	return records, nil
}

var separator = strings.Repeat("=", 80)

func (f *Fetcher) printRecord(r models.VideoRecord) {
	fmt.Fprintf(f.out, "\nTitle: %s\nViews: %s\nLikes: %s\nComments: %s\n",
		r.Title, r.Views, r.Likes, r.Comments)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
