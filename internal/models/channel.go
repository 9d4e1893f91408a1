package models

import "strconv"

// ChannelSummary holds the aggregate statistics of a channel and its uploads playlist
type ChannelSummary struct {
	ChannelID         string `json:"channel_id"`
	Title             string `json:"title"`
	SubscriberCount   int64  `json:"subscriber_count"`
	ViewCount         int64  `json:"view_count"`
	VideoCount        int64  `json:"video_count"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}

// ChannelResponse represents the response from YouTube API
type ChannelResponse struct {
	Items []ChannelItem `json:"items"`
}

// ChannelItem is a single entry of ChannelResponse
type ChannelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		ViewCount       string `json:"viewCount"`
		VideoCount      string `json:"videoCount"`
	} `json:"statistics"`
}

// Summary converts the item. Missing or hidden counters become 0.
func (c ChannelItem) Summary() *ChannelSummary {
	subscribers, _ := strconv.ParseInt(c.Statistics.SubscriberCount, 10, 64)
	views, _ := strconv.ParseInt(c.Statistics.ViewCount, 10, 64)
	videos, _ := strconv.ParseInt(c.Statistics.VideoCount, 10, 64)

	return &ChannelSummary{
		ChannelID:         c.ID,
		Title:             c.Snippet.Title,
		SubscriberCount:   subscribers,
		ViewCount:         views,
		VideoCount:        videos,
		UploadsPlaylistID: c.ContentDetails.RelatedPlaylists.Uploads,
	}
}
