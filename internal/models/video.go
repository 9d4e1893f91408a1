package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Unavailable is the marker written in place of a statistic the API did not return.
const Unavailable = "N/A"

// Stat is a per-video counter that is either a known count or unavailable.
// The zero value is unavailable.
type Stat struct {
	Value int64
	Valid bool
}

// Count returns an available Stat holding n.
func Count(n int64) Stat {
	return Stat{Value: n, Valid: true}
}

// ParseStat converts an API statistics field into a Stat.
// A nil field, or one that is not an integer, is unavailable.
func ParseStat(raw *string) Stat {
	if raw == nil {
		return Stat{}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
	if err != nil {
		return Stat{}
	}
	return Count(n)
}

// String returns the decimal count or the unavailable marker.
func (s Stat) String() string {
	if !s.Valid {
		return Unavailable
	}
	return strconv.FormatInt(s.Value, 10)
}

// MarshalJSON writes the count as a JSON number, or "N/A" when unavailable.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(Unavailable)
	}
	return []byte(strconv.FormatInt(s.Value, 10)), nil
}

// UnmarshalJSON accepts a number, a numeric string, "N/A" or null.
func (s *Stat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Stat{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == Unavailable {
			*s = Stat{}
			return nil
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid statistic %q: %w", str, err)
		}
		*s = Count(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid statistic %s: %w", data, err)
	}
	*s = Count(n)
	return nil
}

// VideoRecord is one exported row: a video and its statistics at fetch time.
type VideoRecord struct {
	DateFetched string `json:"date_fetched"`
	Title       string `json:"title"`
	VideoID     string `json:"video_id"`
	Views       Stat   `json:"views"`
	Likes       Stat   `json:"likes"`
	Comments    Stat   `json:"comments"`
}

// CSVHeader is the fixed column order of the CSV export.
var CSVHeader = []string{"date_fetched", "title", "video_id", "views", "likes", "comments"}

// CSVRow returns the record's fields in CSVHeader order.
func (r VideoRecord) CSVRow() []string {
	return []string{
		r.DateFetched,
		r.Title,
		r.VideoID,
		r.Views.String(),
		r.Likes.String(),
		r.Comments.String(),
	}
}

// PlaylistItemsResponse represents a page of the playlistItems endpoint
type PlaylistItemsResponse struct {
	Items         []PlaylistItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

// PlaylistItem is a single entry of PlaylistItemsResponse
type PlaylistItem struct {
	Snippet struct {
		Title      string `json:"title"`
		ResourceID struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

// VideoIDs returns the item-level video identifiers of the page, in page order.
func (p *PlaylistItemsResponse) VideoIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		id := item.ContentDetails.VideoID
		if id == "" {
			id = item.Snippet.ResourceID.VideoID
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// VideoListResponse represents the response from YouTube API for video list.
// Statistics are pointers so that an absent counter can be told apart from zero.
type VideoListResponse struct {
	Items []VideoItem `json:"items"`
}

// VideoItem is a single entry of VideoListResponse
type VideoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    *string `json:"viewCount"`
		LikeCount    *string `json:"likeCount"`
		CommentCount *string `json:"commentCount"`
	} `json:"statistics"`
}

// Record builds the exported record for the video.
func (v VideoItem) Record(dateFetched string) VideoRecord {
	return VideoRecord{
		DateFetched: dateFetched,
		Title:       v.Snippet.Title,
		VideoID:     v.ID,
		Views:       ParseStat(v.Statistics.ViewCount),
		Likes:       ParseStat(v.Statistics.LikeCount),
		Comments:    ParseStat(v.Statistics.CommentCount),
	}
}
