package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseStat(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want Stat
	}{
		{"present", strPtr("1000"), Count(1000)},
		{"zero is a count", strPtr("0"), Count(0)},
		{"missing", nil, Stat{}},
		{"garbage", strPtr("lots"), Stat{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStat(tt.raw))
		})
	}
}

func TestStatJSON(t *testing.T) {
	data, err := json.Marshal([]Stat{Count(42), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[42, "N/A"]`, string(data))

	var got []Stat
	require.NoError(t, json.Unmarshal([]byte(`[42, "N/A", "7", null]`), &got))
	assert.Equal(t, []Stat{Count(42), {}, Count(7), {}}, got)

	var bad Stat
	assert.Error(t, json.Unmarshal([]byte(`"many"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &bad))
}

func TestVideoItemRecordMissingStatistics(t *testing.T) {
	var resp VideoListResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"items": [
			{"id": "v1", "snippet": {"title": "Full"}, "statistics": {"viewCount": "10", "likeCount": "2", "commentCount": "1"}},
			{"id": "v2", "snippet": {"title": "Hidden likes"}, "statistics": {"viewCount": "5", "commentCount": "0"}},
			{"id": "v3", "snippet": {"title": "No stats"}}
		]
	}`), &resp))
	require.Len(t, resp.Items, 3)

	full := resp.Items[0].Record("2024-01-02")
	assert.Equal(t, VideoRecord{
		DateFetched: "2024-01-02",
		Title:       "Full",
		VideoID:     "v1",
		Views:       Count(10),
		Likes:       Count(2),
		Comments:    Count(1),
	}, full)

	hidden := resp.Items[1].Record("2024-01-02")
	assert.Equal(t, Count(5), hidden.Views)
	assert.False(t, hidden.Likes.Valid)
	assert.Equal(t, Count(0), hidden.Comments)
	assert.Equal(t, []string{"2024-01-02", "Hidden likes", "v2", "5", "N/A", "0"}, hidden.CSVRow())

	none := resp.Items[2].Record("2024-01-02")
	assert.Equal(t, []string{"N/A", "N/A", "N/A"}, none.CSVRow()[3:])

	data, err := json.Marshal(none)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date_fetched":"2024-01-02","title":"No stats","video_id":"v3","views":"N/A","likes":"N/A","comments":"N/A"}`, string(data))
}

func TestPlaylistVideoIDs(t *testing.T) {
	var page PlaylistItemsResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"items": [
			{"contentDetails": {"videoId": "a"}, "snippet": {"resourceId": {"videoId": "ignored"}}},
			{"snippet": {"resourceId": {"videoId": "b"}}},
			{"snippet": {"title": "deleted video"}}
		],
		"nextPageToken": "NEXT"
	}`), &page))

	assert.Equal(t, []string{"a", "b"}, page.VideoIDs())
	assert.Equal(t, "NEXT", page.NextPageToken)
}

func TestChannelItemSummary(t *testing.T) {
	var resp ChannelResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"items": [{
			"id": "UC123",
			"snippet": {"title": "Test Channel"},
			"contentDetails": {"relatedPlaylists": {"uploads": "UU123"}},
			"statistics": {"subscriberCount": "100", "viewCount": "5000", "videoCount": "3"}
		}]
	}`), &resp))

	assert.Equal(t, &ChannelSummary{
		ChannelID:         "UC123",
		Title:             "Test Channel",
		SubscriberCount:   100,
		ViewCount:         5000,
		VideoCount:        3,
		UploadsPlaylistID: "UU123",
	}, resp.Items[0].Summary())
}

func TestChannelItemSummaryHiddenSubscribers(t *testing.T) {
	var item ChannelItem
	require.NoError(t, json.Unmarshal([]byte(`{"id": "UC1", "statistics": {"viewCount": "9", "hiddenSubscriberCount": true}}`), &item))

	s := item.Summary()
	assert.Equal(t, int64(0), s.SubscriberCount)
	assert.Equal(t, int64(9), s.ViewCount)
}

func TestSummarize(t *testing.T) {
	channel := &ChannelSummary{ChannelID: "UC123", Title: "Test Channel"}
	records := []VideoRecord{
		{VideoID: "a", Views: Count(10), Likes: Count(3), Comments: Count(1)},
		{VideoID: "b", Views: Count(5), Likes: Stat{}, Comments: Stat{}},
	}

	s := Summarize(channel, "2024-01-02", records)

	assert.Equal(t, RunSummary{
		ChannelID:     "UC123",
		ChannelTitle:  "Test Channel",
		DateFetched:   "2024-01-02",
		Fetched:       2,
		TotalViews:    15,
		TotalLikes:    3,
		TotalComments: 1,
		Unavailable:   2,
	}, s)
}
