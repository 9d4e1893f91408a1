package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yt-insights/ytexport/internal/config"
	"github.com/yt-insights/ytexport/internal/export"
	"github.com/yt-insights/ytexport/internal/fetcher"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// fakeYouTube serves a channel with three uploads split over two pages.
func fakeYouTube(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Test Channel" {
			writeJSON(w, map[string]interface{}{"items": []interface{}{}})
			return
		}
		writeJSON(w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id":      map[string]interface{}{"kind": "youtube#channel", "channelId": "UC123"},
				"snippet": map[string]interface{}{"channelId": "UC123", "title": "Test Channel"},
			}},
		})
	})
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id":      "UC123",
				"snippet": map[string]interface{}{"title": "Test Channel"},
				"contentDetails": map[string]interface{}{
					"relatedPlaylists": map[string]interface{}{"uploads": "UU123"},
				},
				"statistics": map[string]interface{}{
					"subscriberCount": "100",
					"viewCount":       "5000",
					"videoCount":      "3",
				},
			}},
		})
	})
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		item := func(id string) map[string]interface{} {
			return map[string]interface{}{"contentDetails": map[string]interface{}{"videoId": id}}
		}
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, map[string]interface{}{
				"items":         []interface{}{item("v1"), item("v2")},
				"nextPageToken": "PAGE2",
			})
			return
		}
		writeJSON(w, map[string]interface{}{"items": []interface{}{item("v3")}})
	})
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		var items []interface{}
		for _, id := range strings.Split(r.URL.Query().Get("id"), ",") {
			stats := map[string]interface{}{"viewCount": "10", "likeCount": "2", "commentCount": "1"}
			if id == "v3" {
				stats = map[string]interface{}{"viewCount": "7"}
			}
			items = append(items, map[string]interface{}{
				"id":         id,
				"snippet":    map[string]interface{}{"title": "Video " + id},
				"statistics": stats,
			})
		}
		writeJSON(w, map[string]interface{}{"items": items})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	return &config.Config{
		YouTubeAPIKey: "test-key",
		MaxVideos:     20,
		PageSize:      2,
		OutputDir:     t.TempDir(),
		APIBaseURL:    baseURL,
	}
}

func TestRunWritesExports(t *testing.T) {
	server := fakeYouTube(t)
	cfg := testConfig(t, server.URL)
	var out bytes.Buffer

	err := run(context.Background(), cfg, strings.NewReader("Test Channel\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Enter channel name: ")
	assert.Contains(t, out.String(), "Channel ID: UC123")
	assert.Contains(t, out.String(), "Next page token: PAGE2")
	assert.Contains(t, out.String(), "Saved video details to:")

	jsonFiles, err := filepath.Glob(filepath.Join(cfg.OutputDir, "videos_*.json"))
	require.NoError(t, err)
	require.Len(t, jsonFiles, 1)

	f, err := os.Open(jsonFiles[0])
	require.NoError(t, err)
	defer f.Close()
	records, err := export.ReadJSON(f)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "v3", records[2].VideoID)
	assert.False(t, records[2].Likes.Valid)

	csvFiles, err := filepath.Glob(filepath.Join(cfg.OutputDir, "videos_*.csv"))
	require.NoError(t, err)
	require.Len(t, csvFiles, 1)
	data, err := os.ReadFile(csvFiles[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[3], ",Video v3,v3,7,N/A,N/A"))
}

func TestRunUnknownChannel(t *testing.T) {
	server := fakeYouTube(t)
	cfg := testConfig(t, server.URL)

	err := run(context.Background(), cfg, strings.NewReader("Nobody\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel not found")

	files, _ := filepath.Glob(filepath.Join(cfg.OutputDir, "videos_*"))
	assert.Empty(t, files)
}

func TestPromptChannelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"line", "Test Channel\n", "Test Channel", nil},
		{"no trailing newline", "Test Channel", "Test Channel", nil},
		{"surrounding space", "  Test Channel \r\n", "Test Channel", nil},
		{"blank", "   \n", "", fetcher.ErrEmptyChannelName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptChannelName(strings.NewReader(tt.input), &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Enter channel name: ", out.String())
		})
	}
}

func TestPromptChannelNameEOF(t *testing.T) {
	_, err := promptChannelName(strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read channel name")
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestRootCmdVersion(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetArgs([]string{"--version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ytexport version dev\n", out.String())
}
