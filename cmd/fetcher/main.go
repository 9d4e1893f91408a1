// Package main provides the interactive channel export command.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yt-insights/ytexport/internal/api"
	"github.com/yt-insights/ytexport/internal/config"
	"github.com/yt-insights/ytexport/internal/export"
	"github.com/yt-insights/ytexport/internal/fetcher"
	"github.com/yt-insights/ytexport/internal/models"
)

var version = "dev"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command. It takes no arguments; the channel
// name is read from an interactive prompt.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ytexport",
		Short:        "Export a channel's latest video statistics to JSON and CSV",
		Long:         "Prompts for a channel name, fetches its statistics and recent uploads from the YouTube Data API, and writes videos_<date>.json and videos_<date>.csv.",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.SetVersionTemplate("ytexport version {{.Version}}\n")

	return cmd
}

// run prompts for a channel name, fetches it and writes both export files.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	name, err := promptChannelName(in, out)
	if err != nil {
		return err
	}

	search, err := api.NewChannelSearch(ctx, cfg.YouTubeAPIKey, api.EndpointOptions(cfg.APIBaseURL)...)
	if err != nil {
		return err
	}
	client := api.NewYouTubeClient(cfg.YouTubeAPIKey, api.WithBaseURL(cfg.APIBaseURL))

	f := fetcher.New(search, client, fetcher.Options{
		MaxVideos: cfg.MaxVideos,
		PageSize:  cfg.PageSize,
		Out:       out,
	})

	result, err := f.Run(ctx, name)
	if err != nil {
		return err
	}

	paths, err := export.ExportFiles(cfg.OutputDir, result.DateFetched, result.Records)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSaved video details to: %s\n", paths.JSON)
	fmt.Fprintf(out, "Saved video details to: %s\n", paths.CSV)

	if cfg.DBPath != "" {
		storeRun(cfg.DBPath, result.Summary(), result.Records)
	}
	return nil
}

// storeRun records the run in the history database. Failures do not fail the export.
func storeRun(dbPath string, summary models.RunSummary, records []models.VideoRecord) {
	db, err := models.NewDatabase(dbPath)
	if err != nil {
		log.Printf("Warning: run history unavailable: %v", err)
		return
	}
	defer db.Close()

	if err := db.StoreRun(summary, records); err != nil {
		log.Printf("Warning: failed to store run: %v", err)
	}
}

func promptChannelName(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter channel name: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read channel name: %w", err)
	}

	name := strings.TrimSpace(line)
	if name == "" {
		return "", fetcher.ErrEmptyChannelName
	}
	return name, nil
}
