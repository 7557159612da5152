package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/handiism/album-catalog/internal/app"
	"github.com/handiism/album-catalog/internal/catalog"
	"github.com/handiism/album-catalog/internal/config"
	"github.com/handiism/album-catalog/internal/model"
	"github.com/handiism/album-catalog/internal/tui"
	"go.uber.org/zap"
)

// editor joins the store reads and the reconciler writes the TUI needs.
type editor struct {
	*app.App
}

func (e editor) Album(ctx context.Context, id int64) (*model.Album, error) {
	return e.Store.Album(ctx, id)
}

func (e editor) Track(ctx context.Context, id int64) (*model.Track, error) {
	return e.Store.Track(ctx, id)
}

func (e editor) AlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error) {
	return e.Store.AlbumTracks(ctx, albumID)
}

func (e editor) SyncTrackIDs(ctx context.Context, album *model.Album, desired []string) (*catalog.SyncResult, error) {
	return e.Reconciler.SyncTrackIDs(ctx, album, desired)
}

func main() {
	var (
		configFlag = flag.String("config", "", "Path to config file")
		albumFlag  = flag.Int64("album", 0, "Album ID to open")
		formatFlag = flag.String("format", "FLAC", "Archive format for export")
	)
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so the app logs nowhere.
	a, err := app.New(context.Background(), settings, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	err = tui.Run(tui.Options{
		Catalog:      editor{a},
		Exporter:     a.NewExporter(nil),
		ExportFormat: *formatFlag,
		AlbumID:      *albumFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.Close()
		os.Exit(1)
	}
}
