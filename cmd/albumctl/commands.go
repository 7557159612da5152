package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/album-catalog/internal/app"
	"github.com/handiism/album-catalog/internal/audio"
	"github.com/handiism/album-catalog/internal/export"
	"github.com/handiism/album-catalog/internal/model"
	"github.com/handiism/album-catalog/internal/present"
)

func runSync(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: sync <album-id> <track-id>...")
	}
	album, err := loadAlbum(ctx, a, args[0])
	if err != nil {
		return err
	}

	// accept "3 1 2" as well as "3,1,2"
	var desired []string
	for _, arg := range args[1:] {
		desired = append(desired, strings.Split(arg, ",")...)
	}

	res, err := a.Reconciler.SyncTrackIDs(ctx, album, desired)
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Println("ℹ️  Track list unchanged")
		return nil
	}
	fmt.Printf("✅ Album %d synced: %d attached, %d detached, %d donors renumbered, %d writes\n",
		album.ID, len(res.Attached), len(res.Detached), len(res.Donors), res.Writes)
	return nil
}

func runRenumber(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: renumber <album-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	n, err := a.Reconciler.RenumberTracks(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Album %d renumbered: %d tracks\n", id, n)
	return nil
}

func runFilesize(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: filesize <album-id> [format]")
	}
	album, err := loadAlbum(ctx, a, args[0])
	if err != nil {
		return err
	}

	formats := model.Formats
	if len(args) == 2 {
		f, err := model.LookupFormat(args[1])
		if err != nil {
			return err
		}
		formats = []model.Format{f}
	}

	for _, f := range formats {
		size, err := a.Aggregates.Filesize(ctx, album, f.Name)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %12d  %s\n", f.Name, size, present.FormatBytes(size))
	}
	return nil
}

func runShow(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	viewerFlag := fs.Int64("viewer", 0, "User ID to present the album to (0 for anonymous)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: show [-viewer id] <album-id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	viewer := model.Viewer{UserID: *viewerFlag}
	d, err := a.AlbumData(ctx, id, viewer)
	if err != nil {
		return err
	}
	show, err := a.Presenter.Show(ctx, d, viewer)
	if err != nil {
		return err
	}
	return printJSON(show)
}

func runPlaylist(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ContinueOnError)
	formatFlag := fs.String("format", a.Settings.Export.PlaylistFormat, "Playlist format (m3u, pls, wpl, zpl)")
	audioFlag := fs.String("audio", "MP3", "Audio format the entries point at")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: playlist [-format m3u] [-audio MP3] <album-id>")
	}

	f, err := model.LookupFormat(*audioFlag)
	if err != nil {
		return err
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	d, err := a.AlbumData(ctx, id, model.Anonymous)
	if err != nil {
		return err
	}

	artist := ""
	if d.Owner != nil {
		artist = d.Owner.DisplayName
	}
	creator := audio.NewPlaylistCreator(audio.ParsePlaylistFormat(*formatFlag), a.Settings.Export.M3UExtended)
	fmt.Print(creator.CreatePlaylist(&audio.Listing{
		Album:  d.Album,
		Artist: artist,
		Tracks: d.Tracks,
		Format: f,
	}))
	return nil
}

func runExport(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: export <album-id> <format>")
	}
	album, err := loadAlbum(ctx, a, args[0])
	if err != nil {
		return err
	}

	exp := a.NewExporter(printEvent)
	res, err := exp.Export(ctx, album, args[1])
	if err != nil {
		return err
	}

	written, _, filesWritten, filesTotal := exp.GetProgress()
	fmt.Printf("✨ Complete! Archived %d/%d files (%s)\n", filesWritten, filesTotal, present.FormatBytes(written))
	if len(res.Skipped) > 0 {
		fmt.Printf("   %d tracks without a %s file were skipped\n", len(res.Skipped), args[1])
	}
	return nil
}

func runRetag(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: retag <album-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	n, err := a.Reconciler.RetagAlbum(ctx, id, a.Settings.Export.RetagConcurrency)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Album %d retagged: %d tracks\n", id, n)
	return nil
}

func runAnnouncements(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 0 {
		return errors.New("usage: announcements")
	}
	list, err := a.Store.ActiveAnnouncements(ctx, time.Now())
	if err != nil {
		return err
	}
	return printJSON(present.Announcements(list))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func loadAlbum(ctx context.Context, a *app.App, s string) (*model.Album, error) {
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return a.Store.Album(ctx, id)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEvent(event export.ProgressEvent) {
	if event.Level == export.LevelVerbose && !verbose {
		return
	}

	prefix := ""
	switch event.Level {
	case export.LevelError:
		prefix = "❌ "
	case export.LevelWarning:
		prefix = "⚠️  "
	case export.LevelSuccess:
		prefix = "✅ "
	case export.LevelInfo:
		prefix = "ℹ️  "
	default:
		prefix = "   "
	}

	fmt.Println(prefix + event.Message)
}
