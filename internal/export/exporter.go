package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/handiism/album-catalog/internal/audio"
	"github.com/handiism/album-catalog/internal/model"
	"github.com/handiism/album-catalog/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// TrackLister lists an album's tracks in order.
type TrackLister interface {
	AlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error)
}

// UserLookup resolves the album owner for the playlist.
type UserLookup interface {
	User(ctx context.Context, id int64) (*model.User, error)
}

// Settings configures an Exporter.
type Settings struct {
	// FilesDir is the root under which archives are written.
	FilesDir string

	// MaxConcurrentProbes bounds parallel size probes. Default 4.
	MaxConcurrentProbes int

	// OpenMaxRetries is how many times opening a track file is tried. Default 1.
	OpenMaxRetries int

	// RetryCooldown is the first backoff in seconds.
	RetryCooldown float64

	// RetryExponent multiplies the backoff on each retry.
	RetryExponent float64

	// Playlist selects the playlist added to each archive.
	Playlist audio.PlaylistFormat

	// M3UExtended adds EXTINF lines to M3U playlists.
	M3UExtended bool
}

// Result summarises one archive.
type Result struct {
	// Path is set by Export.
	Path string

	// Tracks is the number of track files in the archive.
	Tracks int

	// Skipped holds the IDs of downloadable tracks without a file.
	Skipped []int64

	// Bytes is the total size of the copied track files.
	Bytes int64
}

// Exporter writes album archives.
type Exporter struct {
	tracks   TrackLister
	files    storage.Store
	users    UserLookup
	settings Settings
	playlist *audio.PlaylistCreator

	totalBytes   int64
	writtenBytes int64
	totalFiles   int32
	writtenFiles int32

	onProgress func(ProgressEvent)
}

// NewExporter creates a new Exporter. users and onProgress may be nil.
func NewExporter(tracks TrackLister, files storage.Store, users UserLookup, settings Settings, onProgress func(ProgressEvent)) *Exporter {
	if settings.MaxConcurrentProbes < 1 {
		settings.MaxConcurrentProbes = 4
	}
	if settings.OpenMaxRetries < 1 {
		settings.OpenMaxRetries = 1
	}
	return &Exporter{
		tracks:     tracks,
		files:      files,
		users:      users,
		settings:   settings,
		playlist:   audio.NewPlaylistCreator(settings.Playlist, settings.M3UExtended),
		onProgress: onProgress,
	}
}

// Export writes the album archive for format under Settings.FilesDir and
// reports its path in Result.Path. The archive is written to a temporary
// file first, so a failed export never leaves a partial archive behind.
func (e *Exporter) Export(ctx context.Context, album *model.Album, format string) (*Result, error) {
	name, err := album.FilenameFor(format)
	if err != nil {
		return nil, err
	}

	dir := album.Directory(e.settings.FilesDir)
	if err := storage.EnsureDir(dir); err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	res, err := e.WriteArchive(ctx, tmp, album, format)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}

	res.Path = filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), res.Path); err != nil {
		return nil, err
	}

	e.progress(ProgressEvent{Message: fmt.Sprintf("Exported %s", res.Path), Level: LevelSuccess})
	return res, nil
}

// WriteArchive writes the album archive for format to w.
func (e *Exporter) WriteArchive(ctx context.Context, w io.Writer, album *model.Album, format string) (*Result, error) {
	f, err := model.LookupFormat(format)
	if err != nil {
		return nil, err
	}

	all, err := e.tracks.AlbumTracks(ctx, album.ID)
	if err != nil {
		return nil, fmt.Errorf("load tracks of album %d: %w", album.ID, err)
	}

	var tracks []*model.Track
	for _, t := range all {
		if t.IsDownloadable {
			tracks = append(tracks, t)
		}
	}

	sizes, err := e.probe(ctx, tracks, f)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var included []*model.Track
	for i, t := range tracks {
		if sizes[i] < 0 {
			res.Skipped = append(res.Skipped, t.ID)
			e.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: no %s file", t.Title, f.Name), Level: LevelWarning})
			continue
		}
		included = append(included, t)
	}

	zw := zip.NewWriter(w)
	for _, t := range included {
		n, err := e.addTrack(ctx, zw, t, f)
		if err != nil {
			e.progress(ProgressEvent{Message: fmt.Sprintf("Error adding %s: %v", t.Title, err), Level: LevelError})
			zw.Close()
			return nil, err
		}
		res.Tracks++
		res.Bytes += n
	}

	if err := e.addPlaylist(ctx, zw, album, included, f); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	e.progress(ProgressEvent{Message: fmt.Sprintf("Archived %s: %d tracks", album.Title, res.Tracks), Level: LevelInfo})
	return res, nil
}

// GetProgress returns current export progress.
func (e *Exporter) GetProgress() (written, total int64, filesWritten, filesTotal int32) {
	return atomic.LoadInt64(&e.writtenBytes), atomic.LoadInt64(&e.totalBytes),
		atomic.LoadInt32(&e.writtenFiles), atomic.LoadInt32(&e.totalFiles)
}

// probe returns each track's file size, -1 for a missing file.
func (e *Exporter) probe(ctx context.Context, tracks []*model.Track, f model.Format) ([]int64, error) {
	sizes := make([]int64, len(tracks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.settings.MaxConcurrentProbes)

	for i, t := range tracks {
		g.Go(func() error {
			size, err := e.files.Size(ctx, t, f)
			if errors.Is(err, model.ErrTrackFileNotFound) {
				sizes[i] = -1
				return nil
			}
			if err != nil {
				return fmt.Errorf("size of track %d: %w", t.ID, err)
			}
			sizes[i] = size
			atomic.AddInt64(&e.totalBytes, size)
			atomic.AddInt32(&e.totalFiles, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func (e *Exporter) addTrack(ctx context.Context, zw *zip.Writer, t *model.Track, f model.Format) (int64, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	for tries := 0; tries < e.settings.OpenMaxRetries; tries++ {
		rc, err = e.files.Open(ctx, t, f)
		if err == nil || errors.Is(err, model.ErrTrackFileNotFound) {
			break
		}
		e.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, e.settings.OpenMaxRetries, t.Title), Level: LevelWarning})
		e.waitForRetry(ctx, tries)
	}
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     t.EntryName(f),
		Method:   zip.Store,
		Modified: time.Now(),
	})
	if err != nil {
		return 0, err
	}

	var last int64
	pw := &storage.ProgressWriter{
		Writer: entry,
		OnUpdate: func(written, _ int64) {
			atomic.AddInt64(&e.writtenBytes, written-last)
			last = written
		},
	}

	n, err := io.Copy(pw, rc)
	if err != nil {
		return n, err
	}

	atomic.AddInt32(&e.writtenFiles, 1)
	e.progress(ProgressEvent{Message: fmt.Sprintf("Added: %s", t.EntryName(f)), Level: LevelVerbose})
	return n, nil
}

func (e *Exporter) addPlaylist(ctx context.Context, zw *zip.Writer, album *model.Album, tracks []*model.Track, f model.Format) error {
	if len(tracks) == 0 {
		return nil
	}

	artist := ""
	if e.users != nil {
		if u, err := e.users.User(ctx, album.UserID); err == nil {
			artist = u.DisplayName
		}
	}

	content := e.playlist.CreatePlaylist(&audio.Listing{
		Album:  album,
		Artist: artist,
		Tracks: tracks,
		Format: f,
	})

	name := album.Slug
	if name == "" {
		name = "playlist"
	}
	entry, err := zw.Create(name + "." + e.playlist.Format().Extension())
	if err != nil {
		return err
	}
	_, err = io.WriteString(entry, content)
	return err
}

func (e *Exporter) waitForRetry(ctx context.Context, tries int) {
	cooldown := e.settings.RetryCooldown * math.Pow(e.settings.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (e *Exporter) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
