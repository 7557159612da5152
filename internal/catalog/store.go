package catalog

import (
	"context"

	"github.com/handiism/album-catalog/internal/model"
)

// TrackStore is the persistence the reconciler reads and writes through.
type TrackStore interface {
	// Album returns the album with the given ID or model.ErrAlbumNotFound.
	Album(ctx context.Context, id int64) (*model.Album, error)

	// Track returns the track with the given ID or model.ErrTrackNotFound.
	Track(ctx context.Context, id int64) (*model.Track, error)

	// AlbumTracks returns the album's tracks ordered by track number, then ID.
	AlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error)

	// SaveTrack persists the track's album and position columns.
	SaveTrack(ctx context.Context, track *model.Track) error
}

// TxStore is a TrackStore that can run a group of writes atomically.
type TxStore interface {
	TrackStore

	// WithinTx calls fn with a store bound to a transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(TrackStore) error) error
}

// Retagger rewrites whatever metadata is derived from a track's album and
// position, such as embedded file tags. album is nil for detached tracks.
type Retagger interface {
	Retag(ctx context.Context, track *model.Track, album *model.Album) error
}

// FileStore reports the size of a track's file in a given format.
//
// Size returns an error wrapping model.ErrTrackFileNotFound when the file
// does not exist.
type FileStore interface {
	Size(ctx context.Context, track *model.Track, format model.Format) (int64, error)
}

type nopRetagger struct{}

func (nopRetagger) Retag(context.Context, *model.Track, *model.Album) error { return nil }
