package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/handiism/album-catalog/internal/cache"
	"github.com/handiism/album-catalog/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultAggregateTTL is how long a computed aggregate stays cached.
const DefaultAggregateTTL = 1440 * time.Minute

// AggregateOptions configures Aggregates. Every field is optional.
type AggregateOptions struct {
	TTL    time.Duration
	Logger *zap.Logger
}

// Aggregates computes values derived from an album's tracks and memoises
// them in a cache.
//
// Concurrent misses for the same key share one computation. Aggregates does
// not coordinate with the Reconciler beyond invalidation: a value computed
// while a sync is running may be cached after the sync invalidated it.
type Aggregates struct {
	store  TrackStore
	files  FileStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group
}

// NewAggregates creates an Aggregates reading tracks from store, file sizes
// from files and memoising into c.
func NewAggregates(store TrackStore, files FileStore, c cache.Cache, opts AggregateOptions) *Aggregates {
	a := &Aggregates{
		store:  store,
		files:  files,
		cache:  c,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
	if a.ttl == 0 {
		a.ttl = DefaultAggregateTTL
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	return a
}

// Filesize returns the total size in bytes of the album's downloadable
// tracks in format.
//
// An album without tracks is 0 and is not cached. Tracks whose file is
// missing are skipped. Any other storage error is returned and nothing is
// cached.
//
// Returns an error wrapping model.ErrInvalidFormat for an unknown format.
func (a *Aggregates) Filesize(ctx context.Context, album *model.Album, format string) (int64, error) {
	f, err := model.LookupFormat(format)
	if err != nil {
		return 0, err
	}

	tracks, err := a.store.AlbumTracks(ctx, album.ID)
	if err != nil {
		return 0, fmt.Errorf("load tracks of album %d: %w", album.ID, err)
	}
	if len(tracks) == 0 {
		return 0, nil
	}

	key := album.FilesizeCacheKey(f.Name)
	if size, ok := a.cached(ctx, key); ok {
		AggregateCacheTotal.WithLabelValues("filesize", "hit").Inc()
		return size, nil
	}
	AggregateCacheTotal.WithLabelValues("filesize", "miss").Inc()

	v, err, _ := a.group.Do(key, func() (any, error) {
		size, err := a.sumSizes(ctx, tracks, f)
		if err != nil {
			return int64(0), err
		}
		if err := a.cache.Set(ctx, key, strconv.FormatInt(size, 10), a.ttl); err != nil {
			a.logger.Warn("cache aggregate", zap.String("key", key), zap.Error(err))
		}
		return size, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Invalidate forgets every cached aggregate of album.
func (a *Aggregates) Invalidate(ctx context.Context, album *model.Album) error {
	return InvalidateAlbum(ctx, a.cache, album)
}

func (a *Aggregates) cached(ctx context.Context, key string) (int64, bool) {
	raw, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			a.logger.Warn("read aggregate", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}

	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		a.logger.Warn("discard corrupt aggregate", zap.String("key", key), zap.String("value", raw))
		return 0, false
	}
	return size, true
}

func (a *Aggregates) sumSizes(ctx context.Context, tracks []*model.Track, f model.Format) (int64, error) {
	var total int64
	for _, track := range tracks {
		if !track.IsDownloadable {
			continue
		}

		size, err := a.files.Size(ctx, track, f)
		if errors.Is(err, model.ErrTrackFileNotFound) {
			a.logger.Debug("skip missing track file",
				zap.Int64("track_id", track.ID),
				zap.String("format", f.Name),
			)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("size of track %d: %w", track.ID, err)
		}
		total += size
	}
	return total, nil
}

// IsDownloadable returns true if any of the tracks may be downloaded.
func IsDownloadable(tracks []*model.Track) bool {
	for _, t := range tracks {
		if t.IsDownloadable {
			return true
		}
	}
	return false
}
