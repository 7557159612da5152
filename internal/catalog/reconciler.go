package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/handiism/album-catalog/internal/cache"
	"github.com/handiism/album-catalog/internal/model"
	"go.uber.org/zap"
)

// Options configures a Reconciler. Every field is optional.
type Options struct {
	// Retagger is called for each track whose album or position is written.
	Retagger Retagger

	// Cache holds the album aggregates to invalidate after a change.
	Cache cache.Cache

	// Logger receives one line per phase of each sync.
	Logger *zap.Logger
}

// SyncResult describes what a SyncTrackIDs call changed.
type SyncResult struct {
	// Changed is false when the desired list matched the current one and
	// nothing was written.
	Changed bool

	// Attached holds the IDs of tracks that were not in the album before.
	Attached []int64

	// Detached holds the IDs of tracks removed from the album.
	Detached []int64

	// Donors holds the IDs of albums that lost a track and were renumbered.
	Donors []int64

	// Writes is the number of track rows saved.
	Writes int
}

// Reconciler brings an album's track list in line with a desired order.
//
// A Reconciler is safe for concurrent use, but calls for the same album must
// be serialised by the caller.
//
// Example:
//
//	r := NewReconciler(store, Options{Cache: c})
//	res, err := r.SyncTrackIDs(ctx, album, []string{"3", "1"})
//	// tracks 3 and 1 are now numbered 1 and 2, track 2 is detached
type Reconciler struct {
	store    TrackStore
	retagger Retagger
	cache    cache.Cache
	logger   *zap.Logger
}

// NewReconciler creates a Reconciler over store.
func NewReconciler(store TrackStore, opts Options) *Reconciler {
	r := &Reconciler{
		store:    store,
		retagger: opts.Retagger,
		cache:    opts.Cache,
		logger:   opts.Logger,
	}
	if r.retagger == nil {
		r.retagger = nopRetagger{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// SyncTrackIDs makes album contain exactly the tracks in desired, in order.
//
// Blank entries in desired are ignored. If the remaining IDs equal the
// album's current track IDs in the same order, nothing is written and the
// result has Changed set to false.
//
// Errors:
//   - model.ErrTrackNotFound if an ID does not parse or does not exist
//   - model.ErrDuplicateTrack if an ID is listed twice; nothing is written
//   - any store error, wrapped
//
// A missing track aborts the sync. Without a TxStore the writes made before
// the failure stay in place.
func (r *Reconciler) SyncTrackIDs(ctx context.Context, album *model.Album, desired []string) (*SyncResult, error) {
	log := r.logger.With(
		zap.String("op", uuid.NewString()),
		zap.Int64("album_id", album.ID),
	)

	current, err := r.store.AlbumTracks(ctx, album.ID)
	if err != nil {
		SyncRunsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("load tracks of album %d: %w", album.ID, err)
	}

	ids, err := cleanTrackIDs(desired)
	if err != nil {
		SyncRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	res := &SyncResult{}
	if sameOrder(current, ids) {
		log.Debug("track list unchanged", zap.Int("tracks", len(ids)))
		SyncRunsTotal.WithLabelValues("noop").Inc()
		return res, nil
	}
	res.Changed = true

	apply := func(s TrackStore) error {
		return r.apply(ctx, s, log, album, current, ids, res)
	}
	if tx, ok := r.store.(TxStore); ok {
		err = tx.WithinTx(ctx, apply)
	} else {
		err = apply(r.store)
	}
	if err != nil {
		SyncRunsTotal.WithLabelValues("failed").Inc()
		log.Error("sync failed", zap.Int("writes", res.Writes), zap.Error(err))
		return res, err
	}

	SyncRunsTotal.WithLabelValues("changed").Inc()
	log.Info("track list synced",
		zap.Int("tracks", len(ids)),
		zap.Int64s("attached", res.Attached),
		zap.Int64s("detached", res.Detached),
		zap.Int64s("donors", res.Donors),
		zap.Int("writes", res.Writes),
	)

	if err := InvalidateAlbum(ctx, r.cache, album); err != nil {
		log.Warn("cache invalidation failed", zap.Error(err))
		return res, err
	}
	return res, nil
}

func (r *Reconciler) apply(ctx context.Context, s TrackStore, log *zap.Logger, album *model.Album, current []*model.Track, ids []int64, res *SyncResult) error {
	listed := make(map[int64]bool, len(ids))
	donors := make(map[int64]bool)

	for i, id := range ids {
		listed[id] = true

		track, err := s.Track(ctx, id)
		if err != nil {
			return fmt.Errorf("track %d: %w", id, err)
		}

		if track.InAlbum() && !track.BelongsTo(album.ID) {
			donor := *track.AlbumID
			if !donors[donor] {
				donors[donor] = true
				res.Donors = append(res.Donors, donor)
			}
		}
		if !track.BelongsTo(album.ID) {
			res.Attached = append(res.Attached, id)
		}

		track.Attach(album.ID, i+1)
		if err := r.save(ctx, s, log, track, album, "attach"); err != nil {
			return err
		}
		res.Writes++
	}

	for _, track := range current {
		if listed[track.ID] {
			continue
		}
		track.Detach()
		if err := r.save(ctx, s, log, track, nil, "detach"); err != nil {
			return err
		}
		res.Writes++
		res.Detached = append(res.Detached, track.ID)
	}

	for _, donor := range res.Donors {
		n, err := r.renumber(ctx, s, log, donor)
		res.Writes += n
		if err != nil {
			return err
		}
	}
	return nil
}

// RenumberTracks rewrites the track numbers of an album as 1..M, keeping the
// tracks' existing relative order. It returns the number of tracks written.
func (r *Reconciler) RenumberTracks(ctx context.Context, albumID int64) (int, error) {
	log := r.logger.With(
		zap.String("op", uuid.NewString()),
		zap.Int64("album_id", albumID),
	)

	var n int
	renumber := func(s TrackStore) error {
		var err error
		n, err = r.renumber(ctx, s, log, albumID)
		return err
	}

	var err error
	if tx, ok := r.store.(TxStore); ok {
		err = tx.WithinTx(ctx, renumber)
	} else {
		err = renumber(r.store)
	}
	if err != nil {
		return n, err
	}

	log.Info("album renumbered", zap.Int("tracks", n))
	return n, nil
}

func (r *Reconciler) renumber(ctx context.Context, s TrackStore, log *zap.Logger, albumID int64) (int, error) {
	album, err := s.Album(ctx, albumID)
	if err != nil {
		return 0, fmt.Errorf("album %d: %w", albumID, err)
	}

	tracks, err := s.AlbumTracks(ctx, albumID)
	if err != nil {
		return 0, fmt.Errorf("load tracks of album %d: %w", albumID, err)
	}

	for i, track := range tracks {
		track.Attach(albumID, i+1)
		if err := r.save(ctx, s, log, track, album, "renumber"); err != nil {
			return i, err
		}
	}
	return len(tracks), nil
}

// save re-derives the track's metadata and persists it. A failed retag is
// logged and does not stop the sync.
func (r *Reconciler) save(ctx context.Context, s TrackStore, log *zap.Logger, track *model.Track, album *model.Album, reason string) error {
	if err := r.retagger.Retag(ctx, track, album); err != nil {
		RetagFailuresTotal.Inc()
		log.Warn("retag failed", zap.Int64("track_id", track.ID), zap.Error(err))
	}

	if err := s.SaveTrack(ctx, track); err != nil {
		return fmt.Errorf("save track %d: %w", track.ID, err)
	}
	TrackWritesTotal.WithLabelValues(reason).Inc()
	return nil
}

// cleanTrackIDs drops blank entries and parses the rest.
func cleanTrackIDs(desired []string) ([]int64, error) {
	ids := make([]int64, 0, len(desired))
	seen := make(map[int64]bool, len(desired))

	for _, raw := range desired {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}

		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("track %q: %w", s, model.ErrTrackNotFound)
		}
		if seen[id] {
			return nil, fmt.Errorf("track %d: %w", id, model.ErrDuplicateTrack)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func sameOrder(current []*model.Track, ids []int64) bool {
	if len(current) != len(ids) {
		return false
	}
	for i, t := range current {
		if t.ID != ids[i] {
			return false
		}
	}
	return true
}

// InvalidateAlbum forgets every cached aggregate of album. A nil cache is a
// no-op.
func InvalidateAlbum(ctx context.Context, c cache.Cache, album *model.Album) error {
	if c == nil {
		return nil
	}

	var errs []error
	for _, f := range model.Formats {
		if err := c.Forget(ctx, album.FilesizeCacheKey(f.Name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
