package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RetagAlbum re-derives the metadata of every track in an album without
// changing any positions. Up to concurrency tracks are processed at once.
//
// Unlike SyncTrackIDs, a retag failure is returned. Tracks already
// processed stay retagged. It returns the number of tracks retagged.
func (r *Reconciler) RetagAlbum(ctx context.Context, albumID int64, concurrency int) (int, error) {
	album, err := r.store.Album(ctx, albumID)
	if err != nil {
		return 0, fmt.Errorf("album %d: %w", albumID, err)
	}

	tracks, err := r.store.AlbumTracks(ctx, albumID)
	if err != nil {
		return 0, fmt.Errorf("load tracks of album %d: %w", albumID, err)
	}

	if concurrency < 1 {
		concurrency = 1
	}

	var done int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, track := range tracks {
		g.Go(func() error {
			if err := r.retagger.Retag(ctx, track, album); err != nil {
				RetagFailuresTotal.Inc()
				return fmt.Errorf("retag track %d: %w", track.ID, err)
			}
			atomic.AddInt32(&done, 1)
			return nil
		})
	}

	err = g.Wait()
	r.logger.Info("album retagged",
		zap.Int64("album_id", albumID),
		zap.Int32("tracks", atomic.LoadInt32(&done)),
		zap.Error(err),
	)
	return int(done), err
}
