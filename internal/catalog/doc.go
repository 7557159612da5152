// Package catalog keeps album track lists consistent.
//
// # Reconciler
//
// The Reconciler applies a desired, ordered list of track IDs to an album:
//
//  1. Load the album's current tracks in order
//  2. Drop blank entries from the desired list
//  3. Return without writing if nothing changed
//  4. Attach each desired track at its 1-based position
//  5. Detach tracks that are no longer listed
//  6. Renumber every album a track was taken from
//  7. Forget the album's cached aggregates
//
// Usage:
//
//	r := catalog.NewReconciler(store, catalog.Options{
//	    Retagger: audio.NewRetagger(files, audio.DefaultTagConfig()),
//	    Cache:    cache.NewMemoryCache(nil),
//	    Logger:   logger,
//	})
//
//	res, err := r.SyncTrackIDs(ctx, album, []string{"12", "", "7"})
//	if errors.Is(err, model.ErrTrackNotFound) {
//	    // one of the IDs does not exist
//	}
//
// After a successful call the album's track numbers run 1..N in the given
// order with no gaps, and so do the track numbers of every album a track was
// moved out of.
//
// # Aggregates
//
// Aggregates memoises values derived from an album's tracks in a cache.Cache:
//
//	agg := catalog.NewAggregates(store, files, c, catalog.AggregateOptions{})
//	size, err := agg.Filesize(ctx, album, "MP3")
//
// Cached values are only as fresh as the last invalidation; SyncTrackIDs
// invalidates the album it changes.
//
// # Transactions
//
// If the store also implements TxStore, steps 4 to 6 run inside a single
// transaction and the cache is only invalidated after it commits.
package catalog
