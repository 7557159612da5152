// Package storage locates the encoded files of tracks.
//
// Every track is stored once per format under a key derived from its ID:
//
//	tracks/<floor(id/100)*100>/<id>.<ext>
//
// so track 1042 in MP3 lives at "tracks/1000/1042.mp3".
//
// # Backends
//
//   - LocalStore reads and writes a directory on disk
//   - HTTPStore reads from a CDN or any HTTP server exposing the same layout
//   - MinioStore reads and writes an S3 compatible bucket
//
// All of them report a missing file as an error wrapping
// model.ErrTrackFileNotFound:
//
//	size, err := store.Size(ctx, track, format)
//	if errors.Is(err, model.ErrTrackFileNotFound) {
//	    // not transcoded yet
//	}
//
// # Progress Tracking
//
// ProgressWriter wraps any io.Writer to report bytes copied:
//
//	pw := &storage.ProgressWriter{
//	    Writer:   file,
//	    Total:    size,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package storage
