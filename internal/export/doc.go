// Package export builds downloadable album archives.
//
// # Exporter
//
// The Exporter writes one zip per album and format:
//
//  1. List the album's downloadable tracks in order
//  2. Probe every track file's size concurrently
//  3. Copy each existing file into the archive as "NN Title.ext"
//  4. Add a playlist of the copied tracks
//
// # Basic Usage
//
//	exp := export.NewExporter(store, files, store, settings, func(event export.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	res, err := exp.Export(ctx, album, "MP3")
//	// <FilesDir>/tracks/1000/1042.mp3.zip
//
// Tracks whose file is missing in the format are skipped with a warning
// event, matching how catalog.Aggregates leaves them out of the album size.
//
// # Retry Logic
//
// Opening a track file is retried with exponential backoff, configurable
// via Settings.OpenMaxRetries, Settings.RetryCooldown and
// Settings.RetryExponent.
package export
