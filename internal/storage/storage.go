package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/handiism/album-catalog/internal/model"
)

// Store is a track file backend.
type Store interface {
	// Size returns the file's size in bytes.
	Size(ctx context.Context, track *model.Track, format model.Format) (int64, error)

	// Open returns a reader over the file. The caller must close it.
	Open(ctx context.Context, track *model.Track, format model.Format) (io.ReadCloser, error)
}

// Key returns the slash separated key of a track's file in format.
func Key(track *model.Track, format model.Format) string {
	bucket := (track.ID / 100) * 100
	return path.Join("tracks", strconv.FormatInt(bucket, 10), fmt.Sprintf("%d.%s", track.ID, format.Extension))
}

func notFound(track *model.Track, format model.Format) error {
	return fmt.Errorf("track %d as %s: %w", track.ID, format.Name, model.ErrTrackFileNotFound)
}

// ProgressWriter wraps a writer to track copy progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  size,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, reader)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
