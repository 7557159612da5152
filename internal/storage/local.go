package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/handiism/album-catalog/internal/model"
)

// LocalStore keeps track files under a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at root. The directory does not
// need to exist until the first Put.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Path returns the absolute location of a track's file in format.
func (s *LocalStore) Path(track *model.Track, format model.Format) string {
	return filepath.Join(s.root, filepath.FromSlash(Key(track, format)))
}

// Size implements Store.
func (s *LocalStore) Size(_ context.Context, track *model.Track, format model.Format) (int64, error) {
	info, err := os.Stat(s.Path(track, format))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, notFound(track, format)
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Open implements Store.
func (s *LocalStore) Open(_ context.Context, track *model.Track, format model.Format) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(track, format))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(track, format)
	}
	return f, err
}

// Put writes r as the track's file in format, creating directories as
// needed. An existing file is replaced.
func (s *LocalStore) Put(_ context.Context, track *model.Track, format model.Format, r io.Reader) error {
	dst := s.Path(track, format)
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return f.Close()
}

// Import copies the file at src into the store.
func (s *LocalStore) Import(ctx context.Context, track *model.Track, format model.Format, src string) error {
	dst := s.Path(track, format)
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	return CopyFile(ctx, src, dst)
}

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does.
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
