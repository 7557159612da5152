package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Album is an ordered collection of tracks owned by a user.
//
// The ordering itself does not live on the album: every Track carries an
// AlbumID and a TrackNumber, and the album's track list is whatever the
// store returns ordered by TrackNumber. Album only holds the album's own
// columns plus a few derived helpers for file names and cache keys.
//
// Example:
//
//	album := &Album{ID: 1042, Title: "Friendship Is Magic"}
//	name, _ := album.FilenameFor("MP3")  // "1042.mp3.zip"
//	key := album.FilesizeCacheKey("MP3") // "album-1042-filesize-MP3"
type Album struct {
	// ID is the primary key.
	ID int64

	// UserID is the owning user.
	UserID int64

	// Title is the album title.
	Title string

	// Slug is the URL fragment derived from Title.
	Slug string

	// Description is free-form text shown on the album page.
	Description string

	// CoverID references the cover image. Nil means the album falls back
	// to the owner's avatar.
	CoverID *int64

	// Denormalised counters maintained by the surrounding application.
	TrackCount     int
	ViewCount      int
	DownloadCount  int
	FavouriteCount int
	CommentCount   int

	CreatedAt   time.Time
	PublishedAt *time.Time
	DeletedAt   *time.Time
}

// HasCover returns true if the album has its own cover image.
func (a *Album) HasCover() bool {
	return a.CoverID != nil
}

// FilenameFor returns the archive file name for the album in the given format.
//
// Returns ErrInvalidFormat if format is not one of the keys in Formats.
//
// Example:
//
//	name, err := album.FilenameFor("OGG Vorbis") // "1042.ogg.zip"
func (a *Album) FilenameFor(format string) (string, error) {
	f, err := LookupFormat(format)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%s.zip", a.ID, f.Extension), nil
}

// Directory returns the directory holding the album's generated files.
//
// Albums are bucketed a hundred to a directory so that no single directory
// grows without bound: album 1042 lives in "<filesDir>/tracks/1000".
func (a *Album) Directory(filesDir string) string {
	bucket := (a.ID / 100) * 100
	return filepath.Join(filesDir, "tracks", strconv.FormatInt(bucket, 10))
}

// CacheKey namespaces key under this album.
func (a *Album) CacheKey(key string) string {
	return fmt.Sprintf("album-%d-%s", a.ID, key)
}

// FilesizeCacheKey is the cache key of the memoised archive size for format.
//
// The same key is used to read and to invalidate the value.
func (a *Album) FilesizeCacheKey(format string) string {
	return a.CacheKey("filesize-" + format)
}

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	whitespace   = regexp.MustCompile(`\s+`)
)
