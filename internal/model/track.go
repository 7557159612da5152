package model

import (
	"fmt"
)

// Track is a single uploaded song that may belong to at most one album.
//
// AlbumID and TrackNumber move together: a track inside an album always has
// both set, and a detached track has both nil. Use Attach and Detach rather
// than assigning the fields directly so the pair cannot drift apart.
//
// Example:
//
//	track.Attach(album.ID, 3)
//	track.InAlbum()     // true
//	track.Position()    // 3
//	track.Detach()
//	track.InAlbum()     // false
type Track struct {
	// ID is the primary key.
	ID int64

	// UserID is the uploader.
	UserID int64

	// AlbumID is the owning album, nil if the track is a single.
	AlbumID *int64

	// TrackNumber is the 1-based position inside the owning album.
	TrackNumber *int

	// Title is the track title.
	Title string

	// Slug is the URL fragment derived from Title.
	Slug string

	// IsDownloadable marks tracks whose files may be included in album downloads.
	IsDownloadable bool

	// Duration is the track length in seconds.
	Duration float64

	// Lyrics contains the song lyrics, if any.
	Lyrics string
}

// InAlbum returns true if the track currently belongs to an album.
func (t *Track) InAlbum() bool {
	return t.AlbumID != nil
}

// BelongsTo returns true if the track belongs to the album with the given ID.
func (t *Track) BelongsTo(albumID int64) bool {
	return t.AlbumID != nil && *t.AlbumID == albumID
}

// Position returns the track number, or 0 for a detached track.
func (t *Track) Position() int {
	if t.TrackNumber == nil {
		return 0
	}
	return *t.TrackNumber
}

// Attach places the track in album albumID at the given position.
func (t *Track) Attach(albumID int64, position int) {
	t.AlbumID = &albumID
	t.TrackNumber = &position
}

// Detach removes the track from its album and clears its position.
func (t *Track) Detach() {
	t.AlbumID = nil
	t.TrackNumber = nil
}

// EntryName returns the file name used for this track inside album archives
// and playlists, e.g. "03 Winter Wrap Up.mp3".
//
// Detached tracks get no number prefix.
func (t *Track) EntryName(f Format) string {
	name := t.Title
	if t.TrackNumber != nil {
		name = fmt.Sprintf("%02d %s", *t.TrackNumber, t.Title)
	}
	return sanitizeFileName(name) + "." + f.Extension
}
