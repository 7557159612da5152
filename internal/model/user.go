package model

// User is the subset of a site user needed to render albums.
type User struct {
	ID          int64
	DisplayName string
	Slug        string

	// AvatarURL is used as the album cover when an album has none.
	AvatarURL string
}

// ResourceUser holds one viewer's personal stats for one album.
type ResourceUser struct {
	UserID        int64
	AlbumID       int64
	ViewCount     int
	DownloadCount int
	IsFavourited  bool
}

// Viewer identifies the caller of a presentation or permission check.
//
// The zero value is an anonymous visitor.
type Viewer struct {
	UserID int64
}

// Anonymous is the viewer for unauthenticated requests.
var Anonymous = Viewer{}

// Authenticated returns true if the viewer is a signed-in user.
func (v Viewer) Authenticated() bool {
	return v.UserID != 0
}

// Owns returns true if the viewer is the signed-in owner of album.
func (v Viewer) Owns(album *Album) bool {
	return v.Authenticated() && album != nil && album.UserID == v.UserID
}
