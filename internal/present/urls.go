package present

import (
	"fmt"
	"strings"

	"github.com/handiism/album-catalog/internal/model"
)

// CoverSize names a rendition of an album cover.
type CoverSize string

const (
	CoverSmall    CoverSize = "small"
	CoverNormal   CoverSize = "normal"
	CoverOriginal CoverSize = "original"
)

// URLBuilder builds the public URLs of catalog resources.
//
// Example:
//
//	urls := URLBuilder{BaseURL: "https://music.example.com"}
//	urls.Album(album)               // "https://music.example.com/albums/1042-friendship"
//	urls.Shortlink(album)           // "https://music.example.com/a1042"
//	urls.Download(album, mp3)       // "https://music.example.com/a1042/dl.mp3"
type URLBuilder struct {
	BaseURL string
}

func (b URLBuilder) abs(format string, args ...any) string {
	return strings.TrimRight(b.BaseURL, "/") + fmt.Sprintf(format, args...)
}

// Album returns the album page URL.
func (b URLBuilder) Album(a *model.Album) string {
	return b.abs("/albums/%d-%s", a.ID, a.Slug)
}

// Shortlink returns the short album URL used for sharing.
func (b URLBuilder) Shortlink(a *model.Album) string {
	return b.abs("/a%d", a.ID)
}

// Download returns the archive download URL of the album in format.
func (b URLBuilder) Download(a *model.Album, f model.Format) string {
	return b.abs("/a%d/dl.%s", a.ID, f.Extension)
}

// Track returns the track page URL.
func (b URLBuilder) Track(t *model.Track) string {
	return b.abs("/tracks/%d-%s", t.ID, t.Slug)
}

// User returns the user's profile URL.
func (b URLBuilder) User(u *model.User) string {
	return b.abs("/%s", u.Slug)
}

// Cover returns the album cover URL in size. Albums without a cover use
// the owner's avatar.
func (b URLBuilder) Cover(a *model.Album, owner *model.User, size CoverSize) string {
	if !a.HasCover() {
		if owner == nil {
			return ""
		}
		return owner.AvatarURL
	}
	return b.abs("/i%d/%s.png", *a.CoverID, size)
}
