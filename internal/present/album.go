// Package present shapes catalog models into the JSON documents served to
// the web client.
//
// Nothing here reads request state. Permissions and personal stats are
// computed from an explicit model.Viewer:
//
//	p := present.NewPresenter(present.URLBuilder{BaseURL: "https://music.example.com"}, aggregates, "Album Catalog")
//	summary := p.Summary(data, viewer)
//	show, err := p.Show(ctx, data, viewer)
package present

import (
	"context"
	"fmt"
	"net/url"

	"github.com/handiism/album-catalog/internal/catalog"
	"github.com/handiism/album-catalog/internal/model"
)

// timeLayout matches ISO 8601 with a numeric offset, "+00:00" for UTC.
const timeLayout = "2006-01-02T15:04:05-07:00"

// FilesizeSource computes album archive sizes. catalog.Aggregates
// implements it.
type FilesizeSource interface {
	Filesize(ctx context.Context, album *model.Album, format string) (int64, error)
}

// AlbumData is everything needed to present one album.
type AlbumData struct {
	Album *model.Album
	Owner *model.User

	// Tracks in album order. Only Show uses them.
	Tracks []*model.Track

	// ResourceUser is the viewer's stats row, nil for anonymous viewers.
	ResourceUser *model.ResourceUser
}

// AlbumSummary is the compact album document used in listings.
type AlbumSummary struct {
	ID          int64       `json:"id"`
	TrackCount  int         `json:"track_count"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	CreatedAt   string      `json:"created_at"`
	Stats       AlbumStats  `json:"stats"`
	Covers      Covers      `json:"covers"`
	URL         string      `json:"url"`
	User        UserRef     `json:"user"`
	UserData    UserData    `json:"user_data"`
	Permissions Permissions `json:"permissions"`
}

type AlbumStats struct {
	Views      int `json:"views"`
	Downloads  int `json:"downloads"`
	Comments   int `json:"comments"`
	Favourites int `json:"favourites"`
}

type Covers struct {
	Small    string `json:"small"`
	Normal   string `json:"normal"`
	Original string `json:"original"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UserData is the viewer's personal relation to the album.
type UserData struct {
	Stats struct {
		Views     int `json:"views"`
		Downloads int `json:"downloads"`
	} `json:"stats"`
	IsFavourited bool `json:"is_favourited"`
}

type Permissions struct {
	Delete bool `json:"delete"`
	Edit   bool `json:"edit"`
}

// AlbumShow is the full album page document.
type AlbumShow struct {
	AlbumSummary
	Tracks         []TrackSummary `json:"tracks"`
	Formats        []FormatLink   `json:"formats"`
	Description    string         `json:"description"`
	IsDownloadable bool           `json:"is_downloadable"`
	Share          Share          `json:"share"`
}

type TrackSummary struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	TrackNumber    int     `json:"track_number"`
	Duration       float64 `json:"duration"`
	IsDownloadable bool    `json:"is_downloadable"`
	URL            string  `json:"url"`
}

// FormatLink describes one downloadable archive of the album.
type FormatLink struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	URL         string `json:"url"`
	Size        string `json:"size"`
	IsCacheable bool   `json:"isCacheable"`
}

type Share struct {
	URL        string `json:"url"`
	TumblrURL  string `json:"tumblrUrl"`
	TwitterURL string `json:"twitterUrl"`
}

// Presenter builds album documents.
type Presenter struct {
	urls     URLBuilder
	sizes    FilesizeSource
	siteName string
}

// NewPresenter creates a Presenter. siteName appears in share texts.
func NewPresenter(urls URLBuilder, sizes FilesizeSource, siteName string) *Presenter {
	return &Presenter{urls: urls, sizes: sizes, siteName: siteName}
}

// Summary returns the listing document for an album as seen by viewer.
func (p *Presenter) Summary(d AlbumData, viewer model.Viewer) AlbumSummary {
	a := d.Album
	owner := d.Owner
	if owner == nil {
		owner = &model.User{ID: a.UserID}
	}

	var userData UserData
	if viewer.Authenticated() && d.ResourceUser != nil {
		userData.Stats.Views = d.ResourceUser.ViewCount
		userData.Stats.Downloads = d.ResourceUser.DownloadCount
		userData.IsFavourited = d.ResourceUser.IsFavourited
	}

	owns := viewer.Owns(a)
	return AlbumSummary{
		ID:         a.ID,
		TrackCount: a.TrackCount,
		Title:      a.Title,
		Slug:       a.Slug,
		CreatedAt:  a.CreatedAt.Format(timeLayout),
		Stats: AlbumStats{
			Views:      a.ViewCount,
			Downloads:  a.DownloadCount,
			Comments:   a.CommentCount,
			Favourites: a.FavouriteCount,
		},
		Covers: Covers{
			Small:    p.urls.Cover(a, owner, CoverSmall),
			Normal:   p.urls.Cover(a, owner, CoverNormal),
			Original: p.urls.Cover(a, owner, CoverOriginal),
		},
		URL: p.urls.Album(a),
		User: UserRef{
			ID:   owner.ID,
			Name: owner.DisplayName,
			URL:  p.urls.User(owner),
		},
		UserData:    userData,
		Permissions: Permissions{Delete: owns, Edit: owns},
	}
}

// Show returns the album page document. It computes the archive size of
// every format, so it may hit storage on a cold cache.
func (p *Presenter) Show(ctx context.Context, d AlbumData, viewer model.Viewer) (*AlbumShow, error) {
	a := d.Album
	show := &AlbumShow{
		AlbumSummary:   p.Summary(d, viewer),
		Tracks:         make([]TrackSummary, len(d.Tracks)),
		Formats:        make([]FormatLink, 0, len(model.Formats)),
		Description:    a.Description,
		IsDownloadable: catalog.IsDownloadable(d.Tracks),
	}

	for i, t := range d.Tracks {
		show.Tracks[i] = TrackSummary{
			ID:             t.ID,
			Title:          t.Title,
			Slug:           t.Slug,
			TrackNumber:    t.Position(),
			Duration:       t.Duration,
			IsDownloadable: t.IsDownloadable,
			URL:            p.urls.Track(t),
		}
	}

	for _, f := range model.Formats {
		size, err := p.sizes.Filesize(ctx, a, f.Name)
		if err != nil {
			return nil, fmt.Errorf("size of album %d as %s: %w", a.ID, f.Name, err)
		}
		show.Formats = append(show.Formats, FormatLink{
			Name:        f.Name,
			Extension:   f.Extension,
			URL:         p.urls.Download(a, f),
			Size:        FormatBytes(size),
			IsCacheable: f.Cacheable,
		})
	}

	ownerName := ""
	if d.Owner != nil {
		ownerName = d.Owner.DisplayName
	}
	albumURL := p.urls.Album(a)
	show.Share = Share{
		URL: p.urls.Shortlink(a),
		TumblrURL: "http://www.tumblr.com/share/link?url=" + url.QueryEscape(albumURL) +
			"&name=" + url.QueryEscape(a.Title) +
			"&description=" + url.QueryEscape(a.Description),
		TwitterURL: "https://platform.twitter.com/widgets/tweet_button.html?text=" +
			url.QueryEscape(fmt.Sprintf("%s by %s on %s", a.Title, ownerName, p.siteName)),
	}
	return show, nil
}
