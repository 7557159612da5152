package store

import (
	"time"

	"github.com/handiism/album-catalog/internal/model"
	"gorm.io/gorm"
)

// UserDO is the users table.
type UserDO struct {
	ID          int64  `gorm:"primaryKey"`
	DisplayName string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:255;not null;index"`
	AvatarURL   string `gorm:"size:500"`
}

func (UserDO) TableName() string { return "users" }

func (d *UserDO) toDomain() *model.User {
	return &model.User{
		ID:          d.ID,
		DisplayName: d.DisplayName,
		Slug:        d.Slug,
		AvatarURL:   d.AvatarURL,
	}
}

func toUserDO(u *model.User) *UserDO {
	return &UserDO{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Slug:        u.Slug,
		AvatarURL:   u.AvatarURL,
	}
}

// AlbumDO is the albums table.
type AlbumDO struct {
	ID             int64  `gorm:"primaryKey"`
	UserID         int64  `gorm:"not null;index"`
	Title          string `gorm:"size:255;not null"`
	Slug           string `gorm:"size:255;not null"`
	Description    string `gorm:"type:text"`
	CoverID        *int64
	TrackCount     int `gorm:"not null;default:0"`
	ViewCount      int `gorm:"not null;default:0"`
	DownloadCount  int `gorm:"not null;default:0"`
	FavouriteCount int `gorm:"not null;default:0"`
	CommentCount   int `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PublishedAt    *time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (AlbumDO) TableName() string { return "albums" }

func (d *AlbumDO) toDomain() *model.Album {
	a := &model.Album{
		ID:             d.ID,
		UserID:         d.UserID,
		Title:          d.Title,
		Slug:           d.Slug,
		Description:    d.Description,
		CoverID:        d.CoverID,
		TrackCount:     d.TrackCount,
		ViewCount:      d.ViewCount,
		DownloadCount:  d.DownloadCount,
		FavouriteCount: d.FavouriteCount,
		CommentCount:   d.CommentCount,
		CreatedAt:      d.CreatedAt,
		PublishedAt:    d.PublishedAt,
	}
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		a.DeletedAt = &t
	}
	return a
}

func toAlbumDO(a *model.Album) *AlbumDO {
	d := &AlbumDO{
		ID:             a.ID,
		UserID:         a.UserID,
		Title:          a.Title,
		Slug:           a.Slug,
		Description:    a.Description,
		CoverID:        a.CoverID,
		TrackCount:     a.TrackCount,
		ViewCount:      a.ViewCount,
		DownloadCount:  a.DownloadCount,
		FavouriteCount: a.FavouriteCount,
		CommentCount:   a.CommentCount,
		CreatedAt:      a.CreatedAt,
		PublishedAt:    a.PublishedAt,
	}
	if a.DeletedAt != nil {
		d.DeletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	}
	return d
}

// TrackDO is the tracks table.
type TrackDO struct {
	ID             int64   `gorm:"primaryKey"`
	UserID         int64   `gorm:"not null;index"`
	AlbumID        *int64  `gorm:"index:idx_album_position"`
	TrackNumber    *int    `gorm:"index:idx_album_position"`
	Title          string  `gorm:"size:255;not null"`
	Slug           string  `gorm:"size:255;not null"`
	IsDownloadable bool    `gorm:"not null;default:false"`
	Duration       float64 `gorm:"not null;default:0"`
	Lyrics         string  `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (TrackDO) TableName() string { return "tracks" }

func (d *TrackDO) toDomain() *model.Track {
	return &model.Track{
		ID:             d.ID,
		UserID:         d.UserID,
		AlbumID:        d.AlbumID,
		TrackNumber:    d.TrackNumber,
		Title:          d.Title,
		Slug:           d.Slug,
		IsDownloadable: d.IsDownloadable,
		Duration:       d.Duration,
		Lyrics:         d.Lyrics,
	}
}

func toTrackDO(t *model.Track) *TrackDO {
	return &TrackDO{
		ID:             t.ID,
		UserID:         t.UserID,
		AlbumID:        t.AlbumID,
		TrackNumber:    t.TrackNumber,
		Title:          t.Title,
		Slug:           t.Slug,
		IsDownloadable: t.IsDownloadable,
		Duration:       t.Duration,
		Lyrics:         t.Lyrics,
	}
}

// ResourceUserDO holds per-user stats for an album.
type ResourceUserDO struct {
	ID            int64 `gorm:"primaryKey"`
	UserID        int64 `gorm:"not null;uniqueIndex:idx_user_album"`
	AlbumID       int64 `gorm:"not null;uniqueIndex:idx_user_album"`
	ViewCount     int   `gorm:"not null;default:0"`
	DownloadCount int   `gorm:"not null;default:0"`
	IsFavourited  bool  `gorm:"not null;default:false"`
}

func (ResourceUserDO) TableName() string { return "resource_users" }

func (d *ResourceUserDO) toDomain() *model.ResourceUser {
	return &model.ResourceUser{
		UserID:        d.UserID,
		AlbumID:       d.AlbumID,
		ViewCount:     d.ViewCount,
		DownloadCount: d.DownloadCount,
		IsFavourited:  d.IsFavourited,
	}
}

// AnnouncementDO is the announcements table. Links and track IDs are stored
// as JSON arrays.
type AnnouncementDO struct {
	ID        int64        `gorm:"primaryKey"`
	Title     string       `gorm:"size:255;not null"`
	Content   string       `gorm:"type:text"`
	Type      int          `gorm:"not null;default:1"`
	Links     []model.Link `gorm:"serializer:json"`
	TrackIDs  []int64      `gorm:"serializer:json"`
	StartTime *time.Time   `gorm:"index"`
	EndTime   *time.Time   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AnnouncementDO) TableName() string { return "announcements" }

func (d *AnnouncementDO) toDomain() *model.Announcement {
	return &model.Announcement{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Type:      model.AnnouncementType(d.Type),
		Links:     d.Links,
		TrackIDs:  d.TrackIDs,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
	}
}

func toAnnouncementDO(a *model.Announcement) *AnnouncementDO {
	return &AnnouncementDO{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Type:      int(a.Type),
		Links:     a.Links,
		TrackIDs:  a.TrackIDs,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
	}
}
