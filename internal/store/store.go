// Package store persists albums, tracks and their supporting rows with gorm.
//
// Store implements catalog.TxStore, so a reconciliation runs inside one
// database transaction:
//
//	db, err := store.NewDB(&store.Config{Driver: "sqlite", DSN: "catalog.db"}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := store.Migrate(db); err != nil {
//	    return err
//	}
//	s := store.New(db, logger)
//	r := catalog.NewReconciler(s, catalog.Options{})
//
// Postgres is used in production and SQLite for local work and tests. Soft
// deleted albums and tracks are invisible to every query.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/handiism/album-catalog/internal/catalog"
	"github.com/handiism/album-catalog/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the gorm-backed repository for the catalog.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ catalog.TxStore = (*Store)(nil)

// New creates a Store over db.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, log: logger}
}

// WithinTx implements catalog.TxStore.
func (s *Store) WithinTx(ctx context.Context, fn func(catalog.TrackStore) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
	if err != nil {
		s.log.Debug("transaction rolled back", zap.Error(err))
	}
	return err
}

// Album implements catalog.TrackStore.
func (s *Store) Album(ctx context.Context, id int64) (*model.Album, error) {
	var do AlbumDO
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("get album %d: %w", id, err)
	}
	return do.toDomain(), nil
}

// Track implements catalog.TrackStore.
func (s *Store) Track(ctx context.Context, id int64) (*model.Track, error) {
	var do TrackDO
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrTrackNotFound
		}
		return nil, fmt.Errorf("get track %d: %w", id, err)
	}
	return do.toDomain(), nil
}

// AlbumTracks implements catalog.TrackStore.
func (s *Store) AlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error) {
	var dos []TrackDO
	if err := s.db.WithContext(ctx).
		Where("album_id = ?", albumID).
		Order("track_number ASC").
		Order("id ASC").
		Find(&dos).Error; err != nil {
		return nil, fmt.Errorf("list tracks of album %d: %w", albumID, err)
	}

	tracks := make([]*model.Track, len(dos))
	for i := range dos {
		tracks[i] = dos[i].toDomain()
	}
	return tracks, nil
}

// SaveTrack implements catalog.TrackStore. Only the album and position
// columns are written.
func (s *Store) SaveTrack(ctx context.Context, track *model.Track) error {
	updates := map[string]any{
		"album_id":     nil,
		"track_number": nil,
	}
	if track.AlbumID != nil {
		updates["album_id"] = *track.AlbumID
	}
	if track.TrackNumber != nil {
		updates["track_number"] = *track.TrackNumber
	}

	res := s.db.WithContext(ctx).
		Model(&TrackDO{}).
		Where("id = ?", track.ID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update track %d: %w", track.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrTrackNotFound
	}
	return nil
}

// CreateAlbum inserts album and sets its ID.
func (s *Store) CreateAlbum(ctx context.Context, album *model.Album) error {
	do := toAlbumDO(album)
	if err := s.db.WithContext(ctx).Create(do).Error; err != nil {
		return fmt.Errorf("create album: %w", err)
	}
	album.ID = do.ID
	album.CreatedAt = do.CreatedAt
	return nil
}

// UpdateAlbum writes every column of album.
func (s *Store) UpdateAlbum(ctx context.Context, album *model.Album) error {
	if err := s.db.WithContext(ctx).Save(toAlbumDO(album)).Error; err != nil {
		return fmt.Errorf("update album %d: %w", album.ID, err)
	}
	return nil
}

// CreateTrack inserts track and sets its ID.
func (s *Store) CreateTrack(ctx context.Context, track *model.Track) error {
	do := toTrackDO(track)
	if err := s.db.WithContext(ctx).Create(do).Error; err != nil {
		return fmt.Errorf("create track: %w", err)
	}
	track.ID = do.ID
	return nil
}

// DeleteTrack soft deletes a track.
func (s *Store) DeleteTrack(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&TrackDO{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete track %d: %w", id, err)
	}
	return nil
}

// CreateUser inserts user and sets its ID.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	do := toUserDO(user)
	if err := s.db.WithContext(ctx).Create(do).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = do.ID
	return nil
}

// User returns the user with the given ID.
func (s *Store) User(ctx context.Context, id int64) (*model.User, error) {
	var do UserDO
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return do.toDomain(), nil
}

// ResourceUser returns the viewer's stats row for an album. A viewer without
// a row gets zero stats.
func (s *Store) ResourceUser(ctx context.Context, userID, albumID int64) (*model.ResourceUser, error) {
	var do ResourceUserDO
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		First(&do).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ResourceUser{UserID: userID, AlbumID: albumID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get resource user %d/%d: %w", userID, albumID, err)
	}
	return do.toDomain(), nil
}

// SaveResourceUser inserts or replaces the viewer's stats row.
func (s *Store) SaveResourceUser(ctx context.Context, ru *model.ResourceUser) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var do ResourceUserDO
		err := tx.Where("user_id = ? AND album_id = ?", ru.UserID, ru.AlbumID).First(&do).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		do.UserID = ru.UserID
		do.AlbumID = ru.AlbumID
		do.ViewCount = ru.ViewCount
		do.DownloadCount = ru.DownloadCount
		do.IsFavourited = ru.IsFavourited
		return tx.Save(&do).Error
	})
}

// CreateAnnouncement inserts a and sets its ID.
func (s *Store) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	do := toAnnouncementDO(a)
	if err := s.db.WithContext(ctx).Create(do).Error; err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	a.ID = do.ID
	return nil
}

// ActiveAnnouncements returns the announcements shown at now, newest first.
func (s *Store) ActiveAnnouncements(ctx context.Context, now time.Time) ([]*model.Announcement, error) {
	var dos []AnnouncementDO
	if err := s.db.WithContext(ctx).
		Where("start_time IS NULL OR start_time <= ?", now).
		Where("end_time IS NULL OR end_time > ?", now).
		Order("id DESC").
		Find(&dos).Error; err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	out := make([]*model.Announcement, len(dos))
	for i := range dos {
		out[i] = dos[i].toDomain()
	}
	return out, nil
}
