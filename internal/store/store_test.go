package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/album-catalog/internal/catalog"
	"github.com/handiism/album-catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDB(&Config{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })

	return New(db, nil)
}

// seedAlbum creates an album holding len(titles) tracks in order.
func seedAlbum(t *testing.T, s *Store, title string, titles ...string) (*model.Album, []int64) {
	t.Helper()
	ctx := context.Background()

	album := &model.Album{UserID: 1, Title: title, Slug: title}
	require.NoError(t, s.CreateAlbum(ctx, album))

	ids := make([]int64, len(titles))
	for i, tt := range titles {
		track := &model.Track{UserID: 1, Title: tt, Slug: tt, IsDownloadable: true}
		track.Attach(album.ID, i+1)
		require.NoError(t, s.CreateTrack(ctx, track))
		ids[i] = track.ID
	}
	return album, ids
}

func trackIDs(t *testing.T, s *Store, albumID int64) ([]int64, []int) {
	t.Helper()
	tracks, err := s.AlbumTracks(context.Background(), albumID)
	require.NoError(t, err)

	ids := make([]int64, len(tracks))
	pos := make([]int, len(tracks))
	for i, tr := range tracks {
		ids[i] = tr.ID
		pos[i] = tr.Position()
	}
	return ids, pos
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB(&Config{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Album(ctx, 404)
	assert.ErrorIs(t, err, model.ErrAlbumNotFound)

	_, err = s.Track(ctx, 404)
	assert.ErrorIs(t, err, model.ErrTrackNotFound)

	_, err = s.User(ctx, 404)
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	err = s.SaveTrack(ctx, &model.Track{ID: 404})
	assert.ErrorIs(t, err, model.ErrTrackNotFound)
}

func TestStore_AlbumRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cover := int64(77)
	album := &model.Album{UserID: 3, Title: "Songs of Harmony", Slug: "songs-of-harmony", CoverID: &cover, ViewCount: 12}
	require.NoError(t, s.CreateAlbum(ctx, album))
	require.NotZero(t, album.ID)

	got, err := s.Album(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, "Songs of Harmony", got.Title)
	assert.Equal(t, int64(3), got.UserID)
	require.NotNil(t, got.CoverID)
	assert.Equal(t, int64(77), *got.CoverID)
	assert.Equal(t, 12, got.ViewCount)

	got.DownloadCount = 5
	require.NoError(t, s.UpdateAlbum(ctx, got))

	again, err := s.Album(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.DownloadCount)
}

func TestStore_AlbumTracksOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	album, ids := seedAlbum(t, s, "a", "one", "two", "three")

	// reverse the numbering behind the store's back
	for i, id := range ids {
		tr, err := s.Track(ctx, id)
		require.NoError(t, err)
		tr.Attach(album.ID, len(ids)-i)
		require.NoError(t, s.SaveTrack(ctx, tr))
	}

	got, pos := trackIDs(t, s, album.ID)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, got)
	assert.Equal(t, []int{1, 2, 3}, pos)

	require.NoError(t, s.DeleteTrack(ctx, ids[1]))
	got, _ = trackIDs(t, s, album.ID)
	assert.Equal(t, []int64{ids[2], ids[0]}, got)
}

func TestStore_SaveTrackDetach(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ids := seedAlbum(t, s, "a", "one")

	tr, err := s.Track(ctx, ids[0])
	require.NoError(t, err)
	tr.Detach()
	require.NoError(t, s.SaveTrack(ctx, tr))

	got, err := s.Track(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, got.AlbumID)
	assert.Nil(t, got.TrackNumber)
	assert.Equal(t, "one", got.Title)
}

func TestStore_WithinTxRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	album, ids := seedAlbum(t, s, "a", "one", "two")

	err := s.WithinTx(ctx, func(tx catalog.TrackStore) error {
		tr, err := tx.Track(ctx, ids[0])
		if err != nil {
			return err
		}
		tr.Detach()
		if err := tx.SaveTrack(ctx, tr); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.EqualError(t, err, "abort")

	got, _ := trackIDs(t, s, album.ID)
	assert.Equal(t, ids, got)
}

func TestStore_Reconcile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, aIDs := seedAlbum(t, s, "a", "t1", "t2", "t3")
	b, bIDs := seedAlbum(t, s, "b", "t4", "t5")

	r := catalog.NewReconciler(s, catalog.Options{})

	_, err := r.SyncTrackIDs(ctx, a, []string{
		fmt.Sprint(aIDs[2]),
		fmt.Sprint(aIDs[0]),
		fmt.Sprint(bIDs[1]),
	})
	require.NoError(t, err)

	got, pos := trackIDs(t, s, a.ID)
	assert.Equal(t, []int64{aIDs[2], aIDs[0], bIDs[1]}, got)
	assert.Equal(t, []int{1, 2, 3}, pos)

	got, pos = trackIDs(t, s, b.ID)
	assert.Equal(t, []int64{bIDs[0]}, got)
	assert.Equal(t, []int{1}, pos)

	detached, err := s.Track(ctx, aIDs[1])
	require.NoError(t, err)
	assert.False(t, detached.InAlbum())
	assert.Nil(t, detached.TrackNumber)
}

func TestStore_ReconcileRollsBackOnMissingTrack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, ids := seedAlbum(t, s, "a", "t1", "t2")

	r := catalog.NewReconciler(s, catalog.Options{})
	_, err := r.SyncTrackIDs(ctx, a, []string{fmt.Sprint(ids[1]), "999999"})
	require.ErrorIs(t, err, model.ErrTrackNotFound)

	got, pos := trackIDs(t, s, a.ID)
	assert.Equal(t, ids, got)
	assert.Equal(t, []int{1, 2}, pos)
}

func TestStore_ResourceUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ru, err := s.ResourceUser(ctx, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, &model.ResourceUser{UserID: 5, AlbumID: 9}, ru)

	ru.ViewCount = 3
	ru.IsFavourited = true
	require.NoError(t, s.SaveResourceUser(ctx, ru))

	ru.DownloadCount = 1
	require.NoError(t, s.SaveResourceUser(ctx, ru))

	got, err := s.ResourceUser(ctx, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ViewCount)
	assert.Equal(t, 1, got.DownloadCount)
	assert.True(t, got.IsFavourited)
}

func TestStore_ActiveAnnouncements(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)

	current := &model.Announcement{
		Title:     "Site maintenance",
		Type:      model.AnnouncementWarningAlert,
		Links:     []model.Link{{Title: "Status", URL: "https://status.example.com"}},
		TrackIDs:  []int64{4, 8},
		StartTime: &start,
		EndTime:   &end,
	}
	expired := &model.Announcement{Title: "Old news", EndTime: &start}
	always := &model.Announcement{Title: "Welcome", Type: model.AnnouncementGeneric}

	for _, a := range []*model.Announcement{current, expired, always} {
		require.NoError(t, s.CreateAnnouncement(ctx, a))
	}

	got, err := s.ActiveAnnouncements(ctx, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Welcome", got[0].Title)
	assert.Equal(t, "Site maintenance", got[1].Title)
	assert.Equal(t, model.AnnouncementWarningAlert, got[1].Type)
	assert.Equal(t, current.Links, got[1].Links)
	assert.Equal(t, []int64{4, 8}, got[1].TrackIDs)
}
