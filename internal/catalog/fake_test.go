package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/handiism/album-catalog/internal/model"
)

// memStore is an in-memory TrackStore that hands out copies, like a database
// would, and counts writes.
type memStore struct {
	mu      sync.Mutex
	albums  map[int64]*model.Album
	tracks  map[int64]*model.Track
	writes  int
	failOn  int64 // SaveTrack fails for this track ID
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{
		albums: make(map[int64]*model.Album),
		tracks: make(map[int64]*model.Track),
	}
}

func (s *memStore) addAlbum(id int64, trackIDs ...int64) *model.Album {
	a := &model.Album{ID: id, Title: fmt.Sprintf("Album %d", id)}
	s.albums[id] = a
	for i, tid := range trackIDs {
		t := &model.Track{ID: tid, Title: fmt.Sprintf("Track %d", tid), IsDownloadable: true}
		t.Attach(id, i+1)
		s.tracks[tid] = t
	}
	return a
}

func (s *memStore) addSingle(id int64) {
	s.tracks[id] = &model.Track{ID: id, Title: fmt.Sprintf("Track %d", id), IsDownloadable: true}
}

func (s *memStore) Album(_ context.Context, id int64) (*model.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return nil, model.ErrAlbumNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) Track(_ context.Context, id int64) (*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return nil, model.ErrTrackNotFound
	}
	return copyTrack(t), nil
}

func (s *memStore) AlbumTracks(_ context.Context, albumID int64) ([]*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	var out []*model.Track
	for _, t := range s.tracks {
		if t.BelongsTo(albumID) {
			out = append(out, copyTrack(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position() != out[j].Position() {
			return out[i].Position() < out[j].Position()
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) SaveTrack(_ context.Context, t *model.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == s.failOn {
		return errors.New("connection reset")
	}
	s.tracks[t.ID] = copyTrack(t)
	s.writes++
	return nil
}

// layout returns the album's track IDs in position order.
func (s *memStore) layout(albumID int64) []int64 {
	tracks, _ := s.AlbumTracks(context.Background(), albumID)
	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// positions returns the album's track numbers in order.
func (s *memStore) positions(albumID int64) []int {
	tracks, _ := s.AlbumTracks(context.Background(), albumID)
	pos := make([]int, len(tracks))
	for i, t := range tracks {
		pos[i] = t.Position()
	}
	return pos
}

func (s *memStore) track(id int64) *model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTrack(s.tracks[id])
}

func copyTrack(t *model.Track) *model.Track {
	cp := *t
	if t.AlbumID != nil {
		id := *t.AlbumID
		cp.AlbumID = &id
	}
	if t.TrackNumber != nil {
		n := *t.TrackNumber
		cp.TrackNumber = &n
	}
	return &cp
}

// txStore wraps memStore with a snapshot/restore transaction.
type txStore struct {
	*memStore
	commits   int
	rollbacks int
}

func (s *txStore) WithinTx(_ context.Context, fn func(TrackStore) error) error {
	s.mu.Lock()
	snapshot := make(map[int64]*model.Track, len(s.tracks))
	for id, t := range s.tracks {
		snapshot[id] = copyTrack(t)
	}
	s.mu.Unlock()

	if err := fn(s.memStore); err != nil {
		s.mu.Lock()
		s.tracks = snapshot
		s.mu.Unlock()
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

type recordingRetagger struct {
	mu    sync.Mutex
	calls map[int64]int
	err   error
}

func (r *recordingRetagger) Retag(_ context.Context, t *model.Track, _ *model.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[int64]int)
	}
	r.calls[t.ID]++
	return r.err
}

// fileSizes is a FileStore keyed by track ID.
type fileSizes struct {
	mu    sync.Mutex
	sizes map[int64]int64
	errs  map[int64]error
	calls int
}

func (f *fileSizes) Size(_ context.Context, t *model.Track, _ model.Format) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[t.ID]; ok {
		return 0, err
	}
	size, ok := f.sizes[t.ID]
	if !ok {
		return 0, model.ErrTrackFileNotFound
	}
	return size, nil
}
