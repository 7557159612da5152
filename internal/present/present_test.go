package present

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/handiism/album-catalog/internal/model"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 MB"},
		{-5, "0 B"},
		{500, "500 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{3500, "3.42 KB"},
		{1048576, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{3 << 50, "3072 TB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestURLBuilder(t *testing.T) {
	urls := URLBuilder{BaseURL: "https://music.example.com/"}
	cover := int64(55)
	album := &model.Album{ID: 1042, Slug: "friendship", CoverID: &cover}
	owner := &model.User{Slug: "ingram", AvatarURL: "https://music.example.com/avatar.png"}
	mp3, _ := model.LookupFormat("MP3")

	tests := []struct {
		name, got, want string
	}{
		{"album", urls.Album(album), "https://music.example.com/albums/1042-friendship"},
		{"shortlink", urls.Shortlink(album), "https://music.example.com/a1042"},
		{"download", urls.Download(album, mp3), "https://music.example.com/a1042/dl.mp3"},
		{"user", urls.User(owner), "https://music.example.com/ingram"},
		{"cover", urls.Cover(album, owner, CoverSmall), "https://music.example.com/i55/small.png"},
		{"avatar", urls.Cover(&model.Album{ID: 1}, owner, CoverNormal), "https://music.example.com/avatar.png"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

type fixedSizes map[string]int64

func (f fixedSizes) Filesize(_ context.Context, _ *model.Album, format string) (int64, error) {
	size, ok := f[format]
	if !ok {
		return 0, errors.New("unavailable")
	}
	return size, nil
}

func testData() AlbumData {
	album := &model.Album{
		ID:            7,
		UserID:        42,
		Title:         "Songs of Friendship",
		Slug:          "songs-of-friendship",
		Description:   "Season one & two",
		TrackCount:    2,
		ViewCount:     100,
		DownloadCount: 10,
		CreatedAt:     time.Date(2015, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	t1 := &model.Track{ID: 1, Title: "Winter Wrap Up", Slug: "winter-wrap-up", Duration: 180}
	t1.Attach(album.ID, 1)
	t2 := &model.Track{ID: 2, Title: "Art of the Dress", Slug: "art-of-the-dress", IsDownloadable: true}
	t2.Attach(album.ID, 2)

	return AlbumData{
		Album:        album,
		Owner:        &model.User{ID: 42, DisplayName: "Daniel Ingram", Slug: "ingram"},
		Tracks:       []*model.Track{t1, t2},
		ResourceUser: &model.ResourceUser{UserID: 42, AlbumID: 7, ViewCount: 3, IsFavourited: true},
	}
}

func TestPresenter_Summary(t *testing.T) {
	p := NewPresenter(URLBuilder{BaseURL: "https://music.example.com"}, fixedSizes{}, "Album Catalog")
	d := testData()

	owner := p.Summary(d, model.Viewer{UserID: 42})
	if !owner.Permissions.Edit || !owner.Permissions.Delete {
		t.Error("owner should be allowed to edit and delete")
	}
	if owner.UserData.Stats.Views != 3 || !owner.UserData.IsFavourited {
		t.Errorf("owner user data = %+v", owner.UserData)
	}
	if owner.CreatedAt != "2015-09-01T12:00:00+00:00" {
		t.Errorf("created_at = %q", owner.CreatedAt)
	}
	if owner.User.URL != "https://music.example.com/ingram" {
		t.Errorf("user url = %q", owner.User.URL)
	}

	anon := p.Summary(d, model.Anonymous)
	if anon.Permissions.Edit || anon.Permissions.Delete {
		t.Error("anonymous viewer should have no permissions")
	}
	if anon.UserData.Stats.Views != 0 || anon.UserData.IsFavourited {
		t.Error("anonymous viewer should get empty user data")
	}

	other := p.Summary(d, model.Viewer{UserID: 9})
	if other.Permissions.Edit {
		t.Error("other users should not be allowed to edit")
	}
}

func TestPresenter_Show(t *testing.T) {
	sizes := fixedSizes{"FLAC": 3 << 20, "MP3": 1536, "OGG Vorbis": 0, "AAC": 1024, "ALAC": 2048}
	p := NewPresenter(URLBuilder{BaseURL: "https://music.example.com"}, sizes, "Album Catalog")

	show, err := p.Show(context.Background(), testData(), model.Anonymous)
	if err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	if !show.IsDownloadable {
		t.Error("album with a downloadable track should be downloadable")
	}
	if len(show.Tracks) != 2 || show.Tracks[1].TrackNumber != 2 {
		t.Errorf("tracks = %+v", show.Tracks)
	}
	if len(show.Formats) != len(model.Formats) {
		t.Fatalf("formats = %d, want %d", len(show.Formats), len(model.Formats))
	}

	mp3 := show.Formats[1]
	if mp3.Name != "MP3" || mp3.Size != "1.5 KB" || mp3.URL != "https://music.example.com/a7/dl.mp3" || mp3.IsCacheable {
		t.Errorf("MP3 format = %+v", mp3)
	}
	if show.Formats[2].Size != "0 MB" || !show.Formats[2].IsCacheable {
		t.Errorf("OGG format = %+v", show.Formats[2])
	}

	if show.Share.URL != "https://music.example.com/a7" {
		t.Errorf("share url = %q", show.Share.URL)
	}
	if !strings.Contains(show.Share.TumblrURL, "description=Season+one+%26+two") {
		t.Errorf("tumblr url = %q", show.Share.TumblrURL)
	}
	if !strings.HasSuffix(show.Share.TwitterURL, "text=Songs+of+Friendship+by+Daniel+Ingram+on+Album+Catalog") {
		t.Errorf("twitter url = %q", show.Share.TwitterURL)
	}

	raw, err := json.Marshal(show)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"track_count":2`, `"user_data":`, `"isCacheable":`, `"is_downloadable":true`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("JSON missing %s: %s", key, raw)
		}
	}
}

func TestPresenter_ShowSizeError(t *testing.T) {
	p := NewPresenter(URLBuilder{}, fixedSizes{"FLAC": 1}, "Album Catalog")

	if _, err := p.Show(context.Background(), testData(), model.Anonymous); err == nil {
		t.Error("Show() should fail when a size is unavailable")
	}
}

func TestAnnouncements(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []*model.Announcement{
		{ID: 1, Title: "Maintenance", Type: model.AnnouncementSeriousAlert, StartTime: &start},
	}

	got := Announcements(list)
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	a := got[0]
	if a.Type != "serious" {
		t.Errorf("type = %q", a.Type)
	}
	if a.StartTime == nil || *a.StartTime != "2016-01-01T00:00:00+00:00" {
		t.Errorf("start_time = %v", a.StartTime)
	}
	if a.EndTime != nil {
		t.Error("end_time should be null")
	}

	raw, _ := json.Marshal(a)
	if !strings.Contains(string(raw), `"links":[]`) || !strings.Contains(string(raw), `"tracks":[]`) {
		t.Errorf("empty lists should be arrays: %s", raw)
	}
}
