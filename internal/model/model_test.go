package model

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file_with_colons.mp3"},
		{"file<with>brackets.mp3", "file_with_brackets.mp3"},
		{"file/with\\slashes.mp3", "file_with_slashes.mp3"},
		{"file|with|pipes.mp3", "file_with_pipes.mp3"},
		{"file?with*wildcards.mp3", "file_with_wildcards.mp3"},
		{"file\"with\"quotes.mp3", "file_with_quotes.mp3"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAlbum_FilenameFor(t *testing.T) {
	album := &Album{ID: 1042}

	tests := []struct {
		format string
		want   string
	}{
		{"FLAC", "1042.flac.zip"},
		{"MP3", "1042.mp3.zip"},
		{"OGG Vorbis", "1042.ogg.zip"},
		{"AAC", "1042.m4a.zip"},
		{"ALAC", "1042.alac.m4a.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := album.FilenameFor(tt.format)
			if err != nil {
				t.Fatalf("FilenameFor(%q) error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("FilenameFor(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestAlbum_FilenameForInvalidFormat(t *testing.T) {
	album := &Album{ID: 1}

	_, err := album.FilenameFor("WAV")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("FilenameFor(WAV) error = %v, want ErrInvalidFormat", err)
	}
}

func TestAlbum_Directory(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{7, filepath.Join("/files", "tracks", "0")},
		{100, filepath.Join("/files", "tracks", "100")},
		{1042, filepath.Join("/files", "tracks", "1000")},
	}

	for _, tt := range tests {
		album := &Album{ID: tt.id}
		if got := album.Directory("/files"); got != tt.want {
			t.Errorf("Directory() for %d = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestAlbum_CacheKeys(t *testing.T) {
	album := &Album{ID: 9}

	if got := album.CacheKey("views"); got != "album-9-views" {
		t.Errorf("CacheKey() = %q", got)
	}
	if got := album.FilesizeCacheKey("MP3"); got != "album-9-filesize-MP3" {
		t.Errorf("FilesizeCacheKey() = %q", got)
	}
}

func TestTrack_AttachDetach(t *testing.T) {
	track := &Track{ID: 1, Title: "Winter Wrap Up"}

	if track.InAlbum() || track.Position() != 0 {
		t.Fatal("new track should be detached")
	}

	track.Attach(5, 3)
	if !track.BelongsTo(5) {
		t.Error("BelongsTo(5) should be true after Attach")
	}
	if track.BelongsTo(6) {
		t.Error("BelongsTo(6) should be false")
	}
	if track.Position() != 3 {
		t.Errorf("Position() = %d, want 3", track.Position())
	}

	track.Detach()
	if track.AlbumID != nil || track.TrackNumber != nil {
		t.Error("Detach should clear both AlbumID and TrackNumber")
	}
}

func TestTrack_EntryName(t *testing.T) {
	mp3, _ := LookupFormat("MP3")

	track := &Track{ID: 1, Title: "Art of the Dress: Reprise"}
	if got := track.EntryName(mp3); got != "Art of the Dress_ Reprise.mp3" {
		t.Errorf("EntryName() detached = %q", got)
	}

	track.Attach(1, 4)
	if got := track.EntryName(mp3); got != "04 Art of the Dress_ Reprise.mp3" {
		t.Errorf("EntryName() attached = %q", got)
	}
}

func TestFormatNames(t *testing.T) {
	names := FormatNames()
	if len(names) != len(Formats) {
		t.Fatalf("FormatNames() returned %d names, want %d", len(names), len(Formats))
	}
	if names[0] != "FLAC" {
		t.Errorf("first format = %q, want FLAC", names[0])
	}
}

func TestViewer(t *testing.T) {
	album := &Album{ID: 1, UserID: 42}

	if Anonymous.Authenticated() {
		t.Error("anonymous viewer should not be authenticated")
	}
	if Anonymous.Owns(album) {
		t.Error("anonymous viewer should not own albums")
	}
	if !(Viewer{UserID: 42}).Owns(album) {
		t.Error("owner should own album")
	}
	if (Viewer{UserID: 7}).Owns(album) {
		t.Error("other user should not own album")
	}
}

func TestAnnouncement_ActiveAt(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)
	a := &Announcement{StartTime: &start, EndTime: &end}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before", start.Add(-time.Hour), false},
		{"at start", start, true},
		{"inside", start.Add(24 * time.Hour), true},
		{"at end", end, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.ActiveAt(tt.at); got != tt.want {
				t.Errorf("ActiveAt() = %v, want %v", got, tt.want)
			}
		})
	}

	open := &Announcement{}
	if !open.ActiveAt(start) {
		t.Error("announcement without bounds should always be active")
	}
}

func TestAnnouncementType_String(t *testing.T) {
	if AnnouncementSeriousAlert.String() != "serious" {
		t.Errorf("String() = %q", AnnouncementSeriousAlert.String())
	}
	if AnnouncementType(99).String() != "generic" {
		t.Errorf("unknown type should fall back to generic")
	}
}
