package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/handiism/album-catalog/internal/model"
)

type dirFiles struct{ dir string }

func (d dirFiles) Path(track *model.Track, f model.Format) string {
	return filepath.Join(d.dir, filepath.Base(track.Title)+"."+f.Extension)
}

type users map[int64]string

func (u users) User(_ context.Context, id int64) (*model.User, error) {
	name, ok := u[id]
	if !ok {
		return nil, errors.New("no such user")
	}
	return &model.User{ID: id, DisplayName: name}, nil
}

func writeFakeMP3(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}
}

func readTags(t *testing.T, path string) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tags: %v", err)
	}
	t.Cleanup(func() { tag.Close() })
	return tag
}

func TestRetagger_Attached(t *testing.T) {
	files := dirFiles{dir: t.TempDir()}
	published := time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC)
	album := &model.Album{ID: 3, UserID: 7, Title: "Season Two", PublishedAt: &published}
	track := &model.Track{ID: 11, UserID: 7, Title: "Hush Now", Lyrics: "Quiet now"}
	track.Attach(album.ID, 4)

	path := files.Path(track, testMP3(t))
	writeFakeMP3(t, path)

	r := NewRetagger(files, users{7: "Daniel Ingram"}, nil)
	if err := r.Retag(context.Background(), track, album); err != nil {
		t.Fatalf("Retag() error: %v", err)
	}

	tag := readTags(t, path)
	checks := map[string]string{
		"title":  tag.Title(),
		"album":  tag.Album(),
		"artist": tag.Artist(),
		"TRCK":   tag.GetTextFrame("TRCK").Text,
		"TPE2":   tag.GetTextFrame("TPE2").Text,
		"TYER":   tag.GetTextFrame("TYER").Text,
	}
	want := map[string]string{
		"title":  "Hush Now",
		"album":  "Season Two",
		"artist": "Daniel Ingram",
		"TRCK":   "4",
		"TPE2":   "Daniel Ingram",
		"TYER":   "2012",
	}
	for k, v := range want {
		if checks[k] != v {
			t.Errorf("%s = %q, want %q", k, checks[k], v)
		}
	}
}

func TestRetagger_Detached(t *testing.T) {
	files := dirFiles{dir: t.TempDir()}
	album := &model.Album{ID: 3, UserID: 7, Title: "Season Two"}
	track := &model.Track{ID: 11, UserID: 7, Title: "Hush Now"}
	track.Attach(album.ID, 2)

	path := files.Path(track, testMP3(t))
	writeFakeMP3(t, path)

	r := NewRetagger(files, nil, DefaultTagConfig())
	if err := r.Retag(context.Background(), track, album); err != nil {
		t.Fatalf("Retag() attached error: %v", err)
	}

	track.Detach()
	if err := r.Retag(context.Background(), track, nil); err != nil {
		t.Fatalf("Retag() detached error: %v", err)
	}

	tag := readTags(t, path)
	if tag.Album() != "" {
		t.Errorf("album = %q, want it removed", tag.Album())
	}
	if n := len(tag.GetFrames("TRCK")); n != 0 {
		t.Errorf("TRCK frames = %d, want 0", n)
	}
	if tag.Title() != "Hush Now" {
		t.Errorf("title = %q, want it kept", tag.Title())
	}
}

func TestRetagger_MissingFile(t *testing.T) {
	r := NewRetagger(dirFiles{dir: t.TempDir()}, nil, nil)
	track := &model.Track{ID: 1, Title: "Not Transcoded"}

	if err := r.Retag(context.Background(), track, nil); err != nil {
		t.Errorf("Retag() on missing file = %v, want nil", err)
	}
}

func TestRetagger_Disabled(t *testing.T) {
	files := dirFiles{dir: t.TempDir()}
	track := &model.Track{ID: 1, Title: "Untouched"}
	path := files.Path(track, testMP3(t))
	writeFakeMP3(t, path)

	r := NewRetagger(files, nil, &TagConfig{ModifyTags: false})
	if err := r.Retag(context.Background(), track, nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "not really audio" {
		t.Error("file should be unchanged when tagging is disabled")
	}
}

func TestParseTagEditAction(t *testing.T) {
	tests := map[string]TagEditAction{
		"empty":  TagEmpty,
		"keep":   TagDoNotModify,
		"modify": TagModify,
		"":       TagModify,
	}
	for in, want := range tests {
		if got := ParseTagEditAction(in); got != want {
			t.Errorf("ParseTagEditAction(%q) = %v, want %v", in, got, want)
		}
	}
}
