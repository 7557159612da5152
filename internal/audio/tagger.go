package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/bogem/id3v2"
	"github.com/handiism/album-catalog/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the catalog.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// ParseTagEditAction maps "empty", "modify" and "keep" to their actions.
// Anything else is TagModify.
func ParseTagEditAction(s string) TagEditAction {
	switch s {
	case "empty":
		return TagEmpty
	case "keep":
		return TagDoNotModify
	default:
		return TagModify
	}
}

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,      // uploader's display name
//	    Album:       TagModify,      // album title, removed when detached
//	    TrackNumber: TagModify,      // position, removed when detached
//	    Comments:    TagEmpty,       // clear any existing comments
//	    AlbumArtist: TagDoNotModify, // keep existing album artist
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, Retag does nothing.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Year controls the TYER (Year) frame.
	Year TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Lyrics controls the USLT (Unsynchronized lyrics) frame.
	Lyrics TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// By default every tag is set to TagModify except comments, which are
// cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Year:        TagModify,
		TrackNumber: TagModify,
		TrackTitle:  TagModify,
		Lyrics:      TagModify,
		Comments:    TagEmpty,
	}
}

// PathResolver locates a track's local file. storage.LocalStore implements
// it.
type PathResolver interface {
	Path(track *model.Track, format model.Format) string
}

// UserLookup resolves display names for the artist frames.
type UserLookup interface {
	User(ctx context.Context, id int64) (*model.User, error)
}

// Retagger rewrites the ID3 tags of a track's MP3 file so they match the
// track's album and position.
//
// Retagger implements catalog.Retagger. A track that has no MP3 file yet is
// skipped without error.
//
// Example:
//
//	retagger := NewRetagger(localStore, store, DefaultTagConfig())
//	err := retagger.Retag(ctx, track, album) // album is nil for detached tracks
type Retagger struct {
	files  PathResolver
	users  UserLookup
	config *TagConfig
	mp3    model.Format
}

// NewRetagger creates a Retagger. users may be nil, in which case the artist
// frames are left unchanged. If config is nil, DefaultTagConfig() is used.
func NewRetagger(files PathResolver, users UserLookup, config *TagConfig) *Retagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	mp3, err := model.LookupFormat("MP3")
	if err != nil {
		panic(err)
	}
	return &Retagger{files: files, users: users, config: config, mp3: mp3}
}

// Retag writes the tags for track as a member of album.
//
// This method:
//  1. Opens the track's MP3 file, skipping tracks without one
//  2. Updates text frames based on TagConfig settings
//  3. Removes album frames when album is nil
//  4. Saves the modified tags to the file
func (r *Retagger) Retag(ctx context.Context, track *model.Track, album *model.Album) error {
	if !r.config.ModifyTags {
		return nil
	}

	path := r.files.Path(track, r.mp3)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags of %s: %w", path, err)
	}
	defer tag.Close()

	names := r.artistNames(ctx, track, album)
	r.updateStringTags(tag, track, album, names)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags of %s: %w", path, err)
	}
	return nil
}

type artistNames struct {
	artist      string
	albumArtist string
}

// artistNames looks up the track's uploader and the album's owner. Lookup
// failures leave the names empty, which keeps the existing frames.
func (r *Retagger) artistNames(ctx context.Context, track *model.Track, album *model.Album) artistNames {
	var n artistNames
	if r.users == nil {
		return n
	}

	if u, err := r.users.User(ctx, track.UserID); err == nil {
		n.artist = u.DisplayName
	}
	if album == nil {
		return n
	}
	if album.UserID == track.UserID {
		n.albumArtist = n.artist
	} else if u, err := r.users.User(ctx, album.UserID); err == nil {
		n.albumArtist = u.DisplayName
	}
	return n
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (r *Retagger) updateStringTags(tag *id3v2.Tag, track *model.Track, album *model.Album, names artistNames) {
	cfg := r.config

	// Artist (TPE1)
	switch cfg.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		if names.artist != "" {
			tag.SetArtist(names.artist)
		}
	}

	// Track Title (TIT2)
	switch cfg.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Title)
	}

	// Album (TALB)
	switch {
	case cfg.Album == TagEmpty, cfg.Album == TagModify && album == nil:
		tag.DeleteFrames("TALB")
	case cfg.Album == TagModify:
		tag.SetAlbum(album.Title)
	}

	// Album Artist (TPE2)
	switch {
	case cfg.AlbumArtist == TagEmpty, cfg.AlbumArtist == TagModify && album == nil:
		tag.DeleteFrames("TPE2")
	case cfg.AlbumArtist == TagModify && names.albumArtist != "":
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, names.albumArtist)
	}

	// Track Number (TRCK)
	switch {
	case cfg.TrackNumber == TagEmpty, cfg.TrackNumber == TagModify && !track.InAlbum():
		tag.DeleteFrames("TRCK")
	case cfg.TrackNumber == TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(track.Position()))
	}

	// Year (TYER)
	switch {
	case cfg.Year == TagEmpty:
		tag.DeleteFrames("TYER")
	case cfg.Year == TagModify && album != nil && album.PublishedAt != nil:
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, album.PublishedAt.Format("2006"))
	}

	// Lyrics (USLT)
	switch cfg.Lyrics {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	case TagModify:
		if track.Lyrics != "" {
			tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
			tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding:          id3v2.EncodingUTF8,
				Language:          "eng",
				ContentDescriptor: "",
				Lyrics:            track.Lyrics,
			})
		}
	}

	// Comments (COMM)
	if cfg.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}
