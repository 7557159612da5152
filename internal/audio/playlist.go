package audio

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/album-catalog/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	// XML-based SMIL format.
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	// XML-based SMIL format with extended metadata.
	FormatZPL
)

// ParsePlaylistFormat maps "m3u", "pls", "wpl" and "zpl" to a format.
// Anything else is FormatM3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	switch strings.ToLower(s) {
	case "pls":
		return FormatPLS
	case "wpl":
		return FormatWPL
	case "zpl":
		return FormatZPL
	default:
		return FormatM3U
	}
}

// Extension returns the file extension for the format without the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return "pls"
	case FormatWPL:
		return "wpl"
	case FormatZPL:
		return "zpl"
	default:
		return "m3u"
	}
}

// Listing is an album's tracks in playing order, as they appear next to the
// playlist file.
type Listing struct {
	Album *model.Album

	// Artist is the album owner's display name.
	Artist string

	// Tracks are listed in order. Their entry names come from
	// model.Track.EntryName.
	Tracks []*model.Track

	// Format is the audio format the entries point at.
	Format model.Format
}

// PlaylistCreator renders a Listing as a playlist. Entries are bare entry
// names, so the playlist must sit next to the track files, as it does
// inside album archives.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(listing)
//	// #EXTM3U
//	// #EXTINF:180,Daniel Ingram - Winter Wrap Up
//	// 01 Winter Wrap Up.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // M3U only
}

// NewPlaylistCreator creates a PlaylistCreator. extended adds #EXTINF lines
// to M3U output and is ignored by the other formats.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist renders l in the creator's format.
func (p *PlaylistCreator) CreatePlaylist(l *Listing) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(l)
	case FormatWPL:
		return p.createWPL(l)
	case FormatZPL:
		return p.createZPL(l)
	default:
		return p.createM3U(l)
	}
}

// Format returns the creator's playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// createM3U writes one entry name per line. Extended playlists add an
// #EXTINF line with the duration in whole seconds and "Artist - Title".
func (p *PlaylistCreator) createM3U(l *Listing) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, track := range l.Tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", int(track.Duration), displayTitle(l.Artist, track.Title))
		}
		sb.WriteString(track.EntryName(l.Format))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// createPLS writes the INI style [playlist] section, version 2.
func (p *PlaylistCreator) createPLS(l *Listing) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, track := range l.Tracks {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", n, track.EntryName(l.Format))
		fmt.Fprintf(&sb, "Title%d=%s\n", n, track.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", n, int(track.Duration))
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\nVersion=2\n", len(l.Tracks))
	return sb.String()
}

// smil is the document shared by WPL and ZPL playlists.
type smil struct {
	XMLName xml.Name    `xml:"smil"`
	Head    smilHead    `xml:"head"`
	Media   []smilMedia `xml:"body>seq>media"`
}

type smilHead struct {
	Title string     `xml:"title"`
	Meta  []smilMeta `xml:"meta"`
}

type smilMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

// smilMedia carries the Zune attributes only in ZPL documents.
type smilMedia struct {
	Src         string `xml:"src,attr"`
	AlbumTitle  string `xml:"albumTitle,attr,omitempty"`
	AlbumArtist string `xml:"albumArtist,attr,omitempty"`
	TrackTitle  string `xml:"trackTitle,attr,omitempty"`
	TrackArtist string `xml:"trackArtist,attr,omitempty"`
	Duration    int64  `xml:"duration,attr,omitempty"`
}

func (p *PlaylistCreator) createWPL(l *Listing) string {
	return p.createSMIL(l, `<?wpl version="1.0"?>`, false)
}

// createZPL adds album, artist and millisecond duration attributes to every
// entry.
func (p *PlaylistCreator) createZPL(l *Listing) string {
	return p.createSMIL(l, `<?zpl version="2.0"?>`, true)
}

func (p *PlaylistCreator) createSMIL(l *Listing, header string, zune bool) string {
	doc := smil{Head: smilHead{Title: l.Album.Title}}
	if zune {
		doc.Head.Meta = []smilMeta{
			{Name: "Generator", Content: "album-catalog"},
			{Name: "ItemCount", Content: strconv.Itoa(len(l.Tracks))},
		}
	}

	for _, track := range l.Tracks {
		m := smilMedia{Src: track.EntryName(l.Format)}
		if zune {
			m.AlbumTitle = l.Album.Title
			m.AlbumArtist = l.Artist
			m.TrackTitle = track.Title
			m.TrackArtist = l.Artist
			m.Duration = time.Duration(track.Duration * float64(time.Second)).Milliseconds()
		}
		doc.Media = append(doc.Media, m)
	}

	// Marshal cannot fail on these types.
	out, _ := xml.MarshalIndent(doc, "", "  ")
	return header + "\n" + string(out) + "\n"
}

func displayTitle(artist, title string) string {
	if artist == "" {
		return title
	}
	return artist + " - " + title
}
