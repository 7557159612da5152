package model

import "fmt"

// Format describes one of the audio encodings a track is transcoded into.
type Format struct {
	// Name is the user-facing key, e.g. "OGG Vorbis".
	Name string

	// Extension is the file extension without the leading dot.
	Extension string

	// MimeType is sent with downloads of this format.
	MimeType string

	// IsLossless is true for FLAC and ALAC.
	IsLossless bool

	// Cacheable formats are generated on demand and may be evicted, so
	// clients must be prepared for them to be temporarily unavailable.
	Cacheable bool
}

// Formats lists every supported encoding in display order.
var Formats = []Format{
	{Name: "FLAC", Extension: "flac", MimeType: "audio/flac", IsLossless: true},
	{Name: "MP3", Extension: "mp3", MimeType: "audio/mpeg"},
	{Name: "OGG Vorbis", Extension: "ogg", MimeType: "audio/ogg", Cacheable: true},
	{Name: "AAC", Extension: "m4a", MimeType: "audio/mp4", Cacheable: true},
	{Name: "ALAC", Extension: "alac.m4a", MimeType: "audio/mp4", IsLossless: true, Cacheable: true},
}

// LookupFormat returns the format registered under name.
//
// Returns an error wrapping ErrInvalidFormat for unknown names.
func LookupFormat(name string) (Format, error) {
	for _, f := range Formats {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
}

// FormatNames returns the names of all formats in display order.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.Name
	}
	return names
}
