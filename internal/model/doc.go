// Package model defines the core data structures used throughout
// the album-catalog application.
//
// # Album
//
// Album is an ordered collection of tracks. It carries helpers for the
// names of its generated archives and its cache keys:
//
//	name, err := album.FilenameFor("FLAC") // "1042.flac.zip"
//	key := album.FilesizeCacheKey("FLAC")  // "album-1042-filesize-FLAC"
//
// # Track
//
// Track may belong to at most one album. Its AlbumID and TrackNumber are
// changed together through Attach and Detach:
//
//	track.Attach(album.ID, 1)
//	track.Detach()
//
// # Formats
//
// Formats lists the encodings every track is available in. LookupFormat
// rejects unknown names with ErrInvalidFormat.
//
// # Viewer
//
// Presentation code never reads a "current user" from ambient state; it
// receives a Viewer value instead. The zero Viewer is anonymous.
package model
