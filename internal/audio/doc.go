// Package audio provides audio file manipulation services including
// ID3 tag rewriting and playlist generation.
//
// # ID3 Tagging
//
// Use the Retagger to keep a track's embedded tags in line with its album
// and position. It implements catalog.Retagger:
//
//	retagger := audio.NewRetagger(localStore, store, audio.DefaultTagConfig())
//	err := retagger.Retag(ctx, track, album)
//
// The retagger writes:
//   - Artist, Album Artist
//   - Album Title, Track Title
//   - Track Number, Year
//   - Lyrics
//
// Detached tracks lose their album, album artist and track number frames.
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(&audio.Listing{
//	    Album:  album,
//	    Artist: owner.DisplayName,
//	    Tracks: tracks,
//	    Format: mp3,
//	})
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
