package model

import "errors"

var (
	// ErrAlbumNotFound is returned when an album ID does not resolve.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrUserNotFound is returned when a user ID does not resolve.
	ErrUserNotFound = errors.New("user not found")

	// ErrTrackNotFound is returned when a track ID does not resolve.
	ErrTrackNotFound = errors.New("track not found")

	// ErrInvalidFormat is returned for an unknown format key.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrTrackFileNotFound is returned by file stores when a track has no
	// file in the requested format.
	ErrTrackFileNotFound = errors.New("track file not found")

	// ErrDuplicateTrack is returned when a desired track list names the
	// same track more than once.
	ErrDuplicateTrack = errors.New("duplicate track in track list")
)
