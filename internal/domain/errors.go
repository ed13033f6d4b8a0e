package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrInvalidKind indicates a tab name other than "video" or "audio"
	ErrInvalidKind = errors.New("invalid media kind")

	// ErrAlbumNotFound indicates the requested album is not in the catalog
	ErrAlbumNotFound = errors.New("album not found")

	// ErrInvalidRoute indicates a navigation path the router cannot read
	ErrInvalidRoute = errors.New("invalid route")

	// ErrStoreClosed indicates the key-value store was used after Close
	ErrStoreClosed = errors.New("store is closed")
)
