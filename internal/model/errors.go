package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrAlreadyJoined       = errors.New("connection has already joined")

	// Input errors
	ErrEmptyDisplayName = errors.New("display name is required")
	ErrEmptyWord        = errors.New("word cannot be empty")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
