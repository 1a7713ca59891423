package model

import "errors"

var (
	ErrUnauthorized    = errors.New("authentication required")
	ErrForbidden       = errors.New("not the owner of this profile")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotFound        = errors.New("not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrProfileExists   = errors.New("user already has a profile")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidSection  = errors.New("unknown section")
	ErrInvalidOrder    = errors.New("order must list every existing item exactly once")
	ErrSectionsExist   = errors.New("sections already initialized")
	ErrInvalidPlatform = errors.New("unknown social platform")
	ErrValidation      = errors.New("validation failed")
	ErrLinkFetch       = errors.New("could not fetch link metadata")
	ErrInvalidMedia    = errors.New("invalid media")
)
