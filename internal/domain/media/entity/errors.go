package entity

import "errors"

// Domain errors for media acquisition and normalization
var (
	ErrUnreachable       = errors.New("remote media could not be downloaded")
	ErrEmptyOrTooSmall   = errors.New("media body is empty or implausibly small")
	ErrUnrecognizedImage = errors.New("cannot identify image file")
	ErrNoMedia           = errors.New("request carries neither bytes nor a URL")
)
