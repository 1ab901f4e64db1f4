package entity

import "errors"

// Domain errors for publishing
var (
	ErrInvalidPlatform        = errors.New("invalid platform")
	ErrNoTargets              = errors.New("no publish targets resolved")
	ErrNoStrategies           = errors.New("no applicable publishing strategies")
	ErrMissingTargetID        = errors.New("target id is required")
	ErrMissingToken           = errors.New("access token is required")
	ErrEmptyCaptionAndNoMedia = errors.New("request carries neither caption nor media")
)
