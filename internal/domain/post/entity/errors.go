package entity

import "errors"

var (
	ErrPostNotFound = errors.New("post record not found")
)
