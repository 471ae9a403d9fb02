package domain

import "errors"

var (
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidRange     = errors.New("invalid time range")
)
