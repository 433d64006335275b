package services

import "errors"

// Service errors
var (
	ErrNegativeThreshold = errors.New("threshold must not be negative")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
