package services

import "errors"

// Dashboard service errors
var (
	// Chart errors
	ErrUnknownChart = errors.New("unknown chart")

	// Export errors
	ErrUnknownFormat = errors.New("unknown export format")

	// Source errors
	ErrNoSource = errors.New("no data source configured")
)
