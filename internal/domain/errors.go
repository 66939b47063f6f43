// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrTrackNotFound is returned when a requested track cannot be found.
	ErrTrackNotFound = errors.New("track not found")

	// ErrArtistNotFound is returned when a requested artist cannot be found.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrNoArtwork is returned when a track carries no embedded artwork.
	ErrNoArtwork = errors.New("track has no artwork")

	// ErrAssetNotFound is returned when a bundled asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrMetadataUnavailable is returned when an asset has no readable tags.
	ErrMetadataUnavailable = errors.New("metadata unavailable")

	// ErrSeedFailed is returned when the catalog batch could not be written.
	ErrSeedFailed = errors.New("catalog seeding failed")

	// ErrQueueEmpty is returned when playback is requested with nothing queued.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrEndOfQueue is returned when trying to skip past the end of the queue.
	ErrEndOfQueue = errors.New("end of queue reached")

	// ErrStartOfQueue is returned when trying to skip before the start of the queue.
	ErrStartOfQueue = errors.New("start of queue reached")

	// ErrInvalidIndex is returned when a queue index is out of bounds.
	ErrInvalidIndex = errors.New("invalid queue index")

	// ErrInvalidPosition is returned when seeking to an invalid position.
	ErrInvalidPosition = errors.New("invalid playback position")

	// ErrNotConnected is returned when the playback engine is not connected.
	ErrNotConnected = errors.New("playback engine not connected")

	// ErrAlreadyStarted is returned when a component is started twice.
	ErrAlreadyStarted = errors.New("component already started")

	// ErrPlaybackFailed is returned when playback cannot be started.
	ErrPlaybackFailed = errors.New("playback failed")

	// ErrClosed is returned by components used after Close.
	ErrClosed = errors.New("component closed")
)

// PlaybackEngineError represents an error from the playback engine.
type PlaybackEngineError struct {
	Op      string // Operation that failed (e.g., "connect", "play", "seek")
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *PlaybackEngineError) Error() string {
	return fmt.Sprintf("playback engine %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *PlaybackEngineError) Unwrap() error {
	return e.Err
}

// NewPlaybackEngineError creates a new PlaybackEngineError.
func NewPlaybackEngineError(op, message string, err error) *PlaybackEngineError {
	return &PlaybackEngineError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "count", "insert_all", "get")
	Type    string // Repository type (e.g., "tracks", "preferences")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlayerService", "CatalogService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// SeedError is returned by the catalog seeder when the batch write fails.
// It matches ErrSeedFailed with errors.Is and unwraps to the store error.
type SeedError struct {
	Batch int   // Number of records in the failed batch
	Err   error // Underlying store error
}

// Error implements the error interface.
func (e *SeedError) Error() string {
	return fmt.Sprintf("%s: writing %d tracks: %v", ErrSeedFailed, e.Batch, e.Err)
}

// Unwrap returns both the sentinel and the store error.
func (e *SeedError) Unwrap() []error {
	return []error{ErrSeedFailed, e.Err}
}
