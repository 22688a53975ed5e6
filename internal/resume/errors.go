package resume

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError indicates a malformed or rejected resume payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NotFoundError indicates the resume does not exist or belongs to another user.
// The two cases are deliberately indistinguishable.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	if e.ID == uuid.Nil {
		return "resume not found"
	}
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// StorageError wraps a persistence failure.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// AssetDeletionWarning records an asset that could not be removed after its
// resume was deleted. It is reported, never returned as a failure.
type AssetDeletionWarning struct {
	Ref   string
	Cause error
}

func (w AssetDeletionWarning) String() string {
	return fmt.Sprintf("failed to delete asset %s: %v", w.Ref, w.Cause)
}
