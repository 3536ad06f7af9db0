package usecase

import (
	"fmt"
)

// ValidationError rejects a malformed request before any store access
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid reservation request: " + e.Reason
}

// DuplicateDocumentError rejects a request whose guest list collides with
// itself or with a registered guest. The message names the offending number.
type DuplicateDocumentError struct {
	DocumentNumber string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document %s is already registered", e.DocumentNumber)
}

// DateConflictError rejects a request whose interval overlaps an existing
// booking for the room
type DateConflictError struct {
	RoomID   string
	CheckIn  string
	CheckOut string
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("room %s is not available between %s and %s", e.RoomID, e.CheckIn, e.CheckOut)
}
