package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "FC-REC-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Record Errors (REC)
// ============================================================================

var (
	// ErrRecordNotFound indicates the referenced record id is absent.
	ErrRecordNotFound = NewDomainError("FC-REC-4040", "record not found")

	// ErrDuplicateID indicates an insert collided with an existing id.
	ErrDuplicateID = NewDomainError("FC-REC-4090", "record id already exists")

	// ErrRecordValidation indicates record fields failed a validation rule.
	ErrRecordValidation = NewDomainError("FC-REC-4001", "record validation failed")

	// ErrMalformedRecord indicates a decoded record has the wrong shape.
	ErrMalformedRecord = NewDomainError("FC-REC-4002", "malformed record")
)

// ============================================================================
// Snapshot Errors (SNAP)
// ============================================================================

var (
	// ErrSnapshotNotFound indicates the requested snapshot archive does not exist.
	ErrSnapshotNotFound = NewDomainError("FC-SNAP-4040", "snapshot not found")

	// ErrUnsupportedFormat indicates an unknown exchange format was requested.
	ErrUnsupportedFormat = NewDomainError("FC-SNAP-4000", "unsupported snapshot format")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("FC-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("FC-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("FC-SYS-4290", "too many requests")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("FC-ARG-1001", "invalid argument")
)

// ============================================================================
// Structured errors
// ============================================================================

// ValidationError reports the first rule a record field failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Unwrap lets errors.Is match ErrRecordValidation.
func (e *ValidationError) Unwrap() error {
	return ErrRecordValidation
}

// NotFoundError reports an update or remove against an absent id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record #%d is not found", e.ID)
}

// Unwrap lets errors.Is match ErrRecordNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// DuplicateIDError reports an insert-with-id collision.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("record #%d already exists", e.ID)
}

// Unwrap lets errors.Is match ErrDuplicateID.
func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// StructuralError reports a decoded record that could not be turned into fields.
// Line is the 1-based position of the record in its source, or 0 if unknown.
type StructuralError struct {
	Line   int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Reason)
	}
	return "malformed record: " + e.Reason
}

// Unwrap lets errors.Is match ErrMalformedRecord.
func (e *StructuralError) Unwrap() error {
	return ErrMalformedRecord
}
