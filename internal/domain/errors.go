package domain

import (
	"errors"
	"fmt"
)

// ErrorCategory groups error kinds by how a client should react to them
type ErrorCategory string

const (
	// CategoryValidation the request can be corrected by the client
	CategoryValidation ErrorCategory = "validation"
	// CategoryConcurrency the request lost a race and may be retried
	CategoryConcurrency ErrorCategory = "concurrency"
	// CategoryNotFound a referenced entity does not exist
	CategoryNotFound ErrorCategory = "not_found"
)

// ErrorKind is a stable machine-readable error identifier
type ErrorKind string

const (
	KindSlotUnavailable       ErrorKind = "SlotUnavailable"
	KindCrossDayBooking       ErrorKind = "CrossDayBooking"
	KindSlotCountMismatch     ErrorKind = "SlotCountMismatch"
	KindNonContiguousSlots    ErrorKind = "NonContiguousSlots"
	KindExceedsOperatingHours ErrorKind = "ExceedsOperatingHours"
	KindServiceSalonMismatch  ErrorKind = "ServiceSalonMismatch"
	KindInvalidWindow         ErrorKind = "InvalidWindow"
	KindInvalidGranularity    ErrorKind = "InvalidGranularity"
	KindInvalidTransition     ErrorKind = "InvalidTransition"
	KindInvalidInput          ErrorKind = "InvalidInput"

	KindConcurrentReservationConflict ErrorKind = "ConcurrentReservationConflict"
	KindSlotConflict                  ErrorKind = "SlotConflict"

	KindSalonNotFound       ErrorKind = "SalonNotFound"
	KindServiceNotFound     ErrorKind = "ServiceNotFound"
	KindAppointmentNotFound ErrorKind = "AppointmentNotFound"
	KindRuleNotFound        ErrorKind = "OperatingRuleNotFound"
)

// Error is a scheduling error with a kind and a category.
// Two errors match with errors.Is when their kinds are equal, so the
// sentinels below can be compared against errors carrying a message.
type Error struct {
	Kind     ErrorKind
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable returns true if the operation may succeed when repeated
func (e *Error) Retryable() bool {
	return e.Category == CategoryConcurrency
}

// Wrap returns a copy of the sentinel carrying a formatted message
func (e *Error) Wrap(format string, args ...interface{}) *Error {
	return &Error{
		Kind:     e.Kind,
		Category: e.Category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithCause returns a copy of the sentinel wrapping the underlying error
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Kind:     e.Kind,
		Category: e.Category,
		Message:  e.Message,
		Err:      err,
	}
}

// Validation errors
var (
	ErrSlotUnavailable       = &Error{Kind: KindSlotUnavailable, Category: CategoryValidation}
	ErrCrossDayBooking       = &Error{Kind: KindCrossDayBooking, Category: CategoryValidation}
	ErrSlotCountMismatch     = &Error{Kind: KindSlotCountMismatch, Category: CategoryValidation}
	ErrNonContiguousSlots    = &Error{Kind: KindNonContiguousSlots, Category: CategoryValidation}
	ErrExceedsOperatingHours = &Error{Kind: KindExceedsOperatingHours, Category: CategoryValidation}
	ErrServiceSalonMismatch  = &Error{Kind: KindServiceSalonMismatch, Category: CategoryValidation}
	ErrInvalidWindow         = &Error{Kind: KindInvalidWindow, Category: CategoryValidation}
	ErrInvalidGranularity    = &Error{Kind: KindInvalidGranularity, Category: CategoryValidation}
	ErrInvalidTransition     = &Error{Kind: KindInvalidTransition, Category: CategoryValidation}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput, Category: CategoryValidation}
)

// Concurrency errors
var (
	ErrConcurrentReservationConflict = &Error{Kind: KindConcurrentReservationConflict, Category: CategoryConcurrency}
	ErrSlotConflict                  = &Error{Kind: KindSlotConflict, Category: CategoryConcurrency}
)

// Not found errors
var (
	ErrSalonNotFound       = &Error{Kind: KindSalonNotFound, Category: CategoryNotFound}
	ErrServiceNotFound     = &Error{Kind: KindServiceNotFound, Category: CategoryNotFound}
	ErrAppointmentNotFound = &Error{Kind: KindAppointmentNotFound, Category: CategoryNotFound}
	ErrRuleNotFound        = &Error{Kind: KindRuleNotFound, Category: CategoryNotFound}
)

// AsError extracts a domain error from the chain
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsValidation returns true for client-correctable errors
func IsValidation(err error) bool {
	de, ok := AsError(err)
	return ok && de.Category == CategoryValidation
}

// IsRetryable returns true for errors caused by a lost race
func IsRetryable(err error) bool {
	de, ok := AsError(err)
	return ok && de.Retryable()
}

// IsNotFound returns true when a referenced entity is missing
func IsNotFound(err error) bool {
	de, ok := AsError(err)
	return ok && de.Category == CategoryNotFound
}
