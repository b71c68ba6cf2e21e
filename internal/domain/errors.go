package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a core failure so the transport layer can map it
// without knowing every individual reason.
type ErrorKind string

const (
	KindInternal   ErrorKind = "internal"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindState      ErrorKind = "state"
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
)

// Error is a classified, user-presentable failure.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches on Code, so a copy carrying a more specific message still
// satisfies errors.Is against its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) withMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidRange        = newError(KindValidation, "INVALID_RANGE", `The "from" date must be earlier than or equal to the "to" date.`)
	ErrNonPositiveDuration = newError(KindValidation, "INVALID_DURATION", "Service duration must be positive.")
	ErrStartInPast         = newError(KindValidation, "START_IN_PAST", "Cannot book a slot in the past.")
	ErrStartMisaligned     = newError(KindValidation, "START_MISALIGNED", "Start time must align to 30-minute increments.")
	ErrDurationMisaligned  = newError(KindValidation, "DURATION_MISALIGNED", "Duration must be a multiple of 30 minutes.")
	ErrInvalidDate         = newError(KindValidation, "INVALID_DATE", "Invalid date format. Expected YYYY-MM-DD.")
	ErrInvalidDateTime     = newError(KindValidation, "INVALID_DATETIME", "Invalid datetime format. Use ISO 8601.")

	// Hold conflicts.
	ErrSlotReserved = newError(KindConflict, "SLOT_RESERVED", "Slot already reserved.")
	ErrSlotTaken    = newError(KindConflict, "SLOT_TAKEN", "Slot already booked.")

	// Booking conflicts.
	ErrSlotBooked = newError(KindConflict, "SLOT_BOOKED", "Slot already booked.")
	ErrSlotHeld   = newError(KindConflict, "SLOT_HELD", "Slot is currently reserved.")

	ErrHoldExpired      = newError(KindState, "HOLD_EXPIRED", "Reservation has expired.")
	ErrHoldNotOwned     = newError(KindState, "HOLD_NOT_OWNED", "Reservation does not belong to you.")
	ErrAlreadyCancelled = newError(KindState, "ALREADY_CANCELLED", "Booking is already cancelled.")

	ErrAccessDenied         = newError(KindForbidden, "FORBIDDEN", "Access denied.")
	ErrForeignProvider      = newError(KindForbidden, "FOREIGN_PROVIDER", "You can only act on your assigned provider.")
	ErrProviderRoleRequired = newError(KindForbidden, "PROVIDER_ROLE_REQUIRED", "Provider role required.")
	ErrNoAssignedProvider   = newError(KindForbidden, "NO_ASSIGNED_PROVIDER", "You are not assigned to a provider.")

	ErrProviderNotFound = newError(KindNotFound, "PROVIDER_NOT_FOUND", "Provider not found.")
	ErrServiceNotFound  = newError(KindNotFound, "SERVICE_NOT_FOUND", "Service not found.")
	ErrHoldNotFound     = newError(KindNotFound, "HOLD_NOT_FOUND", "Reservation not found.")
	ErrBookingNotFound  = newError(KindNotFound, "BOOKING_NOT_FOUND", "Booking not found.")

	ErrServiceInUse = newError(KindConflict, "SERVICE_IN_USE", "Service has bookings and cannot be deleted.")
)

// KindOf returns the classification of err, or KindInternal for anything
// that is not a *Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
