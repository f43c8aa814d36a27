package errors

import "net/http"

// Domain-specific errors for the reservation engine. Each var maps
// 1:1 onto an error kind of spec §7; components compare with
// errors.Is(err, errors.ErrInvalidTransition) rather than string codes.

// ErrNotFound — the referenced booking/room/hotel does not exist.
var ErrNotFound = &Error{
	Code:       "NOT_FOUND",
	Message:    "resource not found",
	HTTPStatus: http.StatusNotFound,
}

// ErrInvalidTransition — (from,to) is not a legal edge in the booking
// state machine.
var ErrInvalidTransition = &Error{
	Code:       "INVALID_TRANSITION",
	Message:    "transition is not a legal edge",
	HTTPStatus: http.StatusConflict,
}

// ErrValidationFailed — a target guard rejected the transition
// (reason length, availability gone, room not AVAILABLE, timing
// window, missing assignments).
var ErrValidationFailed = &Error{
	Code:       "VALIDATION_FAILED",
	Message:    "transition guard rejected the request",
	HTTPStatus: http.StatusUnprocessableEntity,
}

// ErrUnauthorized — the actor lacks the role or ownership required by
// this edge.
var ErrUnauthorized = &Error{
	Code:       "UNAUTHORIZED",
	Message:    "actor is not permitted to perform this transition",
	HTTPStatus: http.StatusForbidden,
}

// ErrBusy — another transition holds the booking lock past the
// configured timeout.
var ErrBusy = &Error{
	Code:       "BUSY",
	Message:    "booking has an in-flight transition",
	HTTPStatus: http.StatusConflict,
}

// ErrConflict — lost an optimistic-concurrency compare-and-set on room
// assignment.
var ErrConflict = &Error{
	Code:       "CONFLICT",
	Message:    "concurrent update conflict",
	HTTPStatus: http.StatusConflict,
}

// ErrExpired — the caller's deadline elapsed before the atomic commit
// (step 7 of the executor).
var ErrExpired = &Error{
	Code:       "EXPIRED",
	Message:    "request deadline elapsed before commit",
	HTTPStatus: http.StatusGatewayTimeout,
}

// ErrInternal — persistence or bus infrastructure failure.
var ErrInternal = &Error{
	Code:       "INTERNAL",
	Message:    "internal error",
	HTTPStatus: http.StatusInternalServerError,
}
