package reservation

import (
	"errors"
	"fmt"
)

// Stable machine-readable error codes surfaced to clients.
const (
	CodeSlotUnavailable    = "SLOT_UNAVAILABLE"
	CodeHoldNotFound       = "HOLD_NOT_FOUND"
	CodeHoldExpired        = "HOLD_EXPIRED"
	CodeHoldOwnerMismatch  = "HOLD_OWNER_MISMATCH"
	CodeSlotMismatch       = "SLOT_MISMATCH"
	CodeValidation         = "VALIDATION_ERROR"
	CodeTransientStore     = "TRANSIENT_STORE_ERROR"
	CodeBookingNotFound    = "BOOKING_NOT_FOUND"
	CodeInvoiceNotReady    = "INVOICE_NOT_READY"
)

// Error carries a stable code plus a human-readable message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the machine-readable code from an error, or empty string
// if the error is not a reservation error.
func CodeOf(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsCode reports whether err is a reservation error with the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
