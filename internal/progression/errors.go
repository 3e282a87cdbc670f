package progression

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a progression failure. Callers branch on
// the code, never on the message.
type Code string

const (
	CodeNoActiveStage         Code = "NO_ACTIVE_STAGE"
	CodeInvalidActiveDayCount Code = "INVALID_ACTIVE_DAY_COUNT"
	CodeDayStageMismatch      Code = "DAY_STAGE_MISMATCH"
	CodeStageOrderViolation   Code = "STAGE_ORDER_VIOLATION"
	CodeUnknownStageKind      Code = "UNKNOWN_STAGE_KIND"
	CodePreconditionFailed    Code = "PRECONDITION_FAILED"
	CodeTransactionFailed     Code = "TRANSACTION_FAILED"
)

// Error is a coded progression failure. All codes are fatal for the call
// that produced them; there is no partial result.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a coded error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying cause.
func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
