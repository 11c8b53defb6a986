package errors

import (
	"context"
	"errors"
)

// metaReason is the metadata key holding a machine-readable reason
const metaReason = "reason"

// As is errors.As narrowed to *Error
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is re-exports errors.Is so callers need one errors import
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// WithReason tags the error with a machine-readable reason
func (e *Error) WithReason(reason string) *Error {
	return e.WithMeta(metaReason, reason)
}

func find(err error) *Error {
	var e *Error
	if err != nil && errors.As(err, &e) {
		return e
	}
	return nil
}

// GetCode returns the code of the outermost *Error in the chain. A bare
// context cancellation maps to Canceled and anything else to Internal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e := find(err); e != nil {
		return e.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCanceled
	}
	return CodeInternal
}

// GetMeta returns the metadata of the outermost *Error, or nil
func GetMeta(err error) map[string]any {
	if e := find(err); e != nil {
		return e.Meta
	}
	return nil
}

// GetMessage returns the operator-facing message without code or cause
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := find(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// GetReason returns the reason tag, or "" if none
func GetReason(err error) string {
	reason, _ := GetMeta(err)[metaReason].(string)
	return reason
}

// HasReason reports whether the error carries the given reason
func HasReason(err error, reason string) bool {
	return err != nil && GetReason(err) == reason
}

// IsNotFound reports a NotFound code
func IsNotFound(err error) bool { return GetCode(err) == CodeNotFound }

// IsInvalidArgument reports an InvalidArgument code
func IsInvalidArgument(err error) bool { return GetCode(err) == CodeInvalidArgument }

// IsUnavailable reports an Unavailable code
func IsUnavailable(err error) bool { return GetCode(err) == CodeUnavailable }

// IsResourceExhausted reports a ResourceExhausted code
func IsResourceExhausted(err error) bool { return GetCode(err) == CodeResourceExhausted }

// IsFailedPrecondition reports a FailedPrecondition code
func IsFailedPrecondition(err error) bool { return GetCode(err) == CodeFailedPrecondition }

// IsOutOfRange reports an OutOfRange code
func IsOutOfRange(err error) bool { return GetCode(err) == CodeOutOfRange }

// IsDataLoss reports a DataLoss code
func IsDataLoss(err error) bool { return GetCode(err) == CodeDataLoss }

// IsCanceled reports a Canceled code, including a bare context error
func IsCanceled(err error) bool { return GetCode(err) == CodeCanceled }
