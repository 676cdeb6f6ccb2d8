// Package fault defines the typed error the rest of the engine reports
// contract violations and recoverable runtime conditions through, mirroring
// the sync-rule engine's RuntimeError/RuntimeErrorCode pattern.
package fault

import (
	"errors"
	"fmt"
)

// Code categorizes a Fault. Every row in the error-handling table this
// engine follows has a corresponding Code.
type Code string

const (
	// ConfigAfterActivation: a Property Type setter was called after the
	// type was activated. The config is left unchanged; this is reported,
	// not silently swallowed.
	ConfigAfterActivation Code = "CONFIG_AFTER_ACTIVATION"

	// TypeMismatch: an operation was given a Typed Value of the wrong kind.
	TypeMismatch Code = "TYPE_MISMATCH"

	// BitstreamExhausted: deserialize ran out of bits mid-payload. The
	// whole update is discarded; no partial state is applied.
	BitstreamExhausted Code = "BITSTREAM_EXHAUSTED"

	// EmptyValue: a getter or conversion produced no usable value.
	EmptyValue Code = "EMPTY_VALUE"

	// NonMonotonicTimestamp: an incoming update's timestamp did not advance
	// the peer's observed clock.
	NonMonotonicTimestamp Code = "NON_MONOTONIC_TIMESTAMP"

	// DuplicateSchedule: a property already present in the scheduler's
	// index was scheduled again without first being unscheduled.
	DuplicateSchedule Code = "DUPLICATE_SCHEDULE"
)

// Fault is the error type every package in this module returns for the
// conditions above instead of a bare errors.New or a panic.
type Fault struct {
	Code    Code
	Message string
	Details map[string]string
}

func (f *Fault) Error() string {
	if len(f.Details) == 0 {
		return fmt.Sprintf("%s: %s", f.Code, f.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", f.Code, f.Message, f.Details)
}

// New constructs a Fault with the given code and message.
func New(code Code, message string, details map[string]string) *Fault {
	return &Fault{Code: code, Message: message, Details: details}
}

// Is reports whether err is a Fault with the given code, unwrapping
// through errors.As so wrapped faults still match.
func Is(err error, code Code) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}
