package graft

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidBinding
	ErrCodeInvalidName
	ErrCodeNoBinding
	ErrCodeResolutionFailed
	ErrCodeProviderFailed
	ErrCodeCircularDependency
	ErrCodeMissingParameter
	ErrCodeNameNotFound
	ErrCodeDiscoveryFailed
	ErrCodeStartupFailed
	ErrCodeShutdownFailed
	ErrCodeHealthCheckFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeInvalidBinding:     "INVALID_BINDING",
	ErrCodeInvalidName:        "INVALID_NAME",
	ErrCodeNoBinding:          "NO_BINDING",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeProviderFailed:     "PROVIDER_FAILED",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeMissingParameter:   "MISSING_PARAMETER",
	ErrCodeNameNotFound:       "NAME_NOT_FOUND",
	ErrCodeDiscoveryFailed:    "DISCOVERY_FAILED",
	ErrCodeStartupFailed:      "STARTUP_FAILED",
	ErrCodeShutdownFailed:     "SHUTDOWN_FAILED",
	ErrCodeHealthCheckFailed:  "HEALTH_CHECK_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type returned by registration and resolution
// operations. Code identifies the failure class, Key the binding involved,
// and Chain the resolution path when one was in flight.
type Error struct {
	Code    ErrorCode
	Message string
	Key     string
	Cause   error
	Chain   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Key != "" {
		b.WriteString(fmt.Sprintf(" key=%s:", e.Key))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errInvalidBinding(message string) *Error {
	return newError(ErrCodeInvalidBinding, message, nil)
}

func errInvalidName(message string) *Error {
	return newError(ErrCodeInvalidName, message, nil)
}

func errNoBinding(key Key) *Error {
	return newError(
		ErrCodeNoBinding,
		fmt.Sprintf("no binding found for %s", key),
		nil,
	).WithKey(key.String())
}

func errResolutionFailed(key Key, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", key),
		cause,
	).WithKey(key.String())
}

func errProviderFailed(key Key, cause error) *Error {
	return newError(
		ErrCodeProviderFailed,
		fmt.Sprintf("provider for %s returned error", key),
		cause,
	).WithKey(key.String())
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithChain(chain)
}

func errMissingParameter(what, owner string, cause error) *Error {
	return newError(
		ErrCodeMissingParameter,
		fmt.Sprintf("missing required %s for %s", what, owner),
		cause,
	)
}

func errNameNotFound(what, name string, available []string) *Error {
	list := "none"
	if len(available) > 0 {
		list = strings.Join(available, ", ")
	}
	return newError(
		ErrCodeNameNotFound,
		fmt.Sprintf("no %s named %q; available: %s", what, name, list),
		nil,
	)
}

func errDiscoveryFailed(message string, cause error) *Error {
	return newError(ErrCodeDiscoveryFailed, message, cause)
}

func errStartupFailed(key string, cause error) *Error {
	return newError(
		ErrCodeStartupFailed,
		fmt.Sprintf("failed to start %s", key),
		cause,
	).WithKey(key)
}

func errShutdownFailed(key string, cause error) *Error {
	return newError(
		ErrCodeShutdownFailed,
		fmt.Sprintf("failed to stop %s", key),
		cause,
	).WithKey(key)
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNoBinding
}

func IsInvalidBinding(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidBinding
}

func IsInvalidName(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidName
}

func IsCircularDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircularDependency
}

func IsResolutionFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeResolutionFailed
}

func IsProviderFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeProviderFailed
}

func IsMissingParameter(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeMissingParameter
}

func IsNameNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNameNotFound
}

func IsDiscoveryFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDiscoveryFailed
}
