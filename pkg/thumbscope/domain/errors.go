package domain

import (
	"errors"
	"fmt"
)

// BackendErrorKind classifies why a backend call failed.
type BackendErrorKind int

const (
	// BackendUnavailable transport failures, timeouts, server-side errors
	BackendUnavailable BackendErrorKind = iota
	// BackendUnauthorized missing or rejected credentials
	BackendUnauthorized
	// BackendInvalidInput the backend rejected the image or request shape
	BackendInvalidInput
)

func (k BackendErrorKind) String() string {
	switch k {
	case BackendUnavailable:
		return "unavailable"
	case BackendUnauthorized:
		return "unauthorized"
	case BackendInvalidInput:
		return "invalid input"
	}
	return "unknown"
}

// BackendError is the only error shape adapters are allowed to surface past the join
// point. Backend names which backend failed, so that callers can report per-backend cause.
type BackendError struct {
	Backend string
	Kind    BackendErrorKind
	Cause   error
}

func NewBackendError(backend string, kind BackendErrorKind, cause error) *BackendError {
	return &BackendError{Backend: backend, Kind: kind, Cause: cause}
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s backend %s: %v", e.Backend, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s backend %s", e.Backend, e.Kind)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// CoerceBackendError returns err as a *BackendError, wrapping it as Unavailable if the
// adapter leaked some other error shape.
func CoerceBackendError(backend string, err error) *BackendError {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr
	}
	return NewBackendError(backend, BackendUnavailable, err)
}

// TotalAnalysisFailure means both stage-1 backends failed, so there was nothing to
// synthesize. Both underlying causes are kept for reporting.
type TotalAnalysisFailure struct {
	DetectionErr   *BackendError
	DescriptionErr *BackendError
}

func (e *TotalAnalysisFailure) Error() string {
	return fmt.Sprintf("no analysis could be produced: %v; %v", e.DetectionErr, e.DescriptionErr)
}

// SynthesisFailure means at least one stage-1 analysis succeeded but the synthesis call
// failed. The partially built bundle is kept so that callers can still display it.
type SynthesisFailure struct {
	Bundle *AnalysisBundle
	Cause  *BackendError
}

func (e *SynthesisFailure) Error() string {
	return fmt.Sprintf("synthesis did not complete: %v", e.Cause)
}

func (e *SynthesisFailure) Unwrap() error {
	return e.Cause
}
