package model

import (
	"errors"
	"fmt"
)

// FailureKind tags why a conversion did not produce a result.
type FailureKind int

const (
	Unknown FailureKind = iota
	MissingCredential
	InvalidInput
	RateLimited
	Unauthorized
	NetworkUnreachable
	MalformedResponse
)

var kindNames = map[FailureKind]string{
	Unknown:            "Unknown",
	MissingCredential:  "MissingCredential",
	InvalidInput:       "InvalidInput",
	RateLimited:        "RateLimited",
	Unauthorized:       "Unauthorized",
	NetworkUnreachable: "NetworkUnreachable",
	MalformedResponse:  "MalformedResponse",
}

const genericFailureMessage = "Failed to fetch exchange rate. Please try again."

var kindMessages = map[FailureKind]string{
	Unknown:            genericFailureMessage,
	MissingCredential:  "API key not configured. Please check .env file",
	InvalidInput:       "Please enter a valid amount",
	RateLimited:        "Rate limit exceeded. Please wait a moment.",
	Unauthorized:       "Invalid API key. Please check .env configuration.",
	NetworkUnreachable: "Network error. Please check your connection.",
	MalformedResponse:  genericFailureMessage,
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// DisplayMessage is the user-facing text for the kind.
func (k FailureKind) DisplayMessage() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return genericFailureMessage
}

// Failure is the error returned by every conversion path.
type Failure struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// NewFailure builds a Failure with the default display message of kind.
func NewFailure(kind FailureKind, cause error) *Failure {
	return &Failure{Kind: kind, Message: kind.DisplayMessage(), Cause: cause}
}

func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.Cause == nil {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Cause)
}

func (f *Failure) Unwrap() error { return f.Cause }

// Is matches another *Failure by kind, so errors.Is(err, &Failure{Kind: RateLimited}) works.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}

// AsFailure extracts a *Failure from err, wrapping foreign errors as Unknown.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NewFailure(Unknown, err)
}

// KindOf returns the failure kind carried by err.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}
