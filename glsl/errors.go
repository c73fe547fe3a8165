// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes GLSL emission errors.
type ErrorKind uint8

const (
	// ErrNotImplemented indicates a recognized instruction or modifier
	// combination that the backend cannot express.
	ErrNotImplemented ErrorKind = iota

	// ErrLogic indicates an internal invariant violation, usually a defect
	// in the stage that built the IR.
	ErrLogic

	// ErrMissingBinding indicates a descriptor index absent from the
	// binding tables.
	ErrMissingBinding
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrNotImplemented:
		return "NotImplemented"
	case ErrLogic:
		return "LogicError"
	case ErrMissingBinding:
		return "MissingBinding"
	default:
		return "Unknown"
	}
}

// Error represents a GLSL emission error. Every Error aborts the
// translation of the enclosing program.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message names the unsupported feature or the violated invariant.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a new emission error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notImplemented(format string, args ...any) *Error {
	return NewError(ErrNotImplemented, fmt.Sprintf(format, args...))
}

func logicError(format string, args ...any) *Error {
	return NewError(ErrLogic, fmt.Sprintf(format, args...))
}

// IsNotImplemented reports whether err wraps an ErrNotImplemented error.
func IsNotImplemented(err error) bool {
	return kindOf(err) == ErrNotImplemented
}

// IsLogic reports whether err wraps an ErrLogic error.
func IsLogic(err error) bool {
	return kindOf(err) == ErrLogic
}

// IsMissingBinding reports whether err wraps an ErrMissingBinding error.
func IsMissingBinding(err error) bool {
	return kindOf(err) == ErrMissingBinding
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKind(255)
}
