package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// RuntimeError is an error that occurred while executing a command. It has an
// optional cause, and an optional hint for the user about how to resolve it.
type RuntimeError struct {
	msg   string
	cause error
	hint  string
}

// NewRuntimeError returns a new RuntimeError.
func NewRuntimeError(msg string, cause error, hint string) *RuntimeError {
	return &RuntimeError{msg: msg, cause: cause, hint: hint}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause)
}

// Unwrap returns the cause error.
func (e *RuntimeError) Unwrap() error {
	return e.cause
}

// Hint returns the hint for resolving the error.
func (e *RuntimeError) Hint() string {
	return e.hint
}

// Errorf logs an error returned from the application at the top level, along
// with any hint.
func Errorf(err error) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		args := []any{}
		if rerr.cause != nil {
			args = append(args, "cause", rerr.cause.Error())
		}
		if rerr.hint != "" {
			args = append(args, "hint", rerr.hint)
		}
		slog.Error(rerr.msg, args...)
		return
	}

	Log(slog.Default(), slog.LevelError, err)
}

// Log logs an error with the given logger, extracting metadata if it's a
// StructuredError.
func Log(logger *slog.Logger, level slog.Level, err error) {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		logger.Log(context.Background(), level, err.Error())
		return
	}

	args := make([]any, 0, len(serr.metadata)*2+2)

	cause := serr.metadata["cause"]
	if serr.cause != nil {
		cause = serr.cause.Error()
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		if k != "cause" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}

	logger.Log(context.Background(), level, serr.Error(), args...)
}
