// Package errors provides error handling for paddock.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for the operator
//
// Usage:
//
//	if err := fetch(); err != nil {
//	    return errors.Wrapf(err, "season %d round %d", season, round)
//	}
//
//	if errors.Is(err, errors.ErrSessionUnavailable) {
//	    // skip the session, keep going
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors shared across paddock.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the provider has no such resource
	ErrNotFound = New("not found")

	// ErrSessionUnavailable indicates one session of one event could not be fetched.
	// It never aborts sibling sessions, the event, or the season.
	ErrSessionUnavailable = New("session unavailable")

	// ErrScheduleUnavailable indicates a season's event schedule could not be fetched.
	ErrScheduleUnavailable = New("schedule unavailable")

	// ErrInvalidConfig indicates a configuration value is out of range
	ErrInvalidConfig = New("invalid configuration")
)

// IsSessionUnavailable checks if an error is or wraps ErrSessionUnavailable
func IsSessionUnavailable(err error) bool {
	return err != nil && Is(err, ErrSessionUnavailable)
}

// IsScheduleUnavailable checks if an error is or wraps ErrScheduleUnavailable
func IsScheduleUnavailable(err error) bool {
	return err != nil && Is(err, ErrScheduleUnavailable)
}

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// SessionUnavailable marks cause as a session failure for (season, round, session).
func SessionUnavailable(cause error, season, round int, session string) error {
	return Mark(Wrapf(cause, "season %d round %d session %s", season, round, session), ErrSessionUnavailable)
}

// ScheduleUnavailable marks cause as a schedule failure for season.
func ScheduleUnavailable(cause error, season int) error {
	return Mark(Wrapf(cause, "schedule for season %d", season), ErrScheduleUnavailable)
}
