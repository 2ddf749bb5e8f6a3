package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across paddock.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Traversal scope, enough to re-run just the affected part by hand
	FieldSeason   = "season"
	FieldRound    = "round"
	FieldEvent    = "event"
	FieldSession  = "session"
	FieldCategory = "category"

	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Provider
	FieldURL    = "url"
	FieldStatus = "status"
	FieldCached = "cached"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldRows   = "rows"
	FieldSets   = "sets"
	FieldEvents = "events"
	FieldCount  = "count"

	// Files and tables
	FieldTable = "table"
	FieldPath  = "path"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	walker := collect.NewSeasonWalker(sched, proc, pacer, time.Now,
//	    logger.ComponentLogger("collect.season"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// EventLogger returns a child logger carrying the traversal scope of one event.
func EventLogger(parent *zap.SugaredLogger, season, round int, event string) *zap.SugaredLogger {
	return parent.With(FieldSeason, season, FieldRound, round, FieldEvent, event)
}
