package projections

import (
	"errors"
	"log/slog"

	"gohuddleup/internal/adapters/storage"
	"gohuddleup/internal/domain/identity"
)

// Outcome tells a caller why a lookup did or did not produce a value.
type Outcome int

// Lookup outcomes
const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

// String returns the outcome name used in logs and JSON.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Lookup is the result of a query that never returns an error. A missing row
// and a failed backend call both leave Value at its zero value; Outcome tells
// them apart and Err carries the failure.
type Lookup[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// Found reports whether Value holds a result.
func (l Lookup[T]) Found() bool {
	return l.Outcome == OutcomeOK
}

func found[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, Outcome: OutcomeOK}
}

func notFound[T any]() Lookup[T] {
	return Lookup[T]{Outcome: OutcomeNotFound}
}

// failedLookup classifies err: missing rows and sessions become NotFound,
// anything else is logged and becomes Failed.
func failedLookup[T any](lookup string, err error) Lookup[T] {
	if isMissing(err) {
		return notFound[T]()
	}
	slog.Error("lookup_failed", "lookup", lookup, "error", err)
	return Lookup[T]{Outcome: OutcomeFailed, Err: err}
}

func isMissing(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, identity.ErrNoSession)
}
