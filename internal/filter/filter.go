// Package filter composes independent predicate clauses into a single
// projection over a view's local snapshot. Clauses AND together; the
// "all" value of every clause is the identity, so an untouched filter
// bar projects the snapshot unchanged and in its original order.
package filter

import "time"

// Predicate reports whether an entity passes one filter clause.
type Predicate[T any] func(T) bool

// Status is the derived-completion clause selector.
type Status string

const (
	StatusAll        Status = "all"
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
)

// And composes clauses into their logical conjunction. Nil clauses are
// skipped; an empty clause list is the identity predicate.
func And[T any](clauses ...Predicate[T]) Predicate[T] {
	active := make([]Predicate[T], 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			active = append(active, c)
		}
	}
	return func(v T) bool {
		for _, c := range active {
			if !c(v) {
				return false
			}
		}
		return true
	}
}

// Apply projects the snapshot through p, preserving the snapshot's
// relative order. The snapshot itself is never mutated.
func Apply[T any](snapshot []T, p Predicate[T]) []T {
	if p == nil {
		out := make([]T, len(snapshot))
		copy(out, snapshot)
		return out
	}
	out := make([]T, 0, len(snapshot))
	for _, v := range snapshot {
		if p(v) {
			out = append(out, v)
		}
	}
	return out
}

// ByParent passes entities whose parent reference equals selected.
// Selecting "all" (or the empty string) passes everything.
func ByParent[T any](selected string, parentID func(T) string) Predicate[T] {
	if selected == "" || selected == "all" {
		return nil
	}
	return func(v T) bool {
		return parentID(v) == selected
	}
}

// ByStatus passes entities whose derived completion status matches the
// selector. StatusAll passes everything.
func ByStatus[T any](selected Status, isComplete func(T) bool) Predicate[T] {
	if selected == "" || selected == StatusAll {
		return nil
	}
	return func(v T) bool {
		if selected == StatusComplete {
			return isComplete(v)
		}
		return !isComplete(v)
	}
}

// Window passes entities dated within [now, now+months]. The window is
// strictly forward-looking: anything before now is excluded, including
// dates in the recent past. Both bounds are inclusive. months <= 0
// passes everything.
func Window[T any](now time.Time, months int, dateOf func(T) time.Time) Predicate[T] {
	if months <= 0 {
		return nil
	}
	upper := AddMonths(now, months)
	return func(v T) bool {
		d := dateOf(v)
		return !d.Before(now) && !d.After(upper)
	}
}
