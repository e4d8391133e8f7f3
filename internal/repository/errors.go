// Package repository implements the durable event store on MySQL: events,
// seats and seat-color assignments. Sentinel errors defined here let the
// service layer distinguish absence from infrastructure failure without
// inspecting driver errors.
package repository

import "errors"

// ErrEventNotFound is returned when an event lookup yields no rows.
var ErrEventNotFound = errors.New("event not found")

// ErrNoActiveEvent is returned when no event is currently active. The read
// path resolves this into a degraded waiting record, never an HTTP error.
var ErrNoActiveEvent = errors.New("no active event")

// ErrAssignmentNotFound is returned when a seat has no color assignment
// under the given event.
var ErrAssignmentNotFound = errors.New("assignment not found")
