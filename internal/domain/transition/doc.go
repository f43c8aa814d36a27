// Package transition implements the booking state machine (spec §4.1)
// and the Transition Executor that applies it atomically (spec §4.2).
// The edge table is a literal map, not a generated workflow engine,
// per spec §9's explicit rejection of a generic workflow framework;
// grounded on the teacher's Validate/CanBeCancelled/MarkAsX pattern in
// internal/reservations/domain/service.go, generalized here into one
// table covering every (from,to) pair instead of one method per edge.
package transition
