// Package itc implements Interval Tree Clocks, a causality-tracking
// mechanism for distributed systems with a dynamic number of replicas.
package itc

import "errors"

// Parameter and resource errors
var (
	// ErrInvalidParameter indicates a nil or absent input, a buffer too
	// small to contain a complete payload, or nonsensical framing.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientResources indicates that an output buffer cannot
	// hold the serialised payload.
	ErrInsufficientResources = errors.New("insufficient resources")
)

// Tree corruption errors
var (
	// ErrCorruptID indicates an identity tree with a one-armed node,
	// an ownership flag on an interior node, or a non-normalised shape.
	ErrCorruptID = errors.New("corrupt identity tree")

	// ErrCorruptEvent indicates an event tree with a one-armed node or
	// a non-normalised shape.
	ErrCorruptEvent = errors.New("corrupt event tree")

	// ErrCorruptStamp indicates a stamp missing a component.
	ErrCorruptStamp = errors.New("corrupt stamp")
)

// Semantic errors
var (
	// ErrOverlappingInterval indicates a sum or join of two identities
	// that both own some part of the interval.
	ErrOverlappingInterval = errors.New("overlapping identity intervals")

	// ErrCounterOverflow indicates that an event operation would exceed
	// the counter width of this build.
	ErrCounterOverflow = errors.New("event counter overflow")
)

// Serialisation errors
var (
	// ErrIncompatibleVersion indicates a serialised payload produced by
	// a newer library major version.
	ErrIncompatibleVersion = errors.New("incompatible serialised version")

	// ErrUnsupportedCounterSize indicates a serialised event counter
	// wider than the counter width of this build.
	ErrUnsupportedCounterSize = errors.New("unsupported serialised counter size")
)
