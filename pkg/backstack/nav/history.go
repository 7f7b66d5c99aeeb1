package nav

import (
	"errors"
	"fmt"
)

// Marker tags a history position pushed by the Manager.
type Marker struct {
	ID    string // id of the entry the position was pushed for
	Depth int    // manager-owned positions at and below this one
	Token uint64 // unique per push or replace
}

// Notification is delivered by the host whenever its current position
// changes, whatever the cause.
type Notification struct {
	// Marker of the position the host landed on; nil for the base position.
	Marker *Marker
}

// Depth returns the manager depth of the landing position.
func (n Notification) Depth() int {
	if n.Marker == nil {
		return 0
	}
	return n.Marker.Depth
}

// History is the host's linear navigation history.
//
// Push, Replace and Go take effect when called. The notification a Go call
// produces is delivered later, on a subsequent turn of the host's event loop,
// never from inside the call.
type History interface {
	// Push adds a position above the current one, dropping any forward positions.
	Push(marker *Marker) error
	// Replace swaps the marker of the current position.
	Replace(marker *Marker) error
	// Go moves the current position by delta in a single operation.
	Go(delta int) error
	// Subscribe registers fn for position-change notifications.
	Subscribe(fn func(Notification)) (unsubscribe func())
}

// HostError wraps a failure reported by the History host.
type HostError struct {
	Op  string // "push", "replace" or "go"
	Err error
}

func (e *HostError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("nav: host %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("nav: host %s", e.Op)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// IsHostError checks if an error came from the History host.
func IsHostError(err error) bool {
	var hostErr *HostError
	return errors.As(err, &hostErr)
}
