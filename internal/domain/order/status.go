package order

import (
	"fmt"
)

// Kind distinguishes purchase orders from production orders. Both share one
// lifecycle; the kind selects the domain vocabulary reported to callers.
type Kind string

const (
	KindPurchase   Kind = "PURCHASE"
	KindProduction Kind = "PRODUCTION"
)

// IsValid checks if the kind is a valid Kind
func (k Kind) IsValid() bool {
	return k == KindPurchase || k == KindProduction
}

// Status represents the canonical lifecycle status of an order
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusPendingApproval  Status = "PENDING_APPROVAL"
	StatusApproved         Status = "APPROVED"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusPartialFulfilled Status = "PARTIAL_FULFILLED"
	StatusFulfilled        Status = "FULFILLED"
	StatusCancelled        Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusInProgress,
		StatusPartialFulfilled, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// CanFulfill returns true if fulfillment may be recorded in this status
func (s Status) CanFulfill() bool {
	return s == StatusInProgress || s == StatusPartialFulfilled
}

// Label returns the status name in the given kind's domain vocabulary.
// Purchase orders speak in receiving terms, production orders in
// manufacturing terms; the transition semantics are identical.
func (s Status) Label(kind Kind) string {
	if kind == KindProduction {
		switch s {
		case StatusDraft:
			return "pending"
		case StatusPendingApproval:
			return "pending_approval"
		case StatusApproved:
			return "planned"
		case StatusInProgress, StatusPartialFulfilled:
			return "in_production"
		case StatusFulfilled:
			return "completed"
		case StatusCancelled:
			return "cancelled"
		}
	}
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPendingApproval:
		return "pending_approval"
	case StatusApproved:
		return "approved"
	case StatusInProgress:
		return "sent"
	case StatusPartialFulfilled:
		return "partial_received"
	case StatusFulfilled:
		return "received"
	case StatusCancelled:
		return "cancelled"
	}
	return string(s)
}

// Event identifies a requested lifecycle transition
type Event string

const (
	EventSubmit   Event = "SUBMIT"
	EventApprove  Event = "APPROVE"
	EventReject   Event = "REJECT"
	EventDispatch Event = "DISPATCH"
	EventFulfill  Event = "FULFILL"
	EventCancel   Event = "CANCEL"
)

// transitions is the single authoritative transition table. A fulfillment
// event resolves to PARTIAL_FULFILLED or FULFILLED depending on the line
// ledger; both targets are listed here.
var transitions = map[Status]map[Event][]Status{
	StatusDraft: {
		EventSubmit: {StatusPendingApproval},
		EventCancel: {StatusCancelled},
	},
	StatusPendingApproval: {
		EventApprove: {StatusApproved},
		EventReject:  {StatusDraft},
		EventCancel:  {StatusCancelled},
	},
	StatusApproved: {
		EventDispatch: {StatusInProgress},
		EventCancel:   {StatusCancelled},
	},
	StatusInProgress: {
		EventFulfill: {StatusPartialFulfilled, StatusFulfilled},
		EventCancel:  {StatusCancelled},
	},
	StatusPartialFulfilled: {
		EventFulfill: {StatusPartialFulfilled, StatusFulfilled},
		EventCancel:  {StatusCancelled},
	},
}

// CanApply reports whether the event is legal from this status
func (s Status) CanApply(event Event) bool {
	_, ok := transitions[s][event]
	return ok
}

// AllowedEvents returns the events legal from this status, in a stable order
func (s Status) AllowedEvents() []Event {
	var events []Event
	for _, e := range []Event{EventSubmit, EventApprove, EventReject, EventDispatch, EventFulfill, EventCancel} {
		if s.CanApply(e) {
			events = append(events, e)
		}
	}
	return events
}

// NextStatuses returns the statuses reachable from this status via the event
func (s Status) NextStatuses(event Event) []Status {
	return transitions[s][event]
}

// InvalidTransitionError is returned when a requested event is not legal
// from the order's current status. It carries enough detail for the caller
// to see what was attempted and what would have been allowed.
type InvalidTransitionError struct {
	Current   Status
	Requested Event
	Allowed   []Event
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s in %s status, allowed events: %v", e.Requested, e.Current, e.Allowed)
}

// Code returns the machine-readable error code
func (e *InvalidTransitionError) Code() string {
	return "INVALID_STATE_TRANSITION"
}

// newInvalidTransition builds the error for a rejected event
func newInvalidTransition(current Status, requested Event) *InvalidTransitionError {
	return &InvalidTransitionError{
		Current:   current,
		Requested: requested,
		Allowed:   current.AllowedEvents(),
	}
}
