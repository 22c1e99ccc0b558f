package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusDraft, true},
		{StatusPendingApproval, true},
		{StatusApproved, true},
		{StatusInProgress, true},
		{StatusPartialFulfilled, true},
		{StatusFulfilled, true},
		{StatusCancelled, true},
		{Status("INVALID"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_CanApply(t *testing.T) {
	tests := []struct {
		from    Status
		event   Event
		allowed bool
	}{
		// From DRAFT
		{StatusDraft, EventSubmit, true},
		{StatusDraft, EventCancel, true},
		{StatusDraft, EventApprove, false},
		{StatusDraft, EventDispatch, false},
		{StatusDraft, EventFulfill, false},
		// From PENDING_APPROVAL
		{StatusPendingApproval, EventApprove, true},
		{StatusPendingApproval, EventReject, true},
		{StatusPendingApproval, EventCancel, true},
		{StatusPendingApproval, EventSubmit, false},
		{StatusPendingApproval, EventFulfill, false},
		// From APPROVED
		{StatusApproved, EventDispatch, true},
		{StatusApproved, EventCancel, true},
		{StatusApproved, EventApprove, false},
		{StatusApproved, EventFulfill, false},
		// From IN_PROGRESS
		{StatusInProgress, EventFulfill, true},
		{StatusInProgress, EventCancel, true},
		{StatusInProgress, EventDispatch, false},
		// From PARTIAL_FULFILLED
		{StatusPartialFulfilled, EventFulfill, true},
		{StatusPartialFulfilled, EventCancel, true},
		{StatusPartialFulfilled, EventSubmit, false},
		// Terminal states allow nothing
		{StatusFulfilled, EventFulfill, false},
		{StatusFulfilled, EventCancel, false},
		{StatusCancelled, EventSubmit, false},
		{StatusCancelled, EventCancel, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.event), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanApply(tt.event))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusFulfilled.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusPartialFulfilled.IsTerminal())
}

func TestStatus_Label(t *testing.T) {
	tests := []struct {
		status Status
		kind   Kind
		label  string
	}{
		{StatusDraft, KindPurchase, "draft"},
		{StatusDraft, KindProduction, "pending"},
		{StatusApproved, KindPurchase, "approved"},
		{StatusApproved, KindProduction, "planned"},
		{StatusInProgress, KindPurchase, "sent"},
		{StatusInProgress, KindProduction, "in_production"},
		{StatusPartialFulfilled, KindPurchase, "partial_received"},
		{StatusPartialFulfilled, KindProduction, "in_production"},
		{StatusFulfilled, KindPurchase, "received"},
		{StatusFulfilled, KindProduction, "completed"},
		{StatusCancelled, KindPurchase, "cancelled"},
		{StatusCancelled, KindProduction, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status)+"_"+string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.status.Label(tt.kind))
		})
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := newInvalidTransition(StatusFulfilled, EventCancel)

	assert.Equal(t, "INVALID_STATE_TRANSITION", err.Code())
	assert.Equal(t, StatusFulfilled, err.Current)
	assert.Equal(t, EventCancel, err.Requested)
	assert.Empty(t, err.Allowed)
	assert.Contains(t, err.Error(), "CANCEL")
	assert.Contains(t, err.Error(), "FULFILLED")
}

func TestStatus_AllowedEvents(t *testing.T) {
	assert.Equal(t, []Event{EventSubmit, EventCancel}, StatusDraft.AllowedEvents())
	assert.Equal(t, []Event{EventApprove, EventReject, EventCancel}, StatusPendingApproval.AllowedEvents())
	assert.Empty(t, StatusCancelled.AllowedEvents())
}
