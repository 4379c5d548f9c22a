package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"accepted to completed", StatusAccepted, StatusCompleted, true},
		{"accepted to cancelled", StatusAccepted, StatusCancelled, true},
		{"accepted to rejected", StatusAccepted, StatusRejected, false},
		{"accepted to pending", StatusAccepted, StatusPending, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"cancelled to accepted", StatusCancelled, StatusAccepted, false},
		{"rejected to accepted", StatusRejected, StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_TerminalStatesAllowNoTransitions(t *testing.T) {
	terminal := []BookingStatus{StatusRejected, StatusCompleted, StatusCancelled}
	all := []BookingStatus{StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled}

	for _, from := range terminal {
		assert.True(t, from.IsTerminal(), "%s should be terminal", from)
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s must not be allowed", from, to)
		}
	}

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
}

func TestBookingStatus_ActionLegality(t *testing.T) {
	assert.True(t, IsLegalTransition(StatusPending, ActionAccept))
	assert.True(t, IsLegalTransition(StatusPending, ActionReject))
	assert.True(t, IsLegalTransition(StatusPending, ActionCancel))
	assert.True(t, IsLegalTransition(StatusAccepted, ActionComplete))
	assert.True(t, IsLegalTransition(StatusAccepted, ActionCancel))

	// Complete requires a prior accept.
	assert.False(t, IsLegalTransition(StatusPending, ActionComplete))
	assert.False(t, IsLegalTransition(StatusAccepted, ActionAccept))
	assert.False(t, IsLegalTransition(StatusCancelled, ActionCancel))
	assert.False(t, IsLegalTransition(StatusCompleted, ActionComplete))
}

func TestBookingStatus_ActorPermissions(t *testing.T) {
	assert.True(t, ActionAllowedFor(ActionAccept, ActorMentor))
	assert.True(t, ActionAllowedFor(ActionReject, ActorMentor))
	assert.True(t, ActionAllowedFor(ActionComplete, ActorMentor))
	assert.True(t, ActionAllowedFor(ActionCancel, ActorMentor))
	assert.True(t, ActionAllowedFor(ActionCancel, ActorStudent))

	assert.False(t, ActionAllowedFor(ActionAccept, ActorStudent))
	assert.False(t, ActionAllowedFor(ActionReject, ActorStudent))
	assert.False(t, ActionAllowedFor(ActionComplete, ActorStudent))
}

func TestBookingStatus_CanBeCancelled(t *testing.T) {
	assert.True(t, StatusPending.CanBeCancelled())
	assert.True(t, StatusAccepted.CanBeCancelled())
	assert.False(t, StatusRejected.CanBeCancelled())
	assert.False(t, StatusCompleted.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, status)

	_, err = ParseBookingStatus("delivered")
	assert.Error(t, err)

	_, err = ParseBookingStatus("")
	assert.Error(t, err)
}

func TestTargetStatus(t *testing.T) {
	for action, want := range map[Action]BookingStatus{
		ActionAccept:   StatusAccepted,
		ActionReject:   StatusRejected,
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	} {
		got, ok := TargetStatus(action)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := TargetStatus(Action("reschedule"))
	assert.False(t, ok)
}
