package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Action is a named state change requested by an actor.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Actor is the role performing an action on a booking.
type Actor string

const (
	ActorStudent Actor = "student"
	ActorMentor  Actor = "mentor"
)

type actionRule struct {
	from   []BookingStatus
	to     BookingStatus
	actors []Actor
}

// actionRules is the single source of truth for the lifecycle state machine:
// which states an action applies to, where it leads, and who may perform it.
var actionRules = map[Action]actionRule{
	ActionAccept:   {from: []BookingStatus{StatusPending}, to: StatusAccepted, actors: []Actor{ActorMentor}},
	ActionReject:   {from: []BookingStatus{StatusPending}, to: StatusRejected, actors: []Actor{ActorMentor}},
	ActionComplete: {from: []BookingStatus{StatusAccepted}, to: StatusCompleted, actors: []Actor{ActorMentor}},
	ActionCancel:   {from: []BookingStatus{StatusPending, StatusAccepted}, to: StatusCancelled, actors: []Actor{ActorStudent, ActorMentor}},
}

// validTransitions is derived from actionRules. Terminal states map to an
// empty slice.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   nil,
	StatusAccepted:  nil,
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

func init() {
	for _, rule := range actionRules {
		for _, from := range rule.from {
			validTransitions[from] = append(validTransitions[from], rule.to)
		}
	}
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target
// is allowed by some action.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if the booking can be cancelled from this
// status, ignoring the time window.
func (s BookingStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error
// if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// IsLegalTransition reports whether the action applies to the given status,
// regardless of actor.
func IsLegalTransition(from BookingStatus, action Action) bool {
	rule, ok := actionRules[action]
	if !ok {
		return false
	}
	for _, s := range rule.from {
		if s == from {
			return true
		}
	}
	return false
}

// ActionAllowedFor reports whether the actor's role may perform the action at all.
func ActionAllowedFor(action Action, actor Actor) bool {
	rule, ok := actionRules[action]
	if !ok {
		return false
	}
	for _, a := range rule.actors {
		if a == actor {
			return true
		}
	}
	return false
}

// TargetStatus returns the status the action leads to.
func TargetStatus(action Action) (BookingStatus, bool) {
	rule, ok := actionRules[action]
	if !ok {
		return "", false
	}
	return rule.to, true
}
