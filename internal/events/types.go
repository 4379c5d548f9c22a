package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Booking event types. Published only after the store has confirmed the
// mutation; the notification layer consumes these as the semantic record of
// what happened.
const (
	BookingRequested = "booking.requested"
	BookingAccepted  = "booking.accepted"
	BookingRejected  = "booking.rejected"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
)

// Payment event types.
const (
	TransactionInitiated = "payment.transaction.initiated"
	TransactionSucceeded = "payment.transaction.succeeded"
	TransactionFailed    = "payment.transaction.failed"
)

// BookingRequestedEvent is published when a student creates a booking.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	StudentID     uuid.UUID `json:"student_id"`
	MentorID      uuid.UUID `json:"mentor_id"`
	Subject       string    `json:"subject"`
	SessionStart  time.Time `json:"session_start"`
	Total         float64   `json:"total"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingDecisionEvent is published when a mentor accepts, rejects, or
// completes a booking.
type BookingDecisionEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	StudentID     uuid.UUID `json:"student_id"`
	MentorID      uuid.UUID `json:"mentor_id"`
	Status        string    `json:"status"`
	MeetLink      string    `json:"meet_link,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a participant cancels a booking.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// TransactionInitiatedEvent is published when a student starts a payment.
type TransactionInitiatedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	StudentID     uuid.UUID `json:"student_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Provider      string    `json:"provider,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// TransactionSucceededEvent arrives from the payment gateway when a charge
// settles.
type TransactionSucceededEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	ExternalID    string    `json:"external_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// TransactionFailedEvent arrives from the payment gateway when a charge fails.
type TransactionFailedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
