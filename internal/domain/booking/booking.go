package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

const (
	// MinSessionMinutes is the shortest bookable session.
	MinSessionMinutes = 30

	// CancellationWindow is how far ahead of the session start a cancellation
	// must happen. Evaluated against the wall clock at call time.
	CancellationWindow = 24 * time.Hour

	// RescheduleWindow gates whether rescheduling may be offered. There is no
	// reschedule transition; this is advisory for callers.
	RescheduleWindow = 48 * time.Hour

	sessionTimeLayout  = "15:04"
	bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	meetLinkChars      = "abcdefghijklmnopqrstuvwxyz"
)

// Booking is the aggregate root for a mentoring session between a student
// and a mentor.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	studentID     uuid.UUID
	mentorID      uuid.UUID
	status        BookingStatus

	sessionDate     time.Time // date component only, UTC midnight
	sessionTime     string    // wall-clock start, "HH:MM"
	durationMinutes int
	hourlyRate      float64 // mentor rate snapshotted at booking time

	subject     string
	description string
	meetLink    string
	paymentID   string
	cancelNote  string

	completedAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking with status=pending after validating the
// request fields. Session start must be strictly in the future.
func NewBooking(
	studentID, mentorID uuid.UUID,
	sessionDate time.Time,
	sessionTime string,
	durationMinutes int,
	hourlyRate float64,
	subject, description string,
) (*Booking, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student ID is required")
	}
	if mentorID == uuid.Nil {
		return nil, domain.NewValidationError("mentor ID is required")
	}
	if studentID == mentorID {
		return nil, domain.NewValidationError("student and mentor must be different users")
	}
	clock, err := time.Parse(sessionTimeLayout, sessionTime)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid session time %q, expected HH:MM", sessionTime))
	}
	if durationMinutes < MinSessionMinutes {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("session duration must be at least %d minutes", MinSessionMinutes))
	}
	if hourlyRate <= 0 {
		return nil, domain.NewInvalidInputError("hourly rate must be positive")
	}
	if len(strings.TrimSpace(subject)) < 3 {
		return nil, domain.NewValidationError("subject must be at least 3 characters")
	}
	if len(strings.TrimSpace(description)) < 10 {
		return nil, domain.NewValidationError("description must be at least 10 characters")
	}

	date := truncateToDate(sessionDate)
	start := combine(date, clock)
	now := time.Now().UTC()
	if !start.After(now) {
		return nil, domain.NewValidationError("session must be scheduled in the future")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		studentID:       studentID,
		mentorID:        mentorID,
		status:          StatusPending,
		sessionDate:     date,
		sessionTime:     clock.Format(sessionTimeLayout),
		durationMinutes: durationMinutes,
		hourlyRate:      hourlyRate,
		subject:         strings.TrimSpace(subject),
		description:     strings.TrimSpace(description),
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	studentID, mentorID uuid.UUID,
	status BookingStatus,
	sessionDate time.Time,
	sessionTime string,
	durationMinutes int,
	hourlyRate float64,
	subject, description, meetLink, paymentID, cancelNote string,
	completedAt, cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		studentID:       studentID,
		mentorID:        mentorID,
		status:          status,
		sessionDate:     truncateToDate(sessionDate),
		sessionTime:     sessionTime,
		durationMinutes: durationMinutes,
		hourlyRate:      hourlyRate,
		subject:         subject,
		description:     description,
		meetLink:        meetLink,
		paymentID:       paymentID,
		cancelNote:      cancelNote,
		completedAt:     completedAt,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// StudentID returns the booking student's user ID.
func (b *Booking) StudentID() uuid.UUID { return b.studentID }

// MentorID returns the booked mentor's user ID.
func (b *Booking) MentorID() uuid.UUID { return b.mentorID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// SessionDate returns the calendar date of the session (UTC midnight).
func (b *Booking) SessionDate() time.Time { return b.sessionDate }

// SessionTime returns the wall-clock start time in HH:MM form.
func (b *Booking) SessionTime() string { return b.sessionTime }

// DurationMinutes returns the session length in minutes.
func (b *Booking) DurationMinutes() int { return b.durationMinutes }

// HourlyRate returns the mentor rate snapshotted when the booking was created.
func (b *Booking) HourlyRate() float64 { return b.hourlyRate }

// Subject returns the session subject.
func (b *Booking) Subject() string { return b.subject }

// Description returns the session description.
func (b *Booking) Description() string { return b.description }

// MeetLink returns the video call link, set when the mentor accepts.
func (b *Booking) MeetLink() string { return b.meetLink }

// PaymentID returns the reference of the successful transaction, if any.
func (b *Booking) PaymentID() string { return b.paymentID }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// CompletedAt returns when the session was marked completed.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns when the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// SessionStart returns the full instant the session begins, combining the
// session date with the wall-clock start time in UTC.
func (b *Booking) SessionStart() time.Time {
	clock, err := time.Parse(sessionTimeLayout, b.sessionTime)
	if err != nil {
		// Malformed time from persistence; fall back to midnight so date
		// comparisons still hold.
		return b.sessionDate
	}
	return combine(b.sessionDate, clock)
}

// SessionEnd returns the instant the session ends.
func (b *Booking) SessionEnd() time.Time {
	return b.SessionStart().Add(time.Duration(b.durationMinutes) * time.Minute)
}

// --- Behavior ---

// Accept transitions the booking from pending to accepted and generates the
// meet link. Only the mentor may accept.
func (b *Booking) Accept(actor Actor) error {
	if err := b.authorize(ActionAccept, actor); err != nil {
		return err
	}
	if b.meetLink == "" {
		link, err := generateMeetLink()
		if err != nil {
			return err
		}
		b.meetLink = link
	}
	b.status = StatusAccepted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reject transitions the booking from pending to rejected. Only the mentor
// may reject.
func (b *Booking) Reject(actor Actor) error {
	if err := b.authorize(ActionReject, actor); err != nil {
		return err
	}
	b.status = StatusRejected
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from accepted to completed. Only the
// mentor may complete.
func (b *Booking) Complete(actor Actor) error {
	if err := b.authorize(ActionComplete, actor); err != nil {
		return err
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it is pending or accepted
// and the session is still more than CancellationWindow away at the given
// instant.
func (b *Booking) Cancel(actor Actor, reason string, now time.Time) error {
	if err := b.authorize(ActionCancel, actor); err != nil {
		return err
	}
	if !b.CanCancel(now) {
		return domain.NewPreconditionFailedError(
			fmt.Sprintf("bookings may only be cancelled more than %s before the session", CancellationWindow))
	}
	cancelledAt := now.UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &cancelledAt
	b.updatedAt = cancelledAt
	return nil
}

// CanCancel reports whether cancellation is currently permitted: status is
// pending or accepted and more than CancellationWindow remains before the
// session start.
func (b *Booking) CanCancel(now time.Time) bool {
	return b.status.CanBeCancelled() && b.SessionStart().Sub(now) > CancellationWindow
}

// CanReschedule reports whether a caller should offer rescheduling: status is
// accepted and more than RescheduleWindow remains before the session start.
func (b *Booking) CanReschedule(now time.Time) bool {
	return b.status == StatusAccepted && b.SessionStart().Sub(now) > RescheduleWindow
}

// AttachPayment records the reference of the successful payment transaction.
func (b *Booking) AttachPayment(paymentID string) error {
	if paymentID == "" {
		return domain.NewValidationError("payment ID is required")
	}
	if b.status != StatusAccepted && b.status != StatusCompleted {
		return domain.NewPreconditionFailedError(
			fmt.Sprintf("payment can only be attached to an accepted or completed booking, not %s", b.status))
	}
	b.paymentID = paymentID
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func (b *Booking) authorize(action Action, actor Actor) error {
	if !ActionAllowedFor(action, actor) {
		return domain.NewForbiddenError(fmt.Sprintf("%s may not %s a booking", actor, action))
	}
	if !IsLegalTransition(b.status, action) {
		target, _ := TargetStatus(action)
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	return nil
}

// --- Helpers ---

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// generateMeetLink creates a meet room link in the format
// "https://meet.unimentor.io/xxx-xxxx-xxx".
func generateMeetLink() (string, error) {
	parts := []int{3, 4, 3}
	segments := make([]string, 0, len(parts))
	for _, size := range parts {
		seg := make([]byte, size)
		for i := range seg {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(meetLinkChars))))
			if err != nil {
				return "", fmt.Errorf("failed to generate meet link: %w", err)
			}
			seg[i] = meetLinkChars[n.Int64()]
		}
		segments = append(segments, string(seg))
	}
	return "https://meet.unimentor.io/" + strings.Join(segments, "-"), nil
}
