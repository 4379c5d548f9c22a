package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

// TransactionStatus is the settlement state of a payment transaction.
// pending is the only non-terminal state.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
	StatusSkipped TransactionStatus = "skipped"
)

// IsValid returns true if the status is recognized.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// IsTerminal returns true once the transaction has settled.
func (s TransactionStatus) IsTerminal() bool {
	return s != StatusPending
}

// Transaction records one payment attempt for a booking. The amount is the
// quote total (subtotal plus platform fee) at initiation time.
type Transaction struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	studentID   uuid.UUID
	mentorID    uuid.UUID
	amount      float64
	currency    string
	provider    string
	status      TransactionStatus
	externalID  string
	failureNote string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTransaction creates a pending transaction for a booking.
func NewTransaction(bookingID, studentID, mentorID uuid.UUID, amount float64, currency, provider string) (*Transaction, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student ID is required")
	}
	if amount <= 0 {
		return nil, domain.NewInvalidInputError("amount must be positive")
	}
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	now := time.Now().UTC()
	return &Transaction{
		id:        uuid.New(),
		bookingID: bookingID,
		studentID: studentID,
		mentorID:  mentorID,
		amount:    amount,
		currency:  currency,
		provider:  provider,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructTransaction rebuilds a Transaction from persistence data.
func ReconstructTransaction(
	id, bookingID, studentID, mentorID uuid.UUID,
	amount float64,
	currency, provider string,
	status TransactionStatus,
	externalID, failureNote string,
	createdAt, updatedAt time.Time,
) *Transaction {
	return &Transaction{
		id:          id,
		bookingID:   bookingID,
		studentID:   studentID,
		mentorID:    mentorID,
		amount:      amount,
		currency:    currency,
		provider:    provider,
		status:      status,
		externalID:  externalID,
		failureNote: failureNote,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() uuid.UUID { return t.id }

// BookingID returns the booking this transaction pays for.
func (t *Transaction) BookingID() uuid.UUID { return t.bookingID }

// StudentID returns the paying student's user ID.
func (t *Transaction) StudentID() uuid.UUID { return t.studentID }

// MentorID returns the mentor's user ID.
func (t *Transaction) MentorID() uuid.UUID { return t.mentorID }

// Amount returns the charged amount.
func (t *Transaction) Amount() float64 { return t.amount }

// Currency returns the currency code.
func (t *Transaction) Currency() string { return t.currency }

// Provider returns the payment provider name.
func (t *Transaction) Provider() string { return t.provider }

// Status returns the settlement status.
func (t *Transaction) Status() TransactionStatus { return t.status }

// ExternalID returns the provider-side transaction reference.
func (t *Transaction) ExternalID() string { return t.externalID }

// FailureNote returns the failure reason, if any.
func (t *Transaction) FailureNote() string { return t.failureNote }

// CreatedAt returns the creation timestamp.
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (t *Transaction) UpdatedAt() time.Time { return t.updatedAt }

// --- Behavior ---

// MarkSuccess settles a pending transaction as successful.
func (t *Transaction) MarkSuccess(externalID string) error {
	if t.status.IsTerminal() {
		return domain.NewInvalidStateError(string(t.status), string(StatusSuccess))
	}
	t.status = StatusSuccess
	t.externalID = externalID
	t.updatedAt = time.Now().UTC()
	return nil
}

// MarkFailed settles a pending transaction as failed.
func (t *Transaction) MarkFailed(reason string) error {
	if t.status.IsTerminal() {
		return domain.NewInvalidStateError(string(t.status), string(StatusFailed))
	}
	t.status = StatusFailed
	t.failureNote = reason
	t.updatedAt = time.Now().UTC()
	return nil
}

// MarkSkipped settles a pending transaction as skipped (no provider charge).
func (t *Transaction) MarkSkipped() error {
	if t.status.IsTerminal() {
		return domain.NewInvalidStateError(string(t.status), string(StatusSkipped))
	}
	t.status = StatusSkipped
	t.updatedAt = time.Now().UTC()
	return nil
}
