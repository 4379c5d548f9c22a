package payment

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository defines the persistence contract for transactions.
type TransactionRepository interface {
	// FindByID retrieves a transaction by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByBookingID retrieves all transactions for a booking, newest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Transaction, error)

	// FindByStudentID retrieves a student's transactions with pagination.
	FindByStudentID(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*Transaction, int64, error)

	// ListAll retrieves all transactions with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Transaction, int64, error)

	// Save persists a new transaction.
	Save(ctx context.Context, txn *Transaction) error

	// Update persists changes to an existing transaction.
	Update(ctx context.Context, txn *Transaction) error
}
