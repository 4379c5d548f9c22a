package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/unimentor/service-booking/internal/domain/booking"
	paymentDomain "github.com/unimentor/service-booking/internal/domain/payment"
	"github.com/unimentor/service-booking/internal/events"
	"github.com/unimentor/service-booking/internal/platform/domain"
)

// InitiateTransactionRequest starts a payment for an accepted booking.
type InitiateTransactionRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Provider  string    `json:"provider"`
}

// TransactionDTO is the response representation of a payment transaction.
type TransactionDTO struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	StudentID   uuid.UUID `json:"student_id"`
	MentorID    uuid.UUID `json:"mentor_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Provider    string    `json:"provider,omitempty"`
	Status      string    `json:"status"`
	ExternalID  string    `json:"external_id,omitempty"`
	FailureNote string    `json:"failure_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaymentService is the application service for payment transactions.
type PaymentService struct {
	transactions paymentDomain.TransactionRepository
	bookings     *BookingService
	bookingRepo  bookingDomain.BookingRepository
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	transactions paymentDomain.TransactionRepository,
	bookingService *BookingService,
	bookingRepo bookingDomain.BookingRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		transactions: transactions,
		bookings:     bookingService,
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// InitiateTransaction creates a pending transaction for an accepted booking.
// The amount is the quote total at initiation time. A booking may carry at
// most one live (pending or successful) transaction.
func (s *PaymentService) InitiateTransaction(ctx context.Context, studentID uuid.UUID, req InitiateTransactionRequest) (*TransactionDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.StudentID() != studentID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.Status() != bookingDomain.StatusAccepted {
		return nil, domain.NewPreconditionFailedError(
			fmt.Sprintf("payment requires an accepted booking, booking is %s", bk.Status()),
		)
	}

	existing, err := s.transactions.FindByBookingID(ctx, bk.ID())
	if err != nil {
		return nil, err
	}
	for _, txn := range existing {
		switch txn.Status() {
		case paymentDomain.StatusPending, paymentDomain.StatusSuccess:
			return nil, domain.NewConflictError("booking already has an active transaction")
		}
	}

	quote, err := bookingDomain.NewQuote(bk.HourlyRate(), bk.DurationMinutes(), s.bookings.FeeRate())
	if err != nil {
		return nil, err
	}

	txn, err := paymentDomain.NewTransaction(
		bk.ID(),
		bk.StudentID(),
		bk.MentorID(),
		bookingDomain.RoundCents(quote.Total),
		domain.CurrencyUSD,
		req.Provider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.transactions.Save(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	// Keyed by the booking so payment events for one booking stay in order.
	publishEvent(ctx, s.publisher, s.logger, events.TopicPaymentEvents, events.TransactionInitiated, txn.BookingID().String(), events.TransactionInitiatedEvent{
		TransactionID: txn.ID(),
		BookingID:     txn.BookingID(),
		StudentID:     txn.StudentID(),
		Amount:        txn.Amount(),
		Currency:      txn.Currency(),
		Provider:      txn.Provider(),
		OccurredAt:    time.Now().UTC(),
	})

	result := toTransactionDTO(txn)
	return &result, nil
}

// HandleTransactionSucceeded settles a transaction as successful and attaches
// the payment reference to its booking. Invoked by the payment event consumer.
func (s *PaymentService) HandleTransactionSucceeded(ctx context.Context, event events.TransactionSucceededEvent) error {
	txn, err := s.transactions.FindByID(ctx, event.TransactionID)
	if err != nil {
		return err
	}
	if err := txn.MarkSuccess(event.ExternalID); err != nil {
		return err
	}
	if err := s.transactions.Update(ctx, txn); err != nil {
		return err
	}

	if err := s.bookings.AttachPayment(ctx, txn.BookingID(), txn.ID().String()); err != nil {
		s.logger.Error("failed to attach payment to booking",
			zap.String("transaction_id", txn.ID().String()),
			zap.String("booking_id", txn.BookingID().String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("transaction settled",
		zap.String("transaction_id", txn.ID().String()),
		zap.String("booking_id", txn.BookingID().String()),
	)
	return nil
}

// HandleTransactionFailed settles a transaction as failed. Invoked by the
// payment event consumer.
func (s *PaymentService) HandleTransactionFailed(ctx context.Context, event events.TransactionFailedEvent) error {
	txn, err := s.transactions.FindByID(ctx, event.TransactionID)
	if err != nil {
		return err
	}
	if err := txn.MarkFailed(event.Reason); err != nil {
		return err
	}
	if err := s.transactions.Update(ctx, txn); err != nil {
		return err
	}

	s.logger.Warn("transaction failed",
		zap.String("transaction_id", txn.ID().String()),
		zap.String("booking_id", txn.BookingID().String()),
		zap.String("reason", event.Reason),
	)
	return nil
}

// GetTransaction retrieves a transaction visible to the caller.
func (s *PaymentService) GetTransaction(ctx context.Context, txnID, callerID uuid.UUID, isAdmin bool) (*TransactionDTO, error) {
	txn, err := s.transactions.FindByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && txn.StudentID() != callerID && txn.MentorID() != callerID {
		return nil, domain.NewForbiddenError("transaction does not belong to this user")
	}
	result := toTransactionDTO(txn)
	return &result, nil
}

// ListStudentTransactions retrieves a student's paginated transactions.
func (s *PaymentService) ListStudentTransactions(ctx context.Context, studentID uuid.UUID, page, limit int) (*domain.PaginatedResult[TransactionDTO], error) {
	txns, total, err := s.transactions.FindByStudentID(ctx, studentID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	result := domain.NewPaginatedResult(toTransactionDTOs(txns), total, page, limit)
	return &result, nil
}

// ListAllTransactions retrieves all transactions with pagination (admin).
func (s *PaymentService) ListAllTransactions(ctx context.Context, page, limit int) ([]TransactionDTO, int64, error) {
	txns, total, err := s.transactions.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return toTransactionDTOs(txns), total, nil
}

func toTransactionDTO(t *paymentDomain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          t.ID(),
		BookingID:   t.BookingID(),
		StudentID:   t.StudentID(),
		MentorID:    t.MentorID(),
		Amount:      t.Amount(),
		Currency:    t.Currency(),
		Provider:    t.Provider(),
		Status:      string(t.Status()),
		ExternalID:  t.ExternalID(),
		FailureNote: t.FailureNote(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func toTransactionDTOs(txns []*paymentDomain.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txns))
	for i, t := range txns {
		dtos[i] = toTransactionDTO(t)
	}
	return dtos
}
