package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentDomain "github.com/unimentor/service-booking/internal/domain/payment"
	"github.com/unimentor/service-booking/internal/platform/domain"
)

// TransactionModel is the GORM model for the transactions table.
type TransactionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID   uuid.UUID `gorm:"type:uuid;index;not null"`
	StudentID   uuid.UUID `gorm:"type:uuid;index;not null"`
	MentorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount      float64   `gorm:"not null"`
	Currency    string    `gorm:"not null;size:3;default:'USD'"`
	Provider    string    `gorm:"size:50"`
	Status      string    `gorm:"not null;size:16;index"`
	ExternalID  string    `gorm:"size:128"`
	FailureNote string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TransactionModel) TableName() string {
	return "transactions"
}

// GormTransactionRepository is the GORM-based implementation of TransactionRepository.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository.
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID retrieves a transaction by its unique identifier.
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Transaction, error) {
	var model TransactionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Transaction", id.String())
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	return toDomainTransaction(&model)
}

// FindByBookingID retrieves all transactions for a booking, newest first.
func (r *GormTransactionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Transaction, error) {
	var models []TransactionModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find transactions by booking: %w", err)
	}
	return toDomainTransactions(models)
}

// FindByStudentID retrieves a student's transactions with pagination.
func (r *GormTransactionRepository) FindByStudentID(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*paymentDomain.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TransactionModel{}).Where("student_id = ?", studentID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var models []TransactionModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find student transactions: %w", err)
	}

	txns, err := toDomainTransactions(models)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListAll retrieves all transactions with pagination (admin).
func (r *GormTransactionRepository) ListAll(ctx context.Context, page, limit int) ([]*paymentDomain.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TransactionModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var models []TransactionModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	txns, err := toDomainTransactions(models)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// Save persists a new transaction.
func (r *GormTransactionRepository) Save(ctx context.Context, txn *paymentDomain.Transaction) error {
	if err := r.db.WithContext(ctx).Create(toTransactionModel(txn)).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// Update persists changes to an existing transaction.
func (r *GormTransactionRepository) Update(ctx context.Context, txn *paymentDomain.Transaction) error {
	model := toTransactionModel(txn)
	result := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"external_id":  model.ExternalID,
			"failure_note": model.FailureNote,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Transaction", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toTransactionModel(t *paymentDomain.Transaction) *TransactionModel {
	return &TransactionModel{
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

func toDomainTransaction(m *TransactionModel) (*paymentDomain.Transaction, error) {
	status := paymentDomain.TransactionStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid transaction status: %s", m.Status)
	}

	return paymentDomain.ReconstructTransaction(
		m.ID,
		m.BookingID,
		m.StudentID,
		m.MentorID,
		m.Amount,
		m.Currency,
		m.Provider,
		status,
		m.ExternalID,
		m.FailureNote,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainTransactions(models []TransactionModel) ([]*paymentDomain.Transaction, error) {
	txns := make([]*paymentDomain.Transaction, len(models))
	for i, m := range models {
		t, err := toDomainTransaction(&m)
		if err != nil {
			return nil, err
		}
		txns[i] = t
	}
	return txns, nil
}
