package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/unimentor/service-booking/internal/domain/booking"
	mentorDomain "github.com/unimentor/service-booking/internal/domain/mentor"
	paymentDomain "github.com/unimentor/service-booking/internal/domain/payment"
	reviewDomain "github.com/unimentor/service-booking/internal/domain/review"
	"github.com/unimentor/service-booking/internal/platform/domain"
	"github.com/unimentor/service-booking/internal/platform/kafka"
)

// mockBookingRepo implements booking.BookingRepository with function fields.
type mockBookingRepo struct {
	findByID              func(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error)
	findByNumber          func(ctx context.Context, number string) (*bookingDomain.Booking, error)
	findByStudentID       func(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error)
	findByMentorID        func(ctx context.Context, mentorID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error)
	findAllByStudentID    func(ctx context.Context, studentID uuid.UUID) ([]*bookingDomain.Booking, error)
	findAllByMentorID     func(ctx context.Context, mentorID uuid.UUID) ([]*bookingDomain.Booking, error)
	findByMentorAndStatus func(ctx context.Context, mentorID uuid.UUID, statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error)
	listAll               func(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error)
	countByStatus         func(ctx context.Context) (map[string]int64, error)
	save                  func(ctx context.Context, bk *bookingDomain.Booking) error
	update                func(ctx context.Context, bk *bookingDomain.Booking) error
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	return m.findByID(ctx, id)
}

func (m *mockBookingRepo) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	return m.findByNumber(ctx, number)
}

func (m *mockBookingRepo) FindByStudentID(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return m.findByStudentID(ctx, studentID, page, limit)
}

func (m *mockBookingRepo) FindByMentorID(ctx context.Context, mentorID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return m.findByMentorID(ctx, mentorID, page, limit)
}

func (m *mockBookingRepo) FindAllByStudentID(ctx context.Context, studentID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return m.findAllByStudentID(ctx, studentID)
}

func (m *mockBookingRepo) FindAllByMentorID(ctx context.Context, mentorID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return m.findAllByMentorID(ctx, mentorID)
}

func (m *mockBookingRepo) FindByMentorAndStatus(ctx context.Context, mentorID uuid.UUID, statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	return m.findByMentorAndStatus(ctx, mentorID, statuses)
}

func (m *mockBookingRepo) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return m.listAll(ctx, page, limit)
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return m.countByStatus(ctx)
}

func (m *mockBookingRepo) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.save(ctx, bk)
}

func (m *mockBookingRepo) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.update(ctx, bk)
}

// mockMentorRepo implements mentor.ProfileRepository with function fields.
type mockMentorRepo struct {
	findByID     func(ctx context.Context, id uuid.UUID) (*mentorDomain.Profile, error)
	findByUserID func(ctx context.Context, userID uuid.UUID) (*mentorDomain.Profile, error)
	search       func(ctx context.Context, filter mentorDomain.SearchFilter, page, limit int) ([]*mentorDomain.Profile, int64, error)
	save         func(ctx context.Context, profile *mentorDomain.Profile) error
	update       func(ctx context.Context, profile *mentorDomain.Profile) error
}

func (m *mockMentorRepo) FindByID(ctx context.Context, id uuid.UUID) (*mentorDomain.Profile, error) {
	return m.findByID(ctx, id)
}

func (m *mockMentorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*mentorDomain.Profile, error) {
	return m.findByUserID(ctx, userID)
}

func (m *mockMentorRepo) Search(ctx context.Context, filter mentorDomain.SearchFilter, page, limit int) ([]*mentorDomain.Profile, int64, error) {
	return m.search(ctx, filter, page, limit)
}

func (m *mockMentorRepo) Save(ctx context.Context, profile *mentorDomain.Profile) error {
	return m.save(ctx, profile)
}

func (m *mockMentorRepo) Update(ctx context.Context, profile *mentorDomain.Profile) error {
	return m.update(ctx, profile)
}

// mockTransactionRepo implements payment.TransactionRepository with function fields.
type mockTransactionRepo struct {
	findByID        func(ctx context.Context, id uuid.UUID) (*paymentDomain.Transaction, error)
	findByBookingID func(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Transaction, error)
	findByStudentID func(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*paymentDomain.Transaction, int64, error)
	listAll         func(ctx context.Context, page, limit int) ([]*paymentDomain.Transaction, int64, error)
	save            func(ctx context.Context, txn *paymentDomain.Transaction) error
	update          func(ctx context.Context, txn *paymentDomain.Transaction) error
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Transaction, error) {
	return m.findByID(ctx, id)
}

func (m *mockTransactionRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Transaction, error) {
	return m.findByBookingID(ctx, bookingID)
}

func (m *mockTransactionRepo) FindByStudentID(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*paymentDomain.Transaction, int64, error) {
	return m.findByStudentID(ctx, studentID, page, limit)
}

func (m *mockTransactionRepo) ListAll(ctx context.Context, page, limit int) ([]*paymentDomain.Transaction, int64, error) {
	return m.listAll(ctx, page, limit)
}

func (m *mockTransactionRepo) Save(ctx context.Context, txn *paymentDomain.Transaction) error {
	return m.save(ctx, txn)
}

func (m *mockTransactionRepo) Update(ctx context.Context, txn *paymentDomain.Transaction) error {
	return m.update(ctx, txn)
}

// mockReviewRepo implements review.ReviewRepository with function fields.
type mockReviewRepo struct {
	findByID func(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error)
	list     func(ctx context.Context, mentorID *uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error)
	save     func(ctx context.Context, rv *reviewDomain.Review) error
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	return m.findByID(ctx, id)
}

func (m *mockReviewRepo) List(ctx context.Context, mentorID *uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	return m.list(ctx, mentorID, page, limit)
}

func (m *mockReviewRepo) Save(ctx context.Context, rv *reviewDomain.Review) error {
	return m.save(ctx, rv)
}

// capturingPublisher records every published event.
type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	topic string
	event kafka.CloudEvent
}

func (p *capturingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *capturingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func notFound(entity string) error {
	return domain.NewNotFoundError(entity, uuid.Nil.String())
}
