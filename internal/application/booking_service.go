package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/unimentor/service-booking/internal/domain/booking"
	mentorDomain "github.com/unimentor/service-booking/internal/domain/mentor"
	"github.com/unimentor/service-booking/internal/events"
	"github.com/unimentor/service-booking/internal/platform/domain"
	"github.com/unimentor/service-booking/internal/platform/kafka"
)

const eventSource = "service-booking"

// EventPublisher publishes cloud events to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	MentorProfileID uuid.UUID `json:"mentor_profile_id" binding:"required"`
	SessionDate     string    `json:"session_date" binding:"required"` // YYYY-MM-DD
	SessionTime     string    `json:"session_time" binding:"required"` // HH:MM
	DurationMinutes int       `json:"duration_minutes" binding:"required"`
	Subject         string    `json:"subject" binding:"required"`
	Description     string    `json:"description" binding:"required"`
}

// BookingDTO is the response representation of a booking. Monetary and
// advisory fields are computed at conversion time.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	BookingNumber   string     `json:"booking_number"`
	StudentID       uuid.UUID  `json:"student_id"`
	MentorID        uuid.UUID  `json:"mentor_id"`
	Status          string     `json:"status"`
	Bucket          string     `json:"bucket"`
	SessionDate     string     `json:"session_date"`
	SessionTime     string     `json:"session_time"`
	DurationMinutes int        `json:"duration_minutes"`
	HourlyRate      float64    `json:"hourly_rate"`
	Subject         string     `json:"subject"`
	Description     string     `json:"description,omitempty"`
	MeetLink        string     `json:"meet_link,omitempty"`
	PaymentID       string     `json:"payment_id,omitempty"`
	CancelNote      string     `json:"cancel_note,omitempty"`
	CanCancel       bool       `json:"can_cancel"`
	CanReschedule   bool       `json:"can_reschedule"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// QuoteDTO is the presentation form of a pricing quote, rounded to cents.
type QuoteDTO struct {
	HourlyRate      float64 `json:"hourly_rate"`
	DurationMinutes int     `json:"duration_minutes"`
	FeeRate         float64 `json:"fee_rate"`
	Subtotal        float64 `json:"subtotal"`
	PlatformFee     float64 `json:"platform_fee"`
	Total           float64 `json:"total"`
	Currency        string  `json:"currency"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	mentors   mentorDomain.ProfileRepository
	publisher EventPublisher
	logger    *zap.Logger
	feeRate   float64
}

// NewBookingService creates a new BookingService. feeRate is the configured
// platform fee fraction used for every quote.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	mentors mentorDomain.ProfileRepository,
	publisher EventPublisher,
	logger *zap.Logger,
	feeRate float64,
) *BookingService {
	if feeRate <= 0 {
		feeRate = bookingDomain.DefaultPlatformFeeRate
	}
	return &BookingService{
		bookings:  bookings,
		mentors:   mentors,
		publisher: publisher,
		logger:    logger,
		feeRate:   feeRate,
	}
}

// FeeRate returns the configured platform fee fraction.
func (s *BookingService) FeeRate() float64 {
	return s.feeRate
}

// CreateBooking validates the request, snapshots the mentor's rate, and
// persists a pending booking. Validation failures never reach the store.
func (s *BookingService) CreateBooking(ctx context.Context, studentID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	profile, err := s.mentors.FindByID(ctx, req.MentorProfileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsApproved() {
		return nil, domain.NewValidationError("mentor is not accepting bookings")
	}

	sessionDate, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid session date %q, expected YYYY-MM-DD", req.SessionDate))
	}

	bk, err := bookingDomain.NewBooking(
		studentID,
		profile.UserID(),
		sessionDate,
		req.SessionTime,
		req.DurationMinutes,
		profile.HourlyRate(),
		req.Subject,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	quote, err := bookingDomain.NewQuote(bk.HourlyRate(), bk.DurationMinutes(), s.feeRate)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, bk.ID().String(), events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		StudentID:     bk.StudentID(),
		MentorID:      bk.MentorID(),
		Subject:       bk.Subject(),
		SessionStart:  bk.SessionStart(),
		Total:         bookingDomain.RoundCents(quote.Total),
		Currency:      domain.CurrencyUSD,
		OccurredAt:    time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// AcceptBooking lets the booked mentor accept a pending booking.
func (s *BookingService) AcceptBooking(ctx context.Context, bookingID, mentorUserID uuid.UUID) (*BookingDTO, error) {
	return s.decide(ctx, bookingID, mentorUserID, events.BookingAccepted, func(bk *bookingDomain.Booking) error {
		return bk.Accept(bookingDomain.ActorMentor)
	})
}

// RejectBooking lets the booked mentor reject a pending booking.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID, mentorUserID uuid.UUID) (*BookingDTO, error) {
	return s.decide(ctx, bookingID, mentorUserID, events.BookingRejected, func(bk *bookingDomain.Booking) error {
		return bk.Reject(bookingDomain.ActorMentor)
	})
}

// CompleteBooking lets the booked mentor mark an accepted session completed.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, mentorUserID uuid.UUID) (*BookingDTO, error) {
	return s.decide(ctx, bookingID, mentorUserID, events.BookingCompleted, func(bk *bookingDomain.Booking) error {
		return bk.Complete(bookingDomain.ActorMentor)
	})
}

func (s *BookingService) decide(ctx context.Context, bookingID, mentorUserID uuid.UUID, eventType string, apply func(*bookingDomain.Booking) error) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.MentorID() != mentorUserID {
		return nil, domain.NewForbiddenError("booking is not addressed to this mentor")
	}

	if err := apply(bk); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TopicBookingEvents, eventType, bk.ID().String(), events.BookingDecisionEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		StudentID:     bk.StudentID(),
		MentorID:      bk.MentorID(),
		Status:        string(bk.Status()),
		MeetLink:      bk.MeetLink(),
		OccurredAt:    time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking lets either participant cancel a pending or accepted booking
// while the cancellation window is open.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, callerID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var actor bookingDomain.Actor
	switch callerID {
	case bk.StudentID():
		actor = bookingDomain.ActorStudent
	case bk.MentorID():
		actor = bookingDomain.ActorMentor
	default:
		return nil, domain.NewForbiddenError("only participants may cancel a booking")
	}

	if err := bk.Cancel(actor, reason, time.Now().UTC()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, bk.ID().String(), events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CancelledBy:   callerID,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking visible to the caller.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, callerID uuid.UUID, isAdmin bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bk.StudentID() != callerID && bk.MentorID() != callerID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetStudentBookings retrieves paginated bookings created by a student,
// optionally narrowed to one display bucket. Bucket filtering runs over the
// student's full booking set before paging, so the page and total reflect
// the filtered collection rather than one database page.
func (s *BookingService) GetStudentBookings(ctx context.Context, studentID uuid.UUID, bucket *bookingDomain.Bucket, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if bucket == nil {
		bookings, total, err := s.bookings.FindByStudentID(ctx, studentID, page, limit)
		if err != nil {
			return nil, err
		}
		result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
		return &result, nil
	}

	bookings, err := s.bookings.FindAllByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return bucketedResult(bookings, *bucket, page, limit), nil
}

// GetMentorBookings retrieves paginated bookings addressed to a mentor,
// optionally narrowed to one display bucket. Bucket filtering runs over the
// mentor's full booking set before paging.
func (s *BookingService) GetMentorBookings(ctx context.Context, mentorUserID uuid.UUID, bucket *bookingDomain.Bucket, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if bucket == nil {
		bookings, total, err := s.bookings.FindByMentorID(ctx, mentorUserID, page, limit)
		if err != nil {
			return nil, err
		}
		result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
		return &result, nil
	}

	bookings, err := s.bookings.FindAllByMentorID(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}
	return bucketedResult(bookings, *bucket, page, limit), nil
}

// QuoteBooking returns the price breakdown for a booking visible to the caller.
func (s *BookingService) QuoteBooking(ctx context.Context, bookingID, callerID uuid.UUID, isAdmin bool) (*QuoteDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bk.StudentID() != callerID && bk.MentorID() != callerID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	quote, err := bookingDomain.NewQuote(bk.HourlyRate(), bk.DurationMinutes(), s.feeRate)
	if err != nil {
		return nil, err
	}
	dto := toQuoteDTO(quote)
	return &dto, nil
}

// AttachPayment records a successful payment reference on the booking.
func (s *BookingService) AttachPayment(ctx context.Context, bookingID uuid.UUID, paymentRef string) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := bk.AttachPayment(paymentRef); err != nil {
		return err
	}
	bk.IncrementVersion()
	return s.bookings.Update(ctx, bk)
}

// --- Admin methods ---

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// bucketedResult filters the full booking set by bucket, then slices out the
// requested page. The total is the filtered count across all pages.
func bucketedResult(bookings []*bookingDomain.Booking, bucket bookingDomain.Bucket, page, limit int) *domain.PaginatedResult[BookingDTO] {
	filtered := bookingDomain.FilterByBucket(bookings, bucket, time.Now().UTC())
	total := int64(len(filtered))

	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	result := domain.NewPaginatedResult(toBookingDTOs(filtered[start:end]), total, page, limit)
	return &result
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	now := time.Now().UTC()
	return BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		StudentID:       bk.StudentID(),
		MentorID:        bk.MentorID(),
		Status:          string(bk.Status()),
		Bucket:          string(bk.Classify(now)),
		SessionDate:     bk.SessionDate().Format("2006-01-02"),
		SessionTime:     bk.SessionTime(),
		DurationMinutes: bk.DurationMinutes(),
		HourlyRate:      bk.HourlyRate(),
		Subject:         bk.Subject(),
		Description:     bk.Description(),
		MeetLink:        bk.MeetLink(),
		PaymentID:       bk.PaymentID(),
		CancelNote:      bk.CancelNote(),
		CanCancel:       bk.CanCancel(now),
		CanReschedule:   bk.CanReschedule(now),
		CompletedAt:     bk.CompletedAt(),
		CancelledAt:     bk.CancelledAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func toQuoteDTO(q bookingDomain.Quote) QuoteDTO {
	return QuoteDTO{
		HourlyRate:      q.HourlyRate,
		DurationMinutes: q.DurationMinutes,
		FeeRate:         q.FeeRate,
		Subtotal:        bookingDomain.RoundCents(q.Subtotal),
		PlatformFee:     bookingDomain.RoundCents(q.PlatformFee),
		Total:           bookingDomain.RoundCents(q.Total),
		Currency:        domain.CurrencyUSD,
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, subject string, data interface{}) {
	publishEvent(ctx, s.publisher, s.logger, topic, eventType, subject, data)
}

// publishEvent wraps the payload in a cloud event and publishes it, keyed by
// the subject so events about one entity stay ordered. Publish failures are
// logged, never surfaced: the store mutation already succeeded.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType, subject string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, subject, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
