package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/unimentor/service-booking/internal/domain/booking"
	mentorDomain "github.com/unimentor/service-booking/internal/domain/mentor"
	"github.com/unimentor/service-booking/internal/events"
	"github.com/unimentor/service-booking/internal/platform/domain"
)

func approvedProfile(t *testing.T, rate float64) *mentorDomain.Profile {
	t.Helper()
	p, err := mentorDomain.NewProfile(uuid.New(), "Test Mentor", "State University", "CS", 3,
		[]string{"English"}, rate, "", nil, "")
	require.NoError(t, err)
	require.NoError(t, p.Approve())
	return p
}

func seedBooking(status bookingDomain.BookingStatus, studentID, mentorID uuid.UUID, sessionStart time.Time) *bookingDomain.Booking {
	now := time.Now().UTC()
	return bookingDomain.ReconstructBooking(
		uuid.New(), "BK-SVCT01", studentID, mentorID, status,
		sessionStart, sessionStart.Format("15:04"), 60, 75.0,
		"Calculus", "Weekly calculus tutoring session",
		"", "", "", nil, nil, 1, now, now,
	)
}

func newTestBookingService(bookings *mockBookingRepo, mentors *mockMentorRepo, pub *capturingPublisher) *BookingService {
	return NewBookingService(bookings, mentors, pub, zap.NewNop(), 0.05)
}

func TestCreateBooking(t *testing.T) {
	profile := approvedProfile(t, 75)
	var saved *bookingDomain.Booking

	mentors := &mockMentorRepo{
		findByID: func(_ context.Context, id uuid.UUID) (*mentorDomain.Profile, error) {
			require.Equal(t, profile.ID(), id)
			return profile, nil
		},
	}
	bookings := &mockBookingRepo{
		save: func(_ context.Context, bk *bookingDomain.Booking) error {
			saved = bk
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, mentors, pub)

	studentID := uuid.New()
	dto, err := svc.CreateBooking(context.Background(), studentID, CreateBookingRequest{
		MentorProfileID: profile.ID(),
		SessionDate:     time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		SessionTime:     "14:30",
		DurationMinutes: 60,
		Subject:         "Calculus",
		Description:     "Weekly calculus tutoring session",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, studentID, dto.StudentID)
	assert.Equal(t, profile.UserID(), dto.MentorID)
	// Rate snapshotted from the profile at creation time.
	assert.Equal(t, 75.0, dto.HourlyRate)
	assert.Equal(t, "pending", dto.Bucket)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TopicBookingEvents, published[0].topic)
	assert.Equal(t, events.BookingRequested, published[0].event.Type)
	// Subject carries the booking ID so all events for one booking share a
	// partition key.
	assert.Equal(t, saved.ID().String(), published[0].event.Subject)

	var payload events.BookingRequestedEvent
	require.NoError(t, published[0].event.ParseData(&payload))
	assert.Equal(t, saved.ID(), payload.BookingID)
	assert.Equal(t, 78.75, payload.Total)
}

func TestCreateBooking_MentorNotApproved(t *testing.T) {
	profile, err := mentorDomain.NewProfile(uuid.New(), "Pending Mentor", "", "", 0,
		nil, 50, "", nil, "")
	require.NoError(t, err)

	mentors := &mockMentorRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*mentorDomain.Profile, error) {
			return profile, nil
		},
	}
	bookings := &mockBookingRepo{
		save: func(_ context.Context, _ *bookingDomain.Booking) error {
			t.Fatal("save must not be called")
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, mentors, pub)

	_, err = svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		MentorProfileID: profile.ID(),
		SessionDate:     time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		SessionTime:     "14:30",
		DurationMinutes: 60,
		Subject:         "Calculus",
		Description:     "Weekly calculus tutoring session",
	})
	require.Error(t, err)
	assert.Empty(t, pub.published())
}

func TestCreateBooking_InvalidRequestNeverReachesStore(t *testing.T) {
	profile := approvedProfile(t, 75)
	mentors := &mockMentorRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*mentorDomain.Profile, error) {
			return profile, nil
		},
	}
	bookings := &mockBookingRepo{
		save: func(_ context.Context, _ *bookingDomain.Booking) error {
			t.Fatal("save must not be called")
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, mentors, pub)

	// Duration below the minimum.
	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		MentorProfileID: profile.ID(),
		SessionDate:     time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		SessionTime:     "14:30",
		DurationMinutes: 15,
		Subject:         "Calculus",
		Description:     "Weekly calculus tutoring session",
	})
	require.Error(t, err)

	// Unparseable date.
	_, err = svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		MentorProfileID: profile.ID(),
		SessionDate:     "07/03/2026",
		SessionTime:     "14:30",
		DurationMinutes: 60,
		Subject:         "Calculus",
		Description:     "Weekly calculus tutoring session",
	})
	require.Error(t, err)
	assert.Empty(t, pub.published())
}

func TestAcceptBooking(t *testing.T) {
	mentorID := uuid.New()
	bk := seedBooking(bookingDomain.StatusPending, uuid.New(), mentorID, time.Now().UTC().Add(72*time.Hour))

	var updated *bookingDomain.Booking
	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
			require.Equal(t, bk.ID(), id)
			return bk, nil
		},
		update: func(_ context.Context, b *bookingDomain.Booking) error {
			updated = b
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	dto, err := svc.AcceptBooking(context.Background(), bk.ID(), mentorID)
	require.NoError(t, err)

	assert.Equal(t, "accepted", dto.Status)
	assert.NotEmpty(t, dto.MeetLink)
	assert.Equal(t, int64(2), dto.Version)
	require.NotNil(t, updated)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.BookingAccepted, published[0].event.Type)
	assert.Equal(t, bk.ID().String(), published[0].event.Subject)

	var payload events.BookingDecisionEvent
	require.NoError(t, published[0].event.ParseData(&payload))
	assert.Equal(t, "accepted", payload.Status)
	assert.Equal(t, dto.MeetLink, payload.MeetLink)
}

func TestAcceptBooking_WrongMentor(t *testing.T) {
	bk := seedBooking(bookingDomain.StatusPending, uuid.New(), uuid.New(), time.Now().UTC().Add(72*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
		update: func(_ context.Context, _ *bookingDomain.Booking) error {
			t.Fatal("update must not be called")
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	_, err := svc.AcceptBooking(context.Background(), bk.ID(), uuid.New())
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeForbidden, de.Code)
	assert.Empty(t, pub.published())
}

func TestCompleteBooking_RequiresAccepted(t *testing.T) {
	mentorID := uuid.New()
	bk := seedBooking(bookingDomain.StatusPending, uuid.New(), mentorID, time.Now().UTC().Add(72*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	_, err := svc.CompleteBooking(context.Background(), bk.ID(), mentorID)
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeInvalidState, de.Code)
}

func TestCancelBooking_ByStudent(t *testing.T) {
	studentID := uuid.New()
	bk := seedBooking(bookingDomain.StatusAccepted, studentID, uuid.New(), time.Now().UTC().Add(72*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
		update: func(_ context.Context, _ *bookingDomain.Booking) error {
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	dto, err := svc.CancelBooking(context.Background(), bk.ID(), studentID, "schedule conflict")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", dto.Status)
	assert.Equal(t, "schedule conflict", dto.CancelNote)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.BookingCancelled, published[0].event.Type)
}

func TestCancelBooking_NonParticipantForbidden(t *testing.T) {
	bk := seedBooking(bookingDomain.StatusAccepted, uuid.New(), uuid.New(), time.Now().UTC().Add(72*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	_, err := svc.CancelBooking(context.Background(), bk.ID(), uuid.New(), "")
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeForbidden, de.Code)
}

func TestCancelBooking_InsideWindow(t *testing.T) {
	studentID := uuid.New()
	bk := seedBooking(bookingDomain.StatusAccepted, studentID, uuid.New(), time.Now().UTC().Add(20*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	_, err := svc.CancelBooking(context.Background(), bk.ID(), studentID, "too late")
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodePreconditionFailed, de.Code)
	assert.Empty(t, pub.published())
}

func TestGetStudentBookings_BucketFilter(t *testing.T) {
	studentID := uuid.New()
	now := time.Now().UTC()
	upcoming := seedBooking(bookingDomain.StatusAccepted, studentID, uuid.New(), now.Add(72*time.Hour))
	pending := seedBooking(bookingDomain.StatusPending, studentID, uuid.New(), now.Add(72*time.Hour))
	past := seedBooking(bookingDomain.StatusCompleted, studentID, uuid.New(), now.Add(-72*time.Hour))

	bookings := &mockBookingRepo{
		findByStudentID: func(_ context.Context, id uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
			require.Equal(t, studentID, id)
			return []*bookingDomain.Booking{upcoming, pending, past}, 3, nil
		},
		findAllByStudentID: func(_ context.Context, id uuid.UUID) ([]*bookingDomain.Booking, error) {
			require.Equal(t, studentID, id)
			return []*bookingDomain.Booking{upcoming, pending, past}, nil
		},
	}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, &capturingPublisher{})

	bucket := bookingDomain.BucketUpcoming
	result, err := svc.GetStudentBookings(context.Background(), studentID, &bucket, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, upcoming.ID(), result.Items[0].ID)
	assert.Equal(t, "upcoming", result.Items[0].Bucket)
	assert.Equal(t, int64(1), result.Total)

	// No filter returns every booking with its own bucket.
	result, err = svc.GetStudentBookings(context.Background(), studentID, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, int64(3), result.Total)
}

func TestGetStudentBookings_BucketFilterSpansPages(t *testing.T) {
	studentID := uuid.New()
	now := time.Now().UTC()
	// With limit 1, a DB page would hold only the newest booking (pending);
	// the accepted future booking sits on the next DB page. The bucket filter
	// must still find it.
	pending := seedBooking(bookingDomain.StatusPending, studentID, uuid.New(), now.Add(72*time.Hour))
	upcoming := seedBooking(bookingDomain.StatusAccepted, studentID, uuid.New(), now.Add(96*time.Hour))

	bookings := &mockBookingRepo{
		findAllByStudentID: func(_ context.Context, id uuid.UUID) ([]*bookingDomain.Booking, error) {
			require.Equal(t, studentID, id)
			return []*bookingDomain.Booking{pending, upcoming}, nil
		},
	}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, &capturingPublisher{})

	bucket := bookingDomain.BucketUpcoming
	result, err := svc.GetStudentBookings(context.Background(), studentID, &bucket, 1, 1)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, upcoming.ID(), result.Items[0].ID)
	assert.Equal(t, int64(1), result.Total)

	// Past the last filtered page: empty items, unchanged total.
	result, err = svc.GetStudentBookings(context.Background(), studentID, &bucket, 2, 1)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(1), result.Total)
}

func TestGetMentorBookings_BucketFilter(t *testing.T) {
	mentorID := uuid.New()
	now := time.Now().UTC()
	upcoming := seedBooking(bookingDomain.StatusAccepted, uuid.New(), mentorID, now.Add(72*time.Hour))
	past := seedBooking(bookingDomain.StatusCompleted, uuid.New(), mentorID, now.Add(-72*time.Hour))

	bookings := &mockBookingRepo{
		findAllByMentorID: func(_ context.Context, id uuid.UUID) ([]*bookingDomain.Booking, error) {
			require.Equal(t, mentorID, id)
			return []*bookingDomain.Booking{upcoming, past}, nil
		},
	}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, &capturingPublisher{})

	bucket := bookingDomain.BucketPast
	result, err := svc.GetMentorBookings(context.Background(), mentorID, &bucket, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, past.ID(), result.Items[0].ID)
	assert.Equal(t, int64(1), result.Total)
}

func TestQuoteBooking(t *testing.T) {
	studentID := uuid.New()
	bk := seedBooking(bookingDomain.StatusAccepted, studentID, uuid.New(), time.Now().UTC().Add(72*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
	}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, &capturingPublisher{})

	quote, err := svc.QuoteBooking(context.Background(), bk.ID(), studentID, false)
	require.NoError(t, err)
	assert.Equal(t, 75.0, quote.Subtotal)
	assert.Equal(t, 3.75, quote.PlatformFee)
	assert.Equal(t, 78.75, quote.Total)
	assert.Equal(t, 0.05, quote.FeeRate)

	// Strangers get nothing.
	_, err = svc.QuoteBooking(context.Background(), bk.ID(), uuid.New(), false)
	require.Error(t, err)

	// Admins always can.
	_, err = svc.QuoteBooking(context.Background(), bk.ID(), uuid.New(), true)
	require.NoError(t, err)
}

func TestGetBookingStats(t *testing.T) {
	bookings := &mockBookingRepo{
		countByStatus: func(_ context.Context) (map[string]int64, error) {
			return map[string]int64{"pending": 3, "accepted": 2, "completed": 7}, nil
		},
	}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, &capturingPublisher{})

	stats, err := svc.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.ByStatus["pending"])
}

func TestBookingService_PublishFailureDoesNotFailRequest(t *testing.T) {
	mentorID := uuid.New()
	bk := seedBooking(bookingDomain.StatusPending, uuid.New(), mentorID, time.Now().UTC().Add(72*time.Hour))

	bookings := &mockBookingRepo{
		findByID: func(_ context.Context, _ uuid.UUID) (*bookingDomain.Booking, error) {
			return bk, nil
		},
		update: func(_ context.Context, _ *bookingDomain.Booking) error {
			return nil
		},
	}
	pub := &capturingPublisher{err: assert.AnError}
	svc := newTestBookingService(bookings, &mockMentorRepo{}, pub)

	dto, err := svc.AcceptBooking(context.Background(), bk.ID(), mentorID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", dto.Status)
}
