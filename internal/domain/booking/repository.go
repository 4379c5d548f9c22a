package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByStudentID retrieves bookings created by a student with pagination.
	FindByStudentID(ctx context.Context, studentID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByMentorID retrieves bookings addressed to a mentor with pagination.
	FindByMentorID(ctx context.Context, mentorID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindAllByStudentID retrieves every booking created by a student, newest
	// first. Used when bucket filtering must see the full set before paging.
	FindAllByStudentID(ctx context.Context, studentID uuid.UUID) ([]*Booking, error)

	// FindAllByMentorID retrieves every booking addressed to a mentor, newest
	// first. Used when bucket filtering must see the full set before paging.
	FindAllByMentorID(ctx context.Context, mentorID uuid.UUID) ([]*Booking, error)

	// FindByMentorAndStatus retrieves all of a mentor's bookings in the given
	// statuses, unpaginated (earnings aggregation).
	FindByMentorAndStatus(ctx context.Context, mentorID uuid.UUID, statuses []BookingStatus) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
