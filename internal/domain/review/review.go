package review

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

// Rating bounds. A review carries a whole-star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a student's rating of a mentor. Both parties are referenced by
// their user ID, not the mentor's profile ID.
type Review struct {
	id        uuid.UUID
	studentID uuid.UUID
	mentorID  uuid.UUID
	rating    int
	comment   string
	createdAt time.Time
}

// NewReview creates a review with validated fields. The comment is optional.
func NewReview(studentID, mentorID uuid.UUID, rating int, comment string) (*Review, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student ID is required")
	}
	if mentorID == uuid.Nil {
		return nil, domain.NewValidationError("mentor ID is required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, domain.NewInvalidInputError("rating must be between 1 and 5")
	}

	return &Review{
		id:        uuid.New(),
		studentID: studentID,
		mentorID:  mentorID,
		rating:    rating,
		comment:   strings.TrimSpace(comment),
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id, studentID, mentorID uuid.UUID, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:        id,
		studentID: studentID,
		mentorID:  mentorID,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
	}
}

// ID returns the review's unique identifier.
func (r *Review) ID() uuid.UUID { return r.id }

// StudentID returns the authoring student's user ID.
func (r *Review) StudentID() uuid.UUID { return r.studentID }

// MentorID returns the reviewed mentor's user ID.
func (r *Review) MentorID() uuid.UUID { return r.mentorID }

// Rating returns the star rating.
func (r *Review) Rating() int { return r.rating }

// Comment returns the optional free-form comment.
func (r *Review) Comment() string { return r.comment }

// CreatedAt returns the creation timestamp.
func (r *Review) CreatedAt() time.Time { return r.createdAt }
