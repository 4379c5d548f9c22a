package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the persistence contract for reviews.
type ReviewRepository interface {
	// FindByID retrieves a review by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// List retrieves reviews newest-first with pagination. A non-nil mentorID
	// restricts the listing to one mentor.
	List(ctx context.Context, mentorID *uuid.UUID, page, limit int) ([]*Review, int64, error)

	// Save persists a new review.
	Save(ctx context.Context, review *Review) error
}
