package mentor

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a mentor search. Zero values mean "no constraint".
type SearchFilter struct {
	University string
	Program    string
	Language   string // substring match against the languages list
	MinRate    *float64
	MaxRate    *float64
	Status     ApprovalStatus
	SortBy     string // "hourly_rate" or "created_at" (default)
}

// ProfileRepository defines the persistence contract for mentor profiles.
type ProfileRepository interface {
	// FindByID retrieves a profile by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// FindByUserID retrieves the profile owned by a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// Search retrieves profiles matching the filter with pagination.
	Search(ctx context.Context, filter SearchFilter, page, limit int) ([]*Profile, int64, error)

	// Save persists a new profile.
	Save(ctx context.Context, profile *Profile) error

	// Update persists changes to an existing profile with optimistic locking.
	Update(ctx context.Context, profile *Profile) error
}
