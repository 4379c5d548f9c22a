package mentor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

// ApprovalStatus is the moderation state of a mentor profile. New profiles
// start pending; only approved profiles appear in student search.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// IsValid returns true if the status is recognized.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true once moderation has decided either way.
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Profile is the aggregate root for a mentor's public listing.
type Profile struct {
	id                      uuid.UUID
	userID                  uuid.UUID
	displayName             string
	university              string
	program                 string
	year                    int
	languages               []string
	hourlyRate              float64
	achievements            string
	availability            []string
	verificationDocumentURL string
	status                  ApprovalStatus
	version                 int64
	createdAt               time.Time
	updatedAt               time.Time
}

// NewProfile creates a pending mentor profile with validated fields.
func NewProfile(
	userID uuid.UUID,
	displayName, university, program string,
	year int,
	languages []string,
	hourlyRate float64,
	achievements string,
	availability []string,
	verificationDocumentURL string,
) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, domain.NewValidationError("display name is required")
	}
	if hourlyRate <= 0 {
		return nil, domain.NewInvalidInputError("hourly rate must be positive")
	}

	now := time.Now().UTC()
	return &Profile{
		id:                      uuid.New(),
		userID:                  userID,
		displayName:             strings.TrimSpace(displayName),
		university:              university,
		program:                 program,
		year:                    year,
		languages:               normalizeLanguages(languages),
		hourlyRate:              hourlyRate,
		achievements:            achievements,
		availability:            availability,
		verificationDocumentURL: verificationDocumentURL,
		status:                  StatusPending,
		version:                 1,
		createdAt:               now,
		updatedAt:               now,
	}, nil
}

// ReconstructProfile rebuilds a Profile from persistence data (no validation).
func ReconstructProfile(
	id, userID uuid.UUID,
	displayName, university, program string,
	year int,
	languages []string,
	hourlyRate float64,
	achievements string,
	availability []string,
	verificationDocumentURL string,
	status ApprovalStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		id:                      id,
		userID:                  userID,
		displayName:             displayName,
		university:              university,
		program:                 program,
		year:                    year,
		languages:               languages,
		hourlyRate:              hourlyRate,
		achievements:            achievements,
		availability:            availability,
		verificationDocumentURL: verificationDocumentURL,
		status:                  status,
		version:                 version,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}
}

// --- Getters ---

// ID returns the profile's unique identifier.
func (p *Profile) ID() uuid.UUID { return p.id }

// UserID returns the owning user's ID.
func (p *Profile) UserID() uuid.UUID { return p.userID }

// DisplayName returns the mentor's listed name.
func (p *Profile) DisplayName() string { return p.displayName }

// University returns the mentor's university.
func (p *Profile) University() string { return p.university }

// Program returns the mentor's study program.
func (p *Profile) Program() string { return p.program }

// Year returns the study or graduation year.
func (p *Profile) Year() int { return p.year }

// Languages returns the languages the mentor teaches in.
func (p *Profile) Languages() []string { return p.languages }

// HourlyRate returns the mentor's current hourly rate.
func (p *Profile) HourlyRate() float64 { return p.hourlyRate }

// Achievements returns the free-form achievements text.
func (p *Profile) Achievements() string { return p.achievements }

// Availability returns the free-form availability slots.
func (p *Profile) Availability() []string { return p.availability }

// VerificationDocumentURL returns the uploaded verification document link.
func (p *Profile) VerificationDocumentURL() string { return p.verificationDocumentURL }

// Status returns the moderation status.
func (p *Profile) Status() ApprovalStatus { return p.status }

// Version returns the entity version for optimistic locking.
func (p *Profile) Version() int64 { return p.version }

// CreatedAt returns the creation timestamp.
func (p *Profile) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// IsApproved reports whether the profile is visible to students.
func (p *Profile) IsApproved() bool { return p.status == StatusApproved }

// --- Behavior ---

// Approve moves a pending profile to approved.
func (p *Profile) Approve() error {
	if p.status != StatusPending {
		return domain.NewInvalidStateError(string(p.status), string(StatusApproved))
	}
	p.status = StatusApproved
	p.updatedAt = time.Now().UTC()
	return nil
}

// Reject moves a pending profile to rejected.
func (p *Profile) Reject() error {
	if p.status != StatusPending {
		return domain.NewInvalidStateError(string(p.status), string(StatusRejected))
	}
	p.status = StatusRejected
	p.updatedAt = time.Now().UTC()
	return nil
}

// UpdateListing replaces the mentor-editable fields. Moderation status is
// not touched.
func (p *Profile) UpdateListing(
	displayName, university, program string,
	year int,
	languages []string,
	hourlyRate float64,
	achievements string,
	availability []string,
) error {
	if strings.TrimSpace(displayName) == "" {
		return domain.NewValidationError("display name is required")
	}
	if hourlyRate <= 0 {
		return domain.NewInvalidInputError("hourly rate must be positive")
	}
	p.displayName = strings.TrimSpace(displayName)
	p.university = university
	p.program = program
	p.year = year
	p.languages = normalizeLanguages(languages)
	p.hourlyRate = hourlyRate
	p.achievements = achievements
	p.availability = availability
	p.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (p *Profile) IncrementVersion() {
	p.version++
	p.updatedAt = time.Now().UTC()
}

func normalizeLanguages(languages []string) []string {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
