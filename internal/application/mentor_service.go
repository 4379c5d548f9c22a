package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/unimentor/service-booking/internal/domain/booking"
	mentorDomain "github.com/unimentor/service-booking/internal/domain/mentor"
	"github.com/unimentor/service-booking/internal/platform/domain"
)

// CreateProfileRequest holds the data needed to create a mentor profile.
type CreateProfileRequest struct {
	DisplayName             string   `json:"display_name" binding:"required"`
	University              string   `json:"university"`
	Program                 string   `json:"program"`
	Year                    int      `json:"year"`
	Languages               []string `json:"languages"`
	HourlyRate              float64  `json:"hourly_rate" binding:"required"`
	Achievements            string   `json:"achievements"`
	Availability            []string `json:"availability"`
	VerificationDocumentURL string   `json:"verification_document_url"`
}

// UpdateProfileRequest holds the mentor-editable listing fields.
type UpdateProfileRequest struct {
	DisplayName  string   `json:"display_name" binding:"required"`
	University   string   `json:"university"`
	Program      string   `json:"program"`
	Year         int      `json:"year"`
	Languages    []string `json:"languages"`
	HourlyRate   float64  `json:"hourly_rate" binding:"required"`
	Achievements string   `json:"achievements"`
	Availability []string `json:"availability"`
}

// SearchMentorsRequest carries the query parameters of a mentor search.
type SearchMentorsRequest struct {
	University string   `form:"university"`
	Program    string   `form:"program"`
	Language   string   `form:"language"`
	MinRate    *float64 `form:"min_price"`
	MaxRate    *float64 `form:"max_price"`
	SortBy     string   `form:"sort_by"`
}

// MentorProfileDTO is the response representation of a mentor profile.
type MentorProfileDTO struct {
	ID                      uuid.UUID `json:"id"`
	UserID                  uuid.UUID `json:"user_id"`
	DisplayName             string    `json:"display_name"`
	University              string    `json:"university,omitempty"`
	Program                 string    `json:"program,omitempty"`
	Year                    int       `json:"year,omitempty"`
	Languages               []string  `json:"languages"`
	HourlyRate              float64   `json:"hourly_rate"`
	Achievements            string    `json:"achievements,omitempty"`
	Availability            []string  `json:"availability"`
	VerificationDocumentURL string    `json:"verification_document_url,omitempty"`
	Status                  string    `json:"status"`
	Version                 int64     `json:"version"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// EarningsDTO summarizes a mentor's earnings across accepted and completed
// sessions. Values are rounded to cents.
type EarningsDTO struct {
	MentorUserID      uuid.UUID `json:"mentor_user_id"`
	SessionCount      int       `json:"session_count"`
	CompletedSessions int       `json:"completed_sessions"`
	GrossAmount       float64   `json:"gross_amount"`
	MentorEarnings    float64   `json:"mentor_earnings"`
	PlatformFees      float64   `json:"platform_fees"`
	Currency          string    `json:"currency"`
}

// MentorService is the application service for mentor profile use cases.
type MentorService struct {
	profiles mentorDomain.ProfileRepository
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
	feeRate  float64
}

// NewMentorService creates a new MentorService.
func NewMentorService(
	profiles mentorDomain.ProfileRepository,
	bookings bookingDomain.BookingRepository,
	logger *zap.Logger,
	feeRate float64,
) *MentorService {
	if feeRate <= 0 {
		feeRate = bookingDomain.DefaultPlatformFeeRate
	}
	return &MentorService{
		profiles: profiles,
		bookings: bookings,
		logger:   logger,
		feeRate:  feeRate,
	}
}

// CreateProfile creates a pending mentor profile for the calling user. A user
// may hold at most one profile.
func (s *MentorService) CreateProfile(ctx context.Context, userID uuid.UUID, req CreateProfileRequest) (*MentorProfileDTO, error) {
	existing, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil && existing != nil:
		return nil, domain.NewConflictError("user already has a mentor profile")
	case err != nil && !isNotFound(err):
		return nil, fmt.Errorf("failed to look up existing profile: %w", err)
	}

	profile, err := mentorDomain.NewProfile(
		userID,
		req.DisplayName,
		req.University,
		req.Program,
		req.Year,
		req.Languages,
		req.HourlyRate,
		req.Achievements,
		req.Availability,
		req.VerificationDocumentURL,
	)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save mentor profile: %w", err)
	}

	result := toMentorProfileDTO(profile)
	return &result, nil
}

// UpdateProfile replaces the listing fields of the caller's own profile.
func (s *MentorService) UpdateProfile(ctx context.Context, profileID, callerID uuid.UUID, req UpdateProfileRequest) (*MentorProfileDTO, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID() != callerID {
		return nil, domain.NewForbiddenError("profile does not belong to this user")
	}

	if err := profile.UpdateListing(
		req.DisplayName,
		req.University,
		req.Program,
		req.Year,
		req.Languages,
		req.HourlyRate,
		req.Achievements,
		req.Availability,
	); err != nil {
		return nil, err
	}

	profile.IncrementVersion()
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	result := toMentorProfileDTO(profile)
	return &result, nil
}

// GetProfile retrieves a mentor profile by ID.
func (s *MentorService) GetProfile(ctx context.Context, profileID uuid.UUID) (*MentorProfileDTO, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	result := toMentorProfileDTO(profile)
	return &result, nil
}

// GetOwnProfile retrieves the profile owned by the calling user.
func (s *MentorService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*MentorProfileDTO, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toMentorProfileDTO(profile)
	return &result, nil
}

// Search retrieves paginated mentor profiles matching the filter. Non-admin
// callers only ever see approved profiles.
func (s *MentorService) Search(ctx context.Context, req SearchMentorsRequest, isAdmin bool, page, limit int) (*domain.PaginatedResult[MentorProfileDTO], error) {
	filter := mentorDomain.SearchFilter{
		University: req.University,
		Program:    req.Program,
		Language:   req.Language,
		MinRate:    req.MinRate,
		MaxRate:    req.MaxRate,
		SortBy:     req.SortBy,
	}
	if !isAdmin {
		filter.Status = mentorDomain.StatusApproved
	}

	profiles, total, err := s.profiles.Search(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search mentor profiles: %w", err)
	}

	dtos := make([]MentorProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toMentorProfileDTO(p)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ListProfilesByStatus retrieves paginated profiles in the given moderation
// state (admin). An empty status returns profiles in every state.
func (s *MentorService) ListProfilesByStatus(ctx context.Context, status string, page, limit int) (*domain.PaginatedResult[MentorProfileDTO], error) {
	var filter mentorDomain.SearchFilter
	if status != "" {
		parsed := mentorDomain.ApprovalStatus(status)
		if !parsed.IsValid() {
			return nil, domain.NewInvalidInputError("invalid status, expected pending, approved, or rejected")
		}
		filter.Status = parsed
	}

	profiles, total, err := s.profiles.Search(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentor profiles: %w", err)
	}

	dtos := make([]MentorProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toMentorProfileDTO(p)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ApproveProfile approves a pending profile (admin).
func (s *MentorService) ApproveProfile(ctx context.Context, profileID uuid.UUID) (*MentorProfileDTO, error) {
	return s.moderate(ctx, profileID, (*mentorDomain.Profile).Approve)
}

// RejectProfile rejects a pending profile (admin).
func (s *MentorService) RejectProfile(ctx context.Context, profileID uuid.UUID) (*MentorProfileDTO, error) {
	return s.moderate(ctx, profileID, (*mentorDomain.Profile).Reject)
}

func (s *MentorService) moderate(ctx context.Context, profileID uuid.UUID, apply func(*mentorDomain.Profile) error) (*MentorProfileDTO, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := apply(profile); err != nil {
		return nil, err
	}

	profile.IncrementVersion()
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("mentor profile moderated",
		zap.String("profile_id", profile.ID().String()),
		zap.String("status", string(profile.Status())),
	)

	result := toMentorProfileDTO(profile)
	return &result, nil
}

// GetEarnings sums the mentor's share over accepted and completed bookings.
func (s *MentorService) GetEarnings(ctx context.Context, mentorUserID uuid.UUID) (*EarningsDTO, error) {
	statuses := []bookingDomain.BookingStatus{
		bookingDomain.StatusAccepted,
		bookingDomain.StatusCompleted,
	}
	bookings, err := s.bookings.FindByMentorAndStatus(ctx, mentorUserID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor bookings: %w", err)
	}

	var gross, earnings, fees float64
	var completed int
	for _, bk := range bookings {
		quote, err := bookingDomain.NewQuote(bk.HourlyRate(), bk.DurationMinutes(), s.feeRate)
		if err != nil {
			return nil, err
		}
		gross += quote.Total
		earnings += quote.MentorEarnings()
		fees += quote.PlatformFee
		if bk.Status() == bookingDomain.StatusCompleted {
			completed++
		}
	}

	return &EarningsDTO{
		MentorUserID:      mentorUserID,
		SessionCount:      len(bookings),
		CompletedSessions: completed,
		GrossAmount:       bookingDomain.RoundCents(gross),
		MentorEarnings:    bookingDomain.RoundCents(earnings),
		PlatformFees:      bookingDomain.RoundCents(fees),
		Currency:          domain.CurrencyUSD,
	}, nil
}

func isNotFound(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Code == domain.CodeNotFound
}

func toMentorProfileDTO(p *mentorDomain.Profile) MentorProfileDTO {
	return MentorProfileDTO{
		ID:                      p.ID(),
		UserID:                  p.UserID(),
		DisplayName:             p.DisplayName(),
		University:              p.University(),
		Program:                 p.Program(),
		Year:                    p.Year(),
		Languages:               p.Languages(),
		HourlyRate:              p.HourlyRate(),
		Achievements:            p.Achievements(),
		Availability:            p.Availability(),
		VerificationDocumentURL: p.VerificationDocumentURL(),
		Status:                  string(p.Status()),
		Version:                 p.Version(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}
}
