package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mentorDomain "github.com/unimentor/service-booking/internal/domain/mentor"
	reviewDomain "github.com/unimentor/service-booking/internal/domain/review"
	"github.com/unimentor/service-booking/internal/platform/domain"
)

// CreateReviewRequest holds the data needed to leave a review.
type CreateReviewRequest struct {
	MentorID uuid.UUID `json:"mentor_id" binding:"required"`
	Rating   int       `json:"rating" binding:"required"`
	Comment  string    `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	MentorID  uuid.UUID `json:"mentor_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewService is the application service for review use cases.
type ReviewService struct {
	reviews  reviewDomain.ReviewRepository
	profiles mentorDomain.ProfileRepository
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews reviewDomain.ReviewRepository,
	profiles mentorDomain.ProfileRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		profiles: profiles,
		logger:   logger,
	}
}

// CreateReview records a student's rating of a mentor. The mentor is
// referenced by user ID and must hold a mentor profile.
func (s *ReviewService) CreateReview(ctx context.Context, studentID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if _, err := s.profiles.FindByUserID(ctx, req.MentorID); err != nil {
		return nil, err
	}

	rv, err := reviewDomain.NewReview(studentID, req.MentorID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.String("review_id", rv.ID().String()),
		zap.String("student_id", studentID.String()),
		zap.String("mentor_id", req.MentorID.String()),
		zap.Int("rating", rv.Rating()),
	)

	return toReviewDTO(rv), nil
}

// GetReview retrieves a single review by ID.
func (s *ReviewService) GetReview(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return toReviewDTO(rv), nil
}

// ListReviews lists reviews newest-first. A non-empty mentorFilter restricts
// the listing to one mentor's received reviews.
func (s *ReviewService) ListReviews(ctx context.Context, mentorFilter string, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	var mentorID *uuid.UUID
	if mentorFilter != "" {
		id, err := uuid.Parse(mentorFilter)
		if err != nil {
			return nil, domain.NewInvalidInputError("invalid mentor ID")
		}
		mentorID = &id
	}

	reviews, total, err := s.reviews.List(ctx, mentorID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		items[i] = *toReviewDTO(rv)
	}
	result := domain.NewPaginatedResult(items, total, page, limit)
	return &result, nil
}

func toReviewDTO(rv *reviewDomain.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        rv.ID(),
		StudentID: rv.StudentID(),
		MentorID:  rv.MentorID(),
		Rating:    rv.Rating(),
		Comment:   rv.Comment(),
		CreatedAt: rv.CreatedAt(),
	}
}
