package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mentorDomain "github.com/unimentor/service-booking/internal/domain/mentor"
	"github.com/unimentor/service-booking/internal/platform/domain"
)

// MentorProfileModel is the GORM model for the mentor_profiles table.
type MentorProfileModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID                  uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName             string          `gorm:"not null;size:255"`
	University              string          `gorm:"size:255;index"`
	Program                 string          `gorm:"size:255;index"`
	Year                    int             `gorm:""`
	Languages               json.RawMessage `gorm:"type:jsonb;not null"`
	HourlyRate              float64         `gorm:"not null;index"`
	Achievements            string          `gorm:"size:2000"`
	Availability            json.RawMessage `gorm:"type:jsonb"`
	VerificationDocumentURL string          `gorm:"size:500"`
	Status                  string          `gorm:"not null;size:30;index"`
	Version                 int64           `gorm:"not null;default:1"`
	CreatedAt               time.Time       `gorm:"not null"`
	UpdatedAt               time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (MentorProfileModel) TableName() string {
	return "mentor_profiles"
}

// GormMentorRepository is the GORM-based implementation of ProfileRepository.
type GormMentorRepository struct {
	db *gorm.DB
}

// NewGormMentorRepository creates a new GormMentorRepository.
func NewGormMentorRepository(db *gorm.DB) *GormMentorRepository {
	return &GormMentorRepository{db: db}
}

// FindByID retrieves a profile by its unique identifier.
func (r *GormMentorRepository) FindByID(ctx context.Context, id uuid.UUID) (*mentorDomain.Profile, error) {
	var model MentorProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("MentorProfile", id.String())
		}
		return nil, fmt.Errorf("failed to find mentor profile by ID: %w", err)
	}
	return toDomainProfile(&model)
}

// FindByUserID retrieves the profile owned by a user.
func (r *GormMentorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*mentorDomain.Profile, error) {
	var model MentorProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("MentorProfile", userID.String())
		}
		return nil, fmt.Errorf("failed to find mentor profile by user ID: %w", err)
	}
	return toDomainProfile(&model)
}

// Search retrieves profiles matching the filter with pagination.
func (r *GormMentorRepository) Search(ctx context.Context, filter mentorDomain.SearchFilter, page, limit int) ([]*mentorDomain.Profile, int64, error) {
	q := r.db.WithContext(ctx).Model(&MentorProfileModel{})

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.University != "" {
		q = q.Where("university ILIKE ?", "%"+filter.University+"%")
	}
	if filter.Program != "" {
		q = q.Where("program ILIKE ?", "%"+filter.Program+"%")
	}
	if filter.Language != "" {
		q = q.Where("languages::text ILIKE ?", "%"+filter.Language+"%")
	}
	if filter.MinRate != nil {
		q = q.Where("hourly_rate >= ?", *filter.MinRate)
	}
	if filter.MaxRate != nil {
		q = q.Where("hourly_rate <= ?", *filter.MaxRate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count mentor profiles: %w", err)
	}

	order := "created_at DESC"
	if filter.SortBy == "hourly_rate" {
		order = "hourly_rate ASC"
	}

	var models []MentorProfileModel
	offset := (page - 1) * limit
	if err := q.Order(order).Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search mentor profiles: %w", err)
	}

	profiles := make([]*mentorDomain.Profile, len(models))
	for i, m := range models {
		p, err := toDomainProfile(&m)
		if err != nil {
			return nil, 0, err
		}
		profiles[i] = p
	}
	return profiles, total, nil
}

// Save persists a new profile.
func (r *GormMentorRepository) Save(ctx context.Context, profile *mentorDomain.Profile) error {
	model, err := toProfileModel(profile)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save mentor profile: %w", err)
	}
	return nil
}

// Update persists changes to an existing profile with optimistic locking.
func (r *GormMentorRepository) Update(ctx context.Context, profile *mentorDomain.Profile) error {
	model, err := toProfileModel(profile)
	if err != nil {
		return err
	}

	expectedVersion := profile.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&MentorProfileModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"display_name":              model.DisplayName,
			"university":                model.University,
			"program":                   model.Program,
			"year":                      model.Year,
			"languages":                 model.Languages,
			"hourly_rate":               model.HourlyRate,
			"achievements":              model.Achievements,
			"availability":              model.Availability,
			"verification_document_url": model.VerificationDocumentURL,
			"status":                    model.Status,
			"version":                   model.Version,
			"updated_at":                model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update mentor profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("mentor profile was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toProfileModel(p *mentorDomain.Profile) (*MentorProfileModel, error) {
	languages, err := json.Marshal(p.Languages())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal languages: %w", err)
	}
	availability, err := json.Marshal(p.Availability())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal availability: %w", err)
	}

	return &MentorProfileModel{
		ID:                      p.ID(),
		UserID:                  p.UserID(),
		DisplayName:             p.DisplayName(),
		University:              p.University(),
		Program:                 p.Program(),
		Year:                    p.Year(),
		Languages:               languages,
		HourlyRate:              p.HourlyRate(),
		Achievements:            p.Achievements(),
		Availability:            availability,
		VerificationDocumentURL: p.VerificationDocumentURL(),
		Status:                  string(p.Status()),
		Version:                 p.Version(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}, nil
}

func toDomainProfile(m *MentorProfileModel) (*mentorDomain.Profile, error) {
	var languages []string
	if len(m.Languages) > 0 {
		if err := json.Unmarshal(m.Languages, &languages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal languages: %w", err)
		}
	}
	var availability []string
	if len(m.Availability) > 0 {
		if err := json.Unmarshal(m.Availability, &availability); err != nil {
			return nil, fmt.Errorf("failed to unmarshal availability: %w", err)
		}
	}

	status := mentorDomain.ApprovalStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid mentor profile status: %s", m.Status)
	}

	return mentorDomain.ReconstructProfile(
		m.ID,
		m.UserID,
		m.DisplayName,
		m.University,
		m.Program,
		m.Year,
		languages,
		m.HourlyRate,
		m.Achievements,
		availability,
		m.VerificationDocumentURL,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
