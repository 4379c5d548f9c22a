package review

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

func TestNewReview(t *testing.T) {
	student, mentor := uuid.New(), uuid.New()
	r, err := NewReview(student, mentor, 5, "  Great session, very patient.  ")
	require.NoError(t, err)

	assert.Equal(t, student, r.StudentID())
	assert.Equal(t, mentor, r.MentorID())
	assert.Equal(t, 5, r.Rating())
	// Comment is trimmed.
	assert.Equal(t, "Great session, very patient.", r.Comment())
	assert.False(t, r.CreatedAt().IsZero())
}

func TestNewReview_CommentOptional(t *testing.T) {
	r, err := NewReview(uuid.New(), uuid.New(), 3, "")
	require.NoError(t, err)
	assert.Empty(t, r.Comment())
}

func TestNewReview_Validation(t *testing.T) {
	_, err := NewReview(uuid.Nil, uuid.New(), 4, "")
	assert.Error(t, err)

	_, err = NewReview(uuid.New(), uuid.Nil, 4, "")
	assert.Error(t, err)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := NewReview(uuid.New(), uuid.New(), rating, "")
		require.Error(t, err)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.CodeInvalidInput, de.Code)
	}
}
