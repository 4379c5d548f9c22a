package mentor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

func newTestProfile(t *testing.T) *Profile {
	t.Helper()
	p, err := NewProfile(
		uuid.New(),
		"Aisha Rahman",
		"State University",
		"Computer Science",
		3,
		[]string{"English", " Malay ", ""},
		45.0,
		"Dean's list 2024",
		[]string{"Mon 18:00-20:00", "Sat 10:00-12:00"},
		"https://cdn.unimentor.io/docs/aisha.pdf",
	)
	require.NoError(t, err)
	return p
}

func TestNewProfile(t *testing.T) {
	p := newTestProfile(t)

	assert.Equal(t, StatusPending, p.Status())
	assert.False(t, p.IsApproved())
	assert.Equal(t, "Aisha Rahman", p.DisplayName())
	assert.Equal(t, 45.0, p.HourlyRate())
	assert.Equal(t, int64(1), p.Version())
	// Languages are trimmed and empties dropped.
	assert.Equal(t, []string{"English", "Malay"}, p.Languages())
}

func TestNewProfile_Validation(t *testing.T) {
	_, err := NewProfile(uuid.Nil, "Aisha", "", "", 0, nil, 45, "", nil, "")
	assert.Error(t, err)

	_, err = NewProfile(uuid.New(), "   ", "", "", 0, nil, 45, "", nil, "")
	assert.Error(t, err)

	_, err = NewProfile(uuid.New(), "Aisha", "", "", 0, nil, 0, "", nil, "")
	assert.Error(t, err)
}

func TestProfile_ApproveAndReject(t *testing.T) {
	p := newTestProfile(t)
	require.NoError(t, p.Approve())
	assert.Equal(t, StatusApproved, p.Status())
	assert.True(t, p.IsApproved())

	// Moderation decisions are final.
	err := p.Reject()
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeInvalidState, de.Code)
	assert.Error(t, p.Approve())

	q := newTestProfile(t)
	require.NoError(t, q.Reject())
	assert.Equal(t, StatusRejected, q.Status())
	assert.Error(t, q.Approve())
}

func TestProfile_UpdateListing(t *testing.T) {
	p := newTestProfile(t)
	require.NoError(t, p.Approve())

	err := p.UpdateListing("Aisha R.", "State University", "Software Engineering", 4,
		[]string{"English"}, 55.0, "Dean's list 2024, 2025", []string{"Sun 09:00-11:00"})
	require.NoError(t, err)

	assert.Equal(t, "Aisha R.", p.DisplayName())
	assert.Equal(t, 55.0, p.HourlyRate())
	// Moderation status survives listing edits.
	assert.Equal(t, StatusApproved, p.Status())

	assert.Error(t, p.UpdateListing("", "", "", 0, nil, 55, "", nil))
	assert.Error(t, p.UpdateListing("Aisha", "", "", 0, nil, -1, "", nil))
}

func TestApprovalStatus(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.False(t, ApprovalStatus("banned").IsValid())

	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}
