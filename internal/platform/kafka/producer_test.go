package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageKey_PrefersSubject(t *testing.T) {
	event, err := NewCloudEvent("service-booking", "booking.accepted", "bk-1234", map[string]string{"x": "y"})
	require.NoError(t, err)

	assert.Equal(t, "bk-1234", event.Subject)
	assert.Equal(t, []byte("bk-1234"), messageKey(event))
}

func TestMessageKey_FallsBackToEventID(t *testing.T) {
	event, err := NewCloudEvent("service-booking", "booking.requested", "", nil)
	require.NoError(t, err)

	assert.Equal(t, []byte(event.ID), messageKey(event))
}
