package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-72 * time.Hour)

	tests := []struct {
		name    string
		status  BookingStatus
		session time.Time
		want    Bucket
	}{
		{"accepted future session", StatusAccepted, future, BucketUpcoming},
		{"pending future session", StatusPending, future, BucketPending},
		{"completed past session", StatusCompleted, past, BucketPast},
		{"accepted elapsed session", StatusAccepted, past, BucketPast},
		{"pending elapsed session", StatusPending, past, BucketPast},
		{"cancelled future session", StatusCancelled, future, BucketPast},
		{"rejected future session", StatusRejected, future, BucketPast},
		// Completed with a session date still ahead reads as past: terminal
		// status wins over the calendar.
		{"completed future session", StatusCompleted, future, BucketPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bk := newTestBooking(t, tt.status, tt.session)
			assert.Equal(t, tt.want, bk.Classify(now))
		})
	}
}

func TestClassify_BoundaryInstant(t *testing.T) {
	// The session starts exactly now: not strictly before, not strictly after.
	start := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	accepted := newTestBooking(t, StatusAccepted, start)
	assert.False(t, accepted.IsUpcoming(start))
	assert.False(t, accepted.IsPast(start))
	// Neither strictly upcoming nor strictly elapsed; the session is underway.
	assert.Equal(t, BucketPast, accepted.Classify(start))

	pending := newTestBooking(t, StatusPending, start)
	assert.Equal(t, BucketPending, pending.Classify(start))
}

func TestClassify_IsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	bk := newTestBooking(t, StatusAccepted, now.Add(48*time.Hour))

	first := bk.Classify(now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, bk.Classify(now))
	}
}

func TestClassify_EveryBookingLandsInExactlyOneBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	statuses := []BookingStatus{StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled}
	sessions := []time.Time{now.Add(-48 * time.Hour), now, now.Add(48 * time.Hour)}
	buckets := []Bucket{BucketUpcoming, BucketPending, BucketPast}

	for _, status := range statuses {
		for _, session := range sessions {
			bk := newTestBooking(t, status, session)
			matches := 0
			for _, bucket := range buckets {
				if bk.InBucket(bucket, now) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "status=%s session=%s", status, session)
		}
	}
}

func TestFilterByBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	upcoming := newTestBooking(t, StatusAccepted, now.Add(48*time.Hour))
	pending := newTestBooking(t, StatusPending, now.Add(48*time.Hour))
	done := newTestBooking(t, StatusCompleted, now.Add(-48*time.Hour))
	all := []*Booking{upcoming, pending, done}

	assert.Equal(t, []*Booking{upcoming}, FilterByBucket(all, BucketUpcoming, now))
	assert.Equal(t, []*Booking{pending}, FilterByBucket(all, BucketPending, now))
	assert.Equal(t, []*Booking{done}, FilterByBucket(all, BucketPast, now))
}

func TestParseBucket(t *testing.T) {
	for _, valid := range []string{"upcoming", "pending", "past"} {
		b, ok := ParseBucket(valid)
		assert.True(t, ok)
		assert.Equal(t, Bucket(valid), b)
	}

	_, ok := ParseBucket("history")
	assert.False(t, ok)
	_, ok = ParseBucket("")
	assert.False(t, ok)
}
