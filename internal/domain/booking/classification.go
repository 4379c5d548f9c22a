package booking

import "time"

// Bucket is a display classification derived from, but not equal to, the
// stored status.
type Bucket string

const (
	BucketUpcoming Bucket = "upcoming"
	BucketPending  Bucket = "pending"
	BucketPast     Bucket = "past"
)

// ParseBucket converts a string to a Bucket.
func ParseBucket(s string) (Bucket, bool) {
	switch Bucket(s) {
	case BucketUpcoming, BucketPending, BucketPast:
		return Bucket(s), true
	default:
		return "", false
	}
}

// IsUpcoming reports whether the booking is accepted and its session starts
// strictly after now.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.status == StatusAccepted && b.SessionStart().After(now)
}

// IsPending reports whether the booking is awaiting mentor review.
func (b *Booking) IsPending() bool {
	return b.status == StatusPending
}

// IsPast reports whether the booking belongs in the past view: the session is
// completed, the booking ended in a terminal state, or the session start has
// elapsed regardless of status.
func (b *Booking) IsPast(now time.Time) bool {
	switch b.status {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return b.SessionStart().Before(now)
}

// Classify resolves the booking into exactly one bucket using the total order
// past > upcoming > pending: an elapsed or terminal booking is past even if
// its stored status would otherwise place it elsewhere. A completed booking
// with a future session (backend anomaly) is still past; the boundary instant
// SessionStart == now is neither upcoming nor elapsed, so a pending booking
// at that instant stays pending.
func (b *Booking) Classify(now time.Time) Bucket {
	if b.IsPast(now) {
		return BucketPast
	}
	if b.IsUpcoming(now) {
		return BucketUpcoming
	}
	if b.IsPending() {
		return BucketPending
	}
	// Accepted at the exact session-start instant: neither strictly before
	// nor after now. The session is underway, so it reads as past.
	return BucketPast
}

// InBucket reports whether the booking belongs to the given bucket under the
// Classify total order.
func (b *Booking) InBucket(bucket Bucket, now time.Time) bool {
	return b.Classify(now) == bucket
}

// FilterByBucket returns the bookings classified into the given bucket,
// preserving input order.
func FilterByBucket(bookings []*Booking, bucket Bucket, now time.Time) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.InBucket(bucket, now) {
			out = append(out, b)
		}
	}
	return out
}
