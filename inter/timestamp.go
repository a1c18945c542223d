package inter

import "time"

// Timestamp is a transaction or stamp time, stored wire-side as Unix
// nanoseconds so two nodes computing the same value from the same wall
// clock reading always serialize identically.
type Timestamp int64

// TimestampFromTime converts a time.Time to the wire Timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts back to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

func (t Timestamp) Before(other Timestamp) bool { return t < other }
func (t Timestamp) After(other Timestamp) bool  { return t > other }
