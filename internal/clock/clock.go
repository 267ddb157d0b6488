// Package clock is the single time source for the application. All expiration
// math runs on timestamps produced or normalized here, so stored values and
// "now" always compare in the same representation.
package clock

import "time"

// Storage keeps naive UTC timestamps; the business timezone is Philippine
// time. Now takes the current Manila instant and converts it to UTC before it
// is stored or compared.
const businessTimezone = "Asia/Manila"

type Clock interface {
	Now() time.Time
}

type realClock struct {
	loc *time.Location
}

func New() Clock {
	loc, err := time.LoadLocation(businessTimezone)
	if err != nil {
		loc = time.FixedZone("UTC+8", 8*60*60)
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return Normalize(time.Now().In(c.loc))
}

// Normalize converts a timestamp to the canonical UTC representation. Every
// comparison against a stored timestamp must pass both sides through this
// first; comparing a zoned value against a stored one directly is a bug.
func Normalize(t time.Time) time.Time {
	return t.UTC()
}
