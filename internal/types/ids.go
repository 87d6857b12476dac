package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionID identifies one builder session (one modal open-to-close cycle).
type SessionID string

// SubmissionID identifies one finalized set of survey responses.
type SubmissionID string

// NewSessionID returns a time-ordered (UUIDv7) session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// NewSubmissionID returns a time-ordered (UUIDv7) submission identifier.
func NewSubmissionID() SubmissionID {
	return SubmissionID(uuid.Must(uuid.NewV7()).String())
}

// ParseSubmissionID validates s as a UUID before converting it.
func ParseSubmissionID(s string) (SubmissionID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return SubmissionID(s), nil
}

// SubmissionIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns the zero time when id is not a valid UUID.
func SubmissionIDTime(id SubmissionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
