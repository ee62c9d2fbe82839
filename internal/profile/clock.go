package profile

import (
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the timestamp format used in profile documents and responses.
const TimeLayout = time.RFC3339

// Clock produces the current time. Injectable for tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces opaque unique item ids.
type IDGenerator interface {
	NewID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// UUIDGenerator returns an IDGenerator backed by random UUIDs.
func UUIDGenerator() IDGenerator { return uuidGenerator{} }

// FormatTime renders t in the document timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
