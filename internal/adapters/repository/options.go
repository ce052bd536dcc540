package repository

import (
	"time"

	"github.com/google/uuid"
)

// Option configures a share store.
type Option func(*settings)

type settings struct {
	now   func() time.Time
	newID func() string
}

func defaultSettings(opts []Option) settings {
	s := settings{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock sets the source of creation times.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the source of share ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) {
		if newID != nil {
			s.newID = newID
		}
	}
}
