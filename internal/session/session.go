// Package session tracks one login session per user. A session is live while
// its last activity lies within the window, and each authenticated request
// slides the window forward. Only a login starts a session.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Window is how long a session stays live without activity.
const Window = 15 * time.Minute

// Store persists session activity per user.
type Store interface {
	// Begin starts or restarts the session of userID at the given time.
	Begin(ctx context.Context, userID uint, at time.Time) error
	// Active reports whether userID has a session with activity at or after since.
	Active(ctx context.Context, userID uint, since time.Time) (bool, error)
	// Refresh moves the activity of a live session to at. It reports false,
	// and changes nothing, when there is no session active since since.
	Refresh(ctx context.Context, userID uint, at, since time.Time) (bool, error)
	// End expires the session of userID. Ending a missing session is not an error.
	End(ctx context.Context, userID uint) error
}

// Tracker applies the session window on top of a Store.
type Tracker struct {
	store  Store
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithWindow overrides the default Window.
func WithWindow(d time.Duration) Option {
	return func(t *Tracker) { t.window = d }
}

// NewTracker creates a tracker over store.
func NewTracker(store Store, logger zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		window: Window,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Begin starts a session for userID and returns its start time.
func (t *Tracker) Begin(ctx context.Context, userID uint) (time.Time, error) {
	at := t.now()
	if err := t.store.Begin(ctx, userID, at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// IsActive reports whether userID has a live session.
func (t *Tracker) IsActive(ctx context.Context, userID uint) (bool, error) {
	return t.store.Active(ctx, userID, t.now().Add(-t.window))
}

// Touch slides a live session forward. An expired session stays expired.
// Storage failures are logged and otherwise ignored.
func (t *Tracker) Touch(ctx context.Context, userID uint) {
	now := t.now()
	refreshed, err := t.store.Refresh(ctx, userID, now, now.Add(-t.window))
	if err != nil {
		t.logger.Warn().Err(err).Uint("user_id", userID).Msg("session touch failed")
		return
	}
	if !refreshed {
		t.logger.Debug().Uint("user_id", userID).Msg("no live session to touch")
	}
}

// Expire ends the session of userID.
func (t *Tracker) Expire(ctx context.Context, userID uint) error {
	return t.store.End(ctx, userID)
}
