// Package session manages the lifetime of a browser session. A Session wraps
// an open driver and guarantees the underlying browser is released exactly
// once, whichever way the run ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"uicheck/pkg/driver"
)

// ErrReleased is returned when a released session's driver is requested
var ErrReleased = errors.New("session already released")

// Session is an exclusively owned browser session
type Session struct {
	id         string
	driverName string
	started    time.Time
	drv        driver.Driver

	mu       sync.Mutex
	once     sync.Once
	released bool
	err      error
}

// New wraps an already open driver
func New(driverName string, drv driver.Driver) *Session {
	return &Session{
		id:         uuid.NewString(),
		driverName: driverName,
		started:    time.Now(),
		drv:        drv,
	}
}

// Acquire opens the named driver from the default registry
func Acquire(ctx context.Context, driverName string, opts driver.Options) (*Session, error) {
	drv, err := driver.Open(ctx, driverName, opts)
	if err != nil {
		return nil, err
	}

	s := New(driverName, drv)
	slog.Info("Browser session started", "session", s.id, "driver", driverName)
	return s, nil
}

// ID returns the unique identifier of the session
func (s *Session) ID() string {
	return s.id
}

// DriverName returns the registry name of the driver backing the session
func (s *Session) DriverName() string {
	return s.driverName
}

// Driver returns the live driver, or ErrReleased after Release
func (s *Session) Driver() (driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}
	return s.drv, nil
}

// Released reports whether Release has been called
func (s *Session) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Release closes the driver. Only the first call reaches the driver; later
// calls return the same result.
func (s *Session) Release() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()

		err := s.drv.Close()
		if err != nil {
			err = fmt.Errorf("failed to release session %s: %w", s.id, err)
			slog.Warn("Browser session release failed", "session", s.id, "error", err)
		} else {
			slog.Info("Browser session released",
				"session", s.id,
				"driver", s.driverName,
				"lifetime", time.Since(s.started).Round(time.Millisecond))
		}
		s.err = err
	})
	return s.err
}

// With acquires a session, runs fn with it and releases it on every exit
// path, including a panic in fn. A release error is joined with fn's error.
func With(ctx context.Context, driverName string, opts driver.Options, fn func(*Session) error) (err error) {
	s, err := Acquire(ctx, driverName, opts)
	if err != nil {
		return err
	}
	return Use(s, fn)
}

// Use runs fn with an existing session and releases it afterwards
func Use(s *Session, fn func(*Session) error) (err error) {
	defer func() {
		if relErr := s.Release(); relErr != nil {
			err = errors.Join(err, relErr)
		}
	}()
	return fn(s)
}
