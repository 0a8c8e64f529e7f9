package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
)

type countingDriver struct {
	mu       sync.Mutex
	closes   int
	closeErr error
}

func (d *countingDriver) Navigate(ctx context.Context, url string) error { return nil }

func (d *countingDriver) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	return nil, nil
}

func (d *countingDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return d.closeErr
}

func (d *countingDriver) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

var (
	lastDriver *countingDriver
	failOpen   = errors.New("no browser")
)

func init() {
	driver.MustRegister("session-test", func(ctx context.Context, opts driver.Options) (driver.Driver, error) {
		lastDriver = &countingDriver{}
		return lastDriver, nil
	})
	driver.MustRegister("session-test-broken", func(ctx context.Context, opts driver.Options) (driver.Driver, error) {
		return nil, failOpen
	})
}

func TestReleaseExactlyOnce(t *testing.T) {
	drv := &countingDriver{}
	s := New("fake", drv)

	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, "fake", s.DriverName())
	assert.False(t, s.Released())

	got, err := s.Driver()
	require.NoError(t, err)
	assert.Same(t, drv, got)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Release())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, drv.Closes())
	assert.True(t, s.Released())

	_, err = s.Driver()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestReleaseErrorIsSticky(t *testing.T) {
	boom := errors.New("boom")
	s := New("fake", &countingDriver{closeErr: boom})

	assert.ErrorIs(t, s.Release(), boom)
	assert.ErrorIs(t, s.Release(), boom)
}

func TestWithReleasesOnSuccessAndFailure(t *testing.T) {
	var seen *Session
	err := With(context.Background(), "session-test", driver.DefaultOptions(), func(s *Session) error {
		seen = s
		return nil
	})
	require.NoError(t, err)
	assert.True(t, seen.Released())
	assert.Equal(t, 1, lastDriver.Closes())

	stepErr := errors.New("step 2 failed")
	err = With(context.Background(), "session-test", driver.DefaultOptions(), func(s *Session) error {
		return stepErr
	})
	assert.ErrorIs(t, err, stepErr)
	assert.Equal(t, 1, lastDriver.Closes())
}

func TestWithJoinsReleaseError(t *testing.T) {
	stepErr := errors.New("step failed")
	closeErr := errors.New("close failed")
	s := New("fake", &countingDriver{closeErr: closeErr})

	err := Use(s, func(*Session) error { return stepErr })
	assert.ErrorIs(t, err, stepErr)
	assert.ErrorIs(t, err, closeErr)
}

func TestWithReleasesOnPanic(t *testing.T) {
	drv := &countingDriver{}
	s := New("fake", drv)

	assert.Panics(t, func() {
		_ = Use(s, func(*Session) error { panic("driver crashed") })
	})
	assert.Equal(t, 1, drv.Closes())
}

func TestWithOpenFailure(t *testing.T) {
	called := false
	err := With(context.Background(), "session-test-broken", driver.DefaultOptions(), func(*Session) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, failOpen)
	assert.False(t, called)
}
