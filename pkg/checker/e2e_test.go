package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uicheck/pkg/checklist"
	"uicheck/pkg/driver"
	"uicheck/pkg/driver/static"
	"uicheck/pkg/fixture"
	"uicheck/pkg/locator"
	"uicheck/pkg/session"
)

// runAgainst checks page with the default checklist through the static driver
// and returns the result and the session used
func runAgainst(t *testing.T, page fixture.Dashboard, mutate func(*checklist.Checklist)) (*RunResult, *session.Session, error) {
	t.Helper()
	return runHandler(t, fixture.Handler(page), mutate)
}

func runHandler(t *testing.T, h http.Handler, mutate func(*checklist.Checklist)) (*RunResult, *session.Session, error) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cl := checklist.Default()
	cl.Target.URL = srv.URL
	cl.Target.Timeout = "100ms"
	cl.Target.PollInterval = "20ms"
	if mutate != nil {
		mutate(cl)
	}

	var result *RunResult
	var s *session.Session
	err := session.With(context.Background(), static.Name, driver.DefaultOptions(), func(sess *session.Session) error {
		s = sess
		drv, err := sess.Driver()
		require.NoError(t, err)

		var runErr error
		result, runErr = New(drv, Options{}).Run(context.Background(), cl)
		return runErr
	})
	return result, s, err
}

func TestKnownGoodPagePasses(t *testing.T) {
	result, s, err := runAgainst(t, fixture.Default(), nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.Passed())
	assert.True(t, s.Released())
}

func TestSubstringLabelMatches(t *testing.T) {
	page := fixture.Default()
	page.Tiles[0].Title = "Total Orders: 12"

	result, _, err := runAgainst(t, page, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSingleItemFailsItsStep(t *testing.T) {
	tests := []struct {
		label string
		step  int
		kind  error // when removed
	}{
		{"Dashboard", 2, ErrMissingValue},
		{"Revenue Page", 2, ErrMissingValue},
		{"Stock", 2, ErrMissingValue},
		{"Phones", 2, ErrMissingValue},
		{"Logs", 2, ErrMissingValue},
		{"Total Orders", 3, ErrLocateTimeout},
		{"Pending Orders", 3, ErrLocateTimeout},
		{"Completed Orders", 3, ErrLocateTimeout},
		{"Materials Ready", 3, ErrLocateTimeout},
		{"Copper", 4, ErrLocateTimeout},
		{"Silicon", 4, ErrLocateTimeout},
		{"Sand", 4, ErrLocateTimeout},
		{"Plastic", 4, ErrLocateTimeout},
		{"Aluminum", 4, ErrLocateTimeout},
	}

	for _, tt := range tests {
		t.Run("removed "+tt.label, func(t *testing.T) {
			result, s, err := runAgainst(t, fixture.Default().Without(tt.label), nil)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.step, result.FailedStep)
			assert.True(t, s.Released())
		})

		t.Run("hidden "+tt.label, func(t *testing.T) {
			hiddenKind := tt.kind
			if hiddenKind == ErrLocateTimeout {
				hiddenKind = ErrNotVisible
			}
			result, _, err := runAgainst(t, fixture.Default().Hiding(tt.label), nil)
			assert.ErrorIs(t, err, hiddenKind)
			assert.Equal(t, tt.step, result.FailedStep)
		})
	}
}

func TestMissingNavbarFailsFirstStep(t *testing.T) {
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>Total Orders</p></body></html>`))
	})

	result, _, err := runHandler(t, page, nil)
	assert.ErrorIs(t, err, ErrLocateTimeout)
	assert.Equal(t, 1, result.FailedStep)
}

func TestLoadingAndErrorStates(t *testing.T) {
	spinnerGone := func(cl *checklist.Checklist) {
		cl.Steps = append([]checklist.Step{{
			Name:    "loading finished",
			Type:    checklist.StepAbsent,
			Locator: &locator.Locator{By: locator.KindText, Value: "Loading dashboard data"},
		}, {
			Name:    "no error banner",
			Type:    checklist.StepAbsent,
			Locator: &locator.Locator{By: locator.KindCSS, Value: "[role=alert]"},
		}}, cl.Steps...)
	}

	result, _, err := runAgainst(t, fixture.Default(), spinnerGone)
	require.NoError(t, err)
	assert.Len(t, result.Steps, 6)

	result, _, err = runAgainst(t, fixture.Dashboard{Links: fixture.Default().Links, Loading: true}, spinnerGone)
	assert.ErrorIs(t, err, ErrStillVisible)
	assert.Equal(t, 1, result.FailedStep)

	result, _, err = runAgainst(t, fixture.Dashboard{Links: fixture.Default().Links, Error: "timeout"}, spinnerGone)
	assert.ErrorIs(t, err, ErrStillVisible)
	assert.Equal(t, 2, result.FailedStep)
}

func TestServerErrorIsNavigationFailure(t *testing.T) {
	srv := httptest.NewServer(fixture.Router(false))
	defer srv.Close()

	cl := checklist.Default()
	cl.Target.URL = srv.URL + "/broken"

	drv, err := static.New(context.Background(), driver.DefaultOptions())
	require.NoError(t, err)
	defer drv.Close()

	result, err := New(drv, Options{}).Run(context.Background(), cl)
	assert.ErrorIs(t, err, ErrNavigation)
	assert.ErrorContains(t, err, "unexpected status 500")
	assert.Empty(t, result.Steps)
}
