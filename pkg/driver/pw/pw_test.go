package pw

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
)

func TestSelector(t *testing.T) {
	sel, err := selector(locator.CSS("a.nav-link"))
	require.NoError(t, err)
	assert.Equal(t, "css=a.nav-link", sel)

	sel, err = selector(locator.Tag("nav"))
	require.NoError(t, err)
	assert.Equal(t, "css=nav", sel)

	sel, err = selector(locator.Text("Copper"))
	require.NoError(t, err)
	assert.Equal(t, "xpath=//*[not(self::script or self::style)][text()[contains(., 'Copper')]]", sel)

	_, err = selector(locator.Locator{By: locator.KindCSS})
	assert.Error(t, err)
}

func TestPageOptions(t *testing.T) {
	maximized := pageOptions(driver.Options{StartMaximized: true, WindowWidth: 800, WindowHeight: 600})
	require.NotNil(t, maximized.NoViewport)
	assert.True(t, *maximized.NoViewport)
	assert.Nil(t, maximized.Viewport)

	sized := pageOptions(driver.Options{WindowWidth: 800, WindowHeight: 600, UserAgent: "uicheck"})
	require.NotNil(t, sized.Viewport)
	assert.Equal(t, 800, sized.Viewport.Width)
	require.NotNil(t, sized.UserAgent)
	assert.Equal(t, "uicheck", *sized.UserAgent)
}

func TestLaunchOptions(t *testing.T) {
	opts := launchOptions(driver.Options{Headless: true, StartMaximized: true, ExtraArgs: []string{"--lang=en"}})
	require.NotNil(t, opts.Headless)
	assert.True(t, *opts.Headless)
	assert.Equal(t, []string{"--lang=en", "--start-maximized"}, opts.Args)
}

func TestTimeoutMillis(t *testing.T) {
	assert.Equal(t, float64(2000), timeoutMillis(context.Background(), 2*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	assert.LessOrEqual(t, timeoutMillis(ctx, 2*time.Second), float64(500))

	assert.Greater(t, timeoutMillis(ctx, 0), float64(0))
}
