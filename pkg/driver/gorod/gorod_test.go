package gorod

import (
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"

	"uicheck/pkg/driver"
)

func TestNewLauncherFlags(t *testing.T) {
	l := newLauncher(driver.Options{
		Headless:       true,
		StartMaximized: true,
		WindowWidth:    1280,
		WindowHeight:   720,
		UserAgent:      "uicheck",
		ExtraArgs:      []string{"--lang=en-ZA", "--mute-audio", "--"},
	})

	assert.True(t, l.Has(flags.Headless))
	assert.True(t, l.Has("start-maximized"))
	assert.Equal(t, "1280,720", l.Get("window-size"))
	assert.Equal(t, "uicheck", l.Get("user-agent"))
	assert.Equal(t, "en-ZA", l.Get("lang"))
	assert.True(t, l.Has("mute-audio"))
}

func TestNewLauncherHeadful(t *testing.T) {
	l := newLauncher(driver.Options{})
	assert.False(t, l.Has(flags.Headless))
	assert.False(t, l.Has("start-maximized"))
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, driver.Names(), Name)
}
