package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uicheck/pkg/locator"
)

type nopDriver struct{}

func (nopDriver) Navigate(context.Context, string) error { return nil }
func (nopDriver) FindAll(context.Context, locator.Locator) ([]Element, error) {
	return nil, nil
}
func (nopDriver) Close() error { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(context.Context, Options) (Driver, error) { return nopDriver{}, nil }

	require.NoError(t, r.Register("b", factory))
	require.NoError(t, r.Register("a", factory))
	assert.EqualError(t, r.Register("a", factory), "driver 'a' is already registered")
	assert.EqualError(t, r.Register("c", nil), "driver 'c' has a nil factory")
	assert.Panics(t, func() { r.MustRegister("d", nil) })
	assert.Equal(t, []string{"a", "b"}, r.Names())

	drv, err := r.Open(context.Background(), "a", DefaultOptions())
	require.NoError(t, err)
	assert.NotNil(t, drv)

	_, err = r.Open(context.Background(), "missing", DefaultOptions())
	assert.ErrorContains(t, err, "no driver registered with name 'missing'")

	assert.Panics(t, func() { r.MustRegister("a", factory) })
}

func TestRegistryOpenWrapsFactoryError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("no chrome binary")
	r.MustRegister("broken", func(context.Context, Options) (Driver, error) { return nil, boom })

	_, err := r.Open(context.Background(), "broken", DefaultOptions())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failed to start driver 'broken'")
}

func TestQueryScript(t *testing.T) {
	script, err := QueryScript(locator.CSS("a.nav-link"))
	require.NoError(t, err)
	assert.Contains(t, script, `const mode = "css", value = "a.nav-link";`)

	script, err = QueryScript(locator.Text(`Bob's "tile"`))
	require.NoError(t, err)
	assert.Contains(t, script, `const mode = "xpath"`)
	assert.Contains(t, script, `concat(`)

	_, err = QueryScript(locator.Locator{})
	assert.Error(t, err)
}

func TestVisibleTexts(t *testing.T) {
	els := []Element{{Text: "Dashboard", Visible: true}, {Text: "Hidden"}, {Text: "Stock", Visible: true}}
	assert.Equal(t, []string{"Dashboard", "Stock"}, VisibleTexts(els))
}
