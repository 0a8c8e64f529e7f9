// Package driver defines the browser-automation interface.
// This file specifically defines the registry system that allows driver backends
// to be registered, discovered, and opened by name.
package driver

import (
	"context"
	"fmt"

	"uicheck/pkg/registry"
)

// Factory opens a new driver session
type Factory func(ctx context.Context, opts Options) (Driver, error)

// Registry manages the registration and lookup of driver factories
type Registry struct {
	*registry.Registry[Factory]
}

// NewRegistry creates a new empty driver registry
func NewRegistry() *Registry {
	return &Registry{Registry: registry.New[Factory]("driver")}
}

// Register adds a new driver factory to the registry
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("driver '%s' has a nil factory", name)
	}
	return r.Registry.Register(name, factory)
}

// MustRegister adds a new driver factory to the registry, panicking if it fails
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Open starts a session with the named driver
func (r *Registry) Open(ctx context.Context, name string, opts Options) (Driver, error) {
	factory, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	drv, err := factory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start driver '%s': %w", name, err)
	}
	return drv, nil
}

// DefaultRegistry is the process-wide registry backends register into
var DefaultRegistry = NewRegistry()

// MustRegister registers a factory with the default registry, panicking if it fails
func MustRegister(name string, factory Factory) {
	DefaultRegistry.MustRegister(name, factory)
}

// Open starts a session with a driver from the default registry
func Open(ctx context.Context, name string, opts Options) (Driver, error) {
	return DefaultRegistry.Open(ctx, name, opts)
}

// Names lists the drivers in the default registry
func Names() []string {
	return DefaultRegistry.Names()
}
