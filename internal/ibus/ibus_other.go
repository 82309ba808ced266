//go:build !linux

// Package ibus exposes the engine as an IBus input-method frontend over
// D-Bus. IBus only exists on Linux desktops; other platforms get a stub.
package ibus

import (
	"context"
	"errors"

	"smartinput/internal/engine"
	"smartinput/internal/logging"
	"smartinput/internal/ui"
)

// ErrUnsupported is returned on platforms without IBus.
var ErrUnsupported = errors.New("ibus frontend is only supported on linux")

// Frontend is a no-op stand-in on non-Linux platforms.
type Frontend struct{}

// New creates a stub frontend.
func New(log *logging.Logger) *Frontend {
	return &Frontend{}
}

// SetEngine is a no-op on platforms without IBus.
func (f *Frontend) SetEngine(eng *engine.Engine) {}

// Start reports that IBus is unavailable.
func (f *Frontend) Start(ctx context.Context) error { return ErrUnsupported }

// Stop is a no-op.
func (f *Frontend) Stop() error { return nil }

// Push implements ui.Sink as a no-op.
func (f *Frontend) Push(st ui.State) {}

// Commit implements engine.OutputSink as a no-op.
func (f *Frontend) Commit(text string) {}
