// Package platform provides the OS-specific backend: synthetic click
// injection, target window lookup, and physical key polling.
package platform

import (
	"io"

	"rapidclick/internal/click"
	"rapidclick/internal/input"
	"rapidclick/internal/window"
)

// Backend bundles the platform services the rest of the application
// consumes through interfaces. Keys and Pressed are nil on platforms
// that cannot poll physical input state; gating degrades to
// always-armed in that case.
type Backend struct {
	Executor click.Executor
	Finder   window.Finder
	Keys     input.KeyState
	Pressed  click.PressedFunc
}

// New returns the backend for the current platform, targeting the
// given process or window name for discovery.
func New(target string) (*Backend, error) {
	return newBackend(target)
}

// Close releases platform resources held by the backend, such as the
// Linux uinput device node. Call it once on process teardown.
func (b *Backend) Close() error {
	if c, ok := b.Executor.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
