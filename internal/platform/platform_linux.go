//go:build linux

package platform

import (
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"rapidclick/internal/click"
	"rapidclick/internal/platform/linux"
	"rapidclick/internal/window"
)

// newBackend builds the Linux backend: a uinput virtual mouse for
// click injection and xdotool for window lookup. Physical key polling
// has no portable kernel interface from an unprivileged process, so
// Keys and Pressed stay nil and gating runs always-armed.
func newBackend(target string) (*Backend, error) {
	executor, err := linux.NewUinputExecutor()
	if err != nil {
		return nil, fmt.Errorf("uinput executor: %w", err)
	}

	return &Backend{
		Executor: executor,
		Finder:   &xdotoolFinder{name: target},
	}, nil
}

// xdotoolFinder resolves the target window id via xdotool. It runs on
// the watcher goroutine, off the click hot path.
type xdotoolFinder struct {
	name   string
	warned bool
}

func (f *xdotoolFinder) FindWindow() (click.Handle, error) {
	out, err := exec.Command("xdotool", "search", "--onlyvisible", "--name", f.name).Output()
	if err != nil {
		if !f.warned {
			log.Printf("platform: xdotool search failed: %v", err)
			f.warned = true
		}
		return 0, err
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		id, err := strconv.ParseUint(strings.TrimSpace(line), 10, 64)
		if err != nil {
			continue
		}
		return click.Handle(uintptr(id)), nil
	}
	return 0, fmt.Errorf("no window matching %q", f.name)
}

var _ window.Finder = (*xdotoolFinder)(nil)
