//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

func newBackend(string) (*Backend, error) {
	return nil, fmt.Errorf("no input backend for %s", runtime.GOOS)
}
