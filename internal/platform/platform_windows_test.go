//go:build windows

package platform

import "testing"

// The window watcher runs a discovery pass every few seconds for the
// lifetime of the process. Each pass must reuse the one registered
// enumeration callback; the runtime caps callback registrations per
// process and panics at the limit.
func TestRepeatedDiscoveryReusesCallback(t *testing.T) {
	for i := 0; i < 3000; i++ {
		findWindowForPID(0xFFFFFFF0)
	}
}

func TestFindWindowForUnknownPID(t *testing.T) {
	if h := findWindowForPID(0xFFFFFFF0); h.Valid() {
		t.Fatalf("expected invalid handle for bogus pid, got %#x", uintptr(h))
	}
}
