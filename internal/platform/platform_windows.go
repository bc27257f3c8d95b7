//go:build windows

package platform

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"rapidclick/internal/click"
	"rapidclick/internal/precision"
	"rapidclick/internal/timing"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procGetAsyncKeyState         = user32.NewProc("GetAsyncKeyState")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsWindow                 = user32.NewProc("IsWindow")
)

// Window message and key constants.
const (
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205

	mkLButton = 0x0001
	mkRButton = 0x0002

	vkLButton = 0x01
	vkRButton = 0x02
)

func newBackend(target string) (*Backend, error) {
	keys := &asyncKeyState{}
	return &Backend{
		Executor: &postMessageExecutor{},
		Finder:   &processWindowFinder{process: target},
		Keys:     keys,
		Pressed: func(ch timing.Channel) bool {
			if ch == timing.Right {
				return keys.Pressed(vkRButton)
			}
			return keys.Pressed(vkLButton)
		},
	}, nil
}

// postMessageExecutor posts button messages straight to the target
// window, so clicks land without moving the cursor or stealing focus.
type postMessageExecutor struct{}

func (e *postMessageExecutor) Click(h click.Handle, ch timing.Channel, hold time.Duration) error {
	if !h.Valid() {
		return fmt.Errorf("invalid window handle")
	}
	if ok, _, _ := procIsWindow.Call(uintptr(h)); ok == 0 {
		return fmt.Errorf("stale window handle")
	}

	downMsg, upMsg, flags := uintptr(wmLButtonDown), uintptr(wmLButtonUp), uintptr(mkLButton)
	if ch == timing.Right {
		downMsg, upMsg, flags = wmRButtonDown, wmRButtonUp, mkRButton
	}

	if ok, _, err := procPostMessageW.Call(uintptr(h), downMsg, flags, 0); ok == 0 {
		return fmt.Errorf("post button down: %w", err)
	}
	precision.Sleep(hold)
	if ok, _, err := procPostMessageW.Call(uintptr(h), upMsg, 0, 0); ok == 0 {
		return fmt.Errorf("post button up: %w", err)
	}
	return nil
}

// asyncKeyState polls physical key state through GetAsyncKeyState.
type asyncKeyState struct{}

func (k *asyncKeyState) Pressed(code int) bool {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(code))
	// High bit set means the key is currently down.
	return int16(state)&^0x7FFF != 0
}

// processWindowFinder locates a visible top-level window owned by the
// named process. The pid is cached between passes; a vanished process
// drops the cache and triggers a fresh snapshot walk.
type processWindowFinder struct {
	process   string
	cachedPID uint32
}

func (f *processWindowFinder) FindWindow() (click.Handle, error) {
	if f.cachedPID != 0 {
		if h := findWindowForPID(f.cachedPID); h.Valid() {
			return h, nil
		}
		f.cachedPID = 0
	}

	pid, err := findProcessByName(f.process)
	if err != nil {
		return 0, err
	}
	if pid == 0 {
		return 0, fmt.Errorf("process %q not running", f.process)
	}

	f.cachedPID = pid
	if h := findWindowForPID(pid); h.Valid() {
		return h, nil
	}
	return 0, fmt.Errorf("process %q has no visible window", f.process)
}

func findProcessByName(name string) (uint32, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return 0, err
	}
	for {
		exe := windows.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(exe, name) {
			return entry.ProcessID, nil
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			return 0, nil
		}
	}
}

// enumWindowsQuery carries the pid in and the matched window out of
// one EnumWindows pass, through the lParam pointer.
type enumWindowsQuery struct {
	pid   uint32
	found uintptr
}

// enumWindowsCallback is created once at init: the runtime never
// releases syscall callbacks and panics after a fixed number of them,
// so a per-call closure would crash any long-running session.
var enumWindowsCallback = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
	q := (*enumWindowsQuery)(unsafe.Pointer(lparam))

	var owner uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&owner)))
	if owner != q.pid {
		return 1 // keep enumerating
	}
	if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
		return 1
	}
	q.found = hwnd
	return 0 // stop
})

func findWindowForPID(pid uint32) click.Handle {
	q := enumWindowsQuery{pid: pid}
	procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(&q)))
	return click.Handle(q.found)
}
