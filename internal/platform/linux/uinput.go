//go:build linux

// Package linux implements click injection through the uinput kernel
// interface.
package linux

import (
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"rapidclick/internal/click"
	"rapidclick/internal/precision"
	"rapidclick/internal/timing"
)

// uinput constants.
const (
	uinputDevicePath = "/dev/uinput"
	uinputBusTypeUSB = 0x03
	uinputVendorID   = 0x1234
	uinputProductID  = 0x5679
	uinputDeviceName = "rapidclick-mouse"

	// Linux input event types and codes
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0x00
	btnLeft   = 0x110
	btnRight  = 0x111

	// uinput ioctl commands
	uiSetEvbit   = 0x40045564 // _IOW('U', 100, int)
	uiSetKeybit  = 0x40045565 // _IOW('U', 101, int)
	uiDevCreate  = 0x5501     // _IO('U', 1)
	uiDevDestroy = 0x5502     // _IO('U', 2)
)

type uinputUserDev struct {
	name [80]byte
	id   struct {
		bustype uint16
		vendor  uint16
		product uint16
		version uint16
	}
	ffEffectsMax uint32
	absmax       [64]int32
	absmin       [64]int32
	absfuzz      [64]int32
	absflat      [64]int32
}

type inputEvent struct {
	time  unix.Timeval
	etype uint16
	code  uint16
	value int32
}

// UinputExecutor injects button events through a virtual uinput mouse.
// The kernel routes the events to whichever window has focus, so the
// window handle only gates whether the target is present.
type UinputExecutor struct {
	mu   sync.Mutex
	fd   int
	file *os.File
}

// NewUinputExecutor opens /dev/uinput and registers a virtual device
// exposing the two button codes.
func NewUinputExecutor() (*UinputExecutor, error) {
	f, err := os.OpenFile(uinputDevicePath, os.O_WRONLY|unix.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("open uinput device: %w", err)
	}

	u := &UinputExecutor{fd: int(f.Fd()), file: f}

	if err := u.enableButtons(); err != nil {
		u.Close()
		return nil, fmt.Errorf("enable button events: %w", err)
	}
	if err := u.createDevice(); err != nil {
		u.Close()
		return nil, fmt.Errorf("create uinput device: %w", err)
	}

	return u, nil
}

func (u *UinputExecutor) enableButtons() error {
	if err := unix.IoctlSetInt(u.fd, uiSetEvbit, evKey); err != nil {
		return err
	}
	if err := unix.IoctlSetInt(u.fd, uiSetKeybit, btnLeft); err != nil {
		return err
	}
	return unix.IoctlSetInt(u.fd, uiSetKeybit, btnRight)
}

func (u *UinputExecutor) createDevice() error {
	var dev uinputUserDev
	copy(dev.name[:], uinputDeviceName)
	dev.id.bustype = uinputBusTypeUSB
	dev.id.vendor = uinputVendorID
	dev.id.product = uinputProductID

	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	if _, err := unix.Write(u.fd, buf); err != nil {
		return err
	}
	return unix.IoctlSetInt(u.fd, uiDevCreate, 0)
}

func buttonCode(ch timing.Channel) uint16 {
	if ch == timing.Right {
		return btnRight
	}
	return btnLeft
}

// Click presses the channel's button, holds it for the given duration,
// and releases it.
func (u *UinputExecutor) Click(h click.Handle, ch timing.Channel, hold time.Duration) error {
	if !h.Valid() {
		return fmt.Errorf("invalid window handle")
	}

	code := buttonCode(ch)

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.emit(code, 1); err != nil {
		return fmt.Errorf("button down: %w", err)
	}
	precision.Sleep(hold)
	if err := u.emit(code, 0); err != nil {
		return fmt.Errorf("button up: %w", err)
	}
	return nil
}

// emit writes one key event followed by a sync report.
func (u *UinputExecutor) emit(code uint16, value int32) error {
	events := []inputEvent{
		{etype: evKey, code: code, value: value},
		{etype: evSyn, code: synReport, value: 0},
	}
	for i := range events {
		buf := (*[unsafe.Sizeof(events[i])]byte)(unsafe.Pointer(&events[i]))[:]
		if _, err := unix.Write(u.fd, buf); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys the virtual device and releases the file descriptor.
func (u *UinputExecutor) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.fd > 0 {
		_ = unix.IoctlSetInt(u.fd, uiDevDestroy, 0)
	}
	if u.file != nil {
		u.file.Close()
		u.file = nil
	}
	u.fd = 0
}
