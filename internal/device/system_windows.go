//go:build windows

package device

import (
	"golang.org/x/sys/windows"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// NewSystem returns the System backed by CreateFileW and DeviceIoControl.
func NewSystem() System {
	return windowsSystem{}
}

type windowsSystem struct{}

func (windowsSystem) Open(path string) (Handle, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFile(
		name,
		types.GenericRead,
		types.FileShareRead|types.FileShareWrite,
		nil,
		types.OpenExisting,
		0,
		0,
	)
	if err != nil {
		return nil, err
	}
	if h == windows.InvalidHandle {
		return nil, windows.GetLastError()
	}
	return &windowsHandle{h: h}, nil
}

type windowsHandle struct {
	h windows.Handle
}

func (w *windowsHandle) IoControl(code uint32, in, out []byte) (uint32, error) {
	var returned uint32
	var inPtr, outPtr *byte
	if len(in) > 0 {
		inPtr = &in[0]
	}
	if len(out) > 0 {
		outPtr = &out[0]
	}
	err := windows.DeviceIoControl(w.h, code, inPtr, uint32(len(in)), outPtr, uint32(len(out)), &returned, nil)
	return returned, err
}

func (w *windowsHandle) Close() error {
	return windows.CloseHandle(w.h)
}
