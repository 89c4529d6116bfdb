package injector

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/mcoot/TribesLauncher/injector/win32"
)

type windowsBackend struct{}

func nativeBackend() backend { return windowsBackend{} }

func (windowsBackend) open(pid int) (target, error) {
	h, err := win32.OpenProcess(win32.PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return nil, err
	}
	return &windowsTarget{handle: h, id: pid}, nil
}

func (windowsBackend) loaderEntry() (uintptr, error) {
	return win32.LoadLibraryWAddr()
}

// encodePath produces the NUL terminated UTF-16 string LoadLibraryW expects.
func (windowsBackend) encodePath(path string) ([]byte, error) {
	u, err := windows.UTF16FromString(path)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %q", path)
	}
	buf := make([]byte, 2*len(u))
	for i, c := range u {
		buf[2*i] = byte(c)
		buf[2*i+1] = byte(c >> 8)
	}
	return buf, nil
}

// maxPath is MAX_PATH UTF-16 units.
func (windowsBackend) maxPath() int { return 2 * windows.MAX_PATH }

func (windowsBackend) verifyLibrary(path string) error {
	return verifyPE(path)
}

type windowsTarget struct {
	handle windows.Handle
	id     int
}

func (t *windowsTarget) pid() int { return t.id }

func (t *windowsTarget) compatible() error {
	self, err := win32.IsWow64(windows.CurrentProcess())
	if err != nil {
		return err
	}
	other, err := win32.IsWow64(t.handle)
	if err != nil {
		return err
	}
	if self != other {
		return errors.Errorf("target wow64=%v, injector wow64=%v", other, self)
	}
	return nil
}

func (t *windowsTarget) alloc(size int) (uintptr, error) {
	return win32.VirtualAllocEx(t.handle, size, windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
}

func (t *windowsTarget) write(addr uintptr, data []byte) error {
	return win32.WriteProcessMemory(t.handle, addr, data)
}

func (t *windowsTarget) startLoader(entry, arg uintptr) (remoteThread, error) {
	h, _, err := win32.CreateRemoteThread(t.handle, entry, arg)
	if err != nil {
		return nil, err
	}
	return windowsThread(h), nil
}

func (t *windowsTarget) Close() error {
	return windows.CloseHandle(t.handle)
}

type windowsThread windows.Handle

func (th windowsThread) wait(timeout time.Duration) (uint32, error) {
	code, err := win32.WaitThread(windows.Handle(th), timeout)
	if errors.Cause(err) == win32.ErrWaitTimeout {
		return 0, errWaitTimeout
	}
	return code, err
}

func (th windowsThread) Close() error {
	return windows.CloseHandle(windows.Handle(th))
}
