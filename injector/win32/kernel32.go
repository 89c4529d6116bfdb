//go:build windows

// Package win32 wraps the kernel32 calls used to write into and start
// threads inside other processes.
package win32

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	PROCESS_ALL_ACCESS = 0x1F0FFF

	waitTimeout = 0x102
	waitFailed  = 0xFFFFFFFF
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procVirtualAllocEx        = kernel32.NewProc("VirtualAllocEx")
	procWriteProcessMemory    = kernel32.NewProc("WriteProcessMemory")
	procCreateRemoteThread    = kernel32.NewProc("CreateRemoteThread")
	procGetExitCodeThread     = kernel32.NewProc("GetExitCodeThread")
	procGetProcessHandleCount = kernel32.NewProc("GetProcessHandleCount")
	procLoadLibraryW          = kernel32.NewProc("LoadLibraryW")
)

// ErrWaitTimeout is returned by WaitThread when the thread is still running.
var ErrWaitTimeout = errors.New("wait timed out")

func OpenProcess(desiredAccess uint32, inheritHandle bool, processId uint32) (windows.Handle, error) {
	h, err := windows.OpenProcess(desiredAccess, inheritHandle, processId)
	if err != nil {
		return 0, errors.Wrap(err, "OpenProcess")
	}
	return h, nil
}

// LoadLibraryWAddr returns the address of LoadLibraryW in this process.
// kernel32 is mapped at the same base in every process of a boot session,
// so the address is also valid in a same-architecture target.
func LoadLibraryWAddr() (uintptr, error) {
	if err := procLoadLibraryW.Find(); err != nil {
		return 0, errors.Wrap(err, "LoadLibraryW not found")
	}
	return procLoadLibraryW.Addr(), nil
}

func VirtualAllocEx(hProcess windows.Handle, size int, allocationType, protect uint32) (uintptr, error) {
	ret, _, err := procVirtualAllocEx.Call(
		uintptr(hProcess),
		0,
		uintptr(size),
		uintptr(allocationType),
		uintptr(protect),
	)
	if ret == 0 {
		return 0, errors.Wrap(err, "VirtualAllocEx")
	}
	return ret, nil
}

// WriteProcessMemory writes all of data at addr, failing on a short write.
func WriteProcessMemory(hProcess windows.Handle, addr uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var written uintptr
	ret, _, err := procWriteProcessMemory.Call(
		uintptr(hProcess),
		addr,
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
		uintptr(unsafe.Pointer(&written)),
	)
	if ret == 0 {
		return errors.Wrap(err, "WriteProcessMemory")
	}
	if int(written) != len(data) {
		return errors.Errorf("WriteProcessMemory: wrote %d of %d bytes", written, len(data))
	}
	return nil
}

func CreateRemoteThread(hProcess windows.Handle, startAddress, parameter uintptr) (windows.Handle, uint32, error) {
	var threadId uint32
	ret, _, err := procCreateRemoteThread.Call(
		uintptr(hProcess),
		0,
		0,
		startAddress,
		parameter,
		0,
		uintptr(unsafe.Pointer(&threadId)),
	)
	if ret == 0 {
		return 0, 0, errors.Wrap(err, "CreateRemoteThread")
	}
	return windows.Handle(ret), threadId, nil
}

// waitMillis converts timeout to a finite WaitForSingleObject interval,
// rounding up to whole milliseconds.
func waitMillis(timeout time.Duration) uint32 {
	if timeout <= 0 {
		return 0
	}
	ms := (timeout + time.Millisecond - 1) / time.Millisecond
	if ms >= windows.INFINITE {
		return windows.INFINITE - 1
	}
	return uint32(ms)
}

// WaitThread waits up to timeout for hThread to exit and returns its exit
// code.
func WaitThread(hThread windows.Handle, timeout time.Duration) (uint32, error) {
	event, err := windows.WaitForSingleObject(hThread, waitMillis(timeout))
	switch {
	case event == waitTimeout:
		return 0, ErrWaitTimeout
	case event == waitFailed:
		return 0, errors.Wrap(err, "WaitForSingleObject")
	}
	var code uint32
	ret, _, err := procGetExitCodeThread.Call(uintptr(hThread), uintptr(unsafe.Pointer(&code)))
	if ret == 0 {
		return 0, errors.Wrap(err, "GetExitCodeThread")
	}
	return code, nil
}

// IsWow64 reports whether hProcess runs under the 32-bit emulation layer.
func IsWow64(hProcess windows.Handle) (bool, error) {
	var wow64 bool
	if err := windows.IsWow64Process(hProcess, &wow64); err != nil {
		return false, errors.Wrap(err, "IsWow64Process")
	}
	return wow64, nil
}

// GetProcessHandleCount returns the number of handles open in hProcess.
func GetProcessHandleCount(hProcess windows.Handle) (uint32, error) {
	var n uint32
	ret, _, err := procGetProcessHandleCount.Call(uintptr(hProcess), uintptr(unsafe.Pointer(&n)))
	if ret == 0 {
		return 0, errors.Wrap(err, "GetProcessHandleCount")
	}
	return n, nil
}
