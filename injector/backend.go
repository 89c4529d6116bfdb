package injector

import (
	"time"

	"github.com/pkg/errors"
)

// errWaitTimeout is returned by remoteThread.wait when the thread is still
// running at the deadline.
var errWaitTimeout = errors.New("wait timed out")

// backend is the platform half of an injection. Making another process load
// a library has no portable primitive, so each OS provides its own.
type backend interface {
	open(pid int) (target, error)
	// loaderEntry returns the address of the loader function, valid inside
	// the target because the loader module is mapped at the same address in
	// every process of the same OS build.
	loaderEntry() (uintptr, error)
	encodePath(path string) ([]byte, error)
	// maxPath is the longest encoded path in bytes, terminator included.
	maxPath() int
	verifyLibrary(path string) error
}

// target is an open Process Reference.
type target interface {
	pid() int
	compatible() error
	alloc(size int) (uintptr, error)
	write(addr uintptr, data []byte) error
	startLoader(entry, arg uintptr) (remoteThread, error)
	Close() error
}

type remoteThread interface {
	// wait blocks until the thread exits or timeout elapses and returns the
	// thread's exit code.
	wait(timeout time.Duration) (uint32, error)
	Close() error
}
