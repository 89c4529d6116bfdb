//go:build unix && !linux

package injector

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var errNoLoaderTrick = errors.New("no fixed-address loader on this platform")

type unixBackend struct{}

func nativeBackend() backend { return unixBackend{} }

// open only probes that pid is alive and signalable; there is no handle to
// hold on these systems.
func (unixBackend) open(pid int) (target, error) {
	if err := unix.Kill(pid, 0); err != nil {
		return nil, errors.Wrap(err, "probe process")
	}
	return unixTarget(pid), nil
}

func (unixBackend) loaderEntry() (uintptr, error) { return 0, errNoLoaderTrick }

func (unixBackend) encodePath(path string) ([]byte, error) { return encodeNarrow(path) }

func (unixBackend) maxPath() int { return 1024 }

func (unixBackend) verifyLibrary(path string) error { return libraryExists(path) }

type unixTarget int

func (t unixTarget) pid() int          { return int(t) }
func (t unixTarget) compatible() error { return nil }

func (t unixTarget) alloc(int) (uintptr, error) { return 0, errNoLoaderTrick }

func (t unixTarget) write(uintptr, []byte) error { return errNoLoaderTrick }

func (t unixTarget) startLoader(uintptr, uintptr) (remoteThread, error) {
	return nil, errNoLoaderTrick
}

func (t unixTarget) Close() error { return nil }
