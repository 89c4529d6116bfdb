package injector

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// errNoLoaderTrick is returned where the loader is not mapped at a shared
// address; a remote dlopen needs a ptrace based primitive instead.
var errNoLoaderTrick = errors.New("no fixed-address loader on this platform")

type linuxBackend struct{}

func nativeBackend() backend { return linuxBackend{} }

// open takes a pidfd, which pins the process identity until closed. Kernels
// or sandboxes without pidfd_open fall back to a signal probe and no fd.
func (linuxBackend) open(pid int) (target, error) {
	fd, err := unix.PidfdOpen(pid, 0)
	switch {
	case err == unix.ENOSYS || err == unix.EPERM:
		if err := unix.Kill(pid, 0); err != nil {
			return nil, errors.Wrap(err, "probe process")
		}
		return &linuxTarget{fd: -1, id: pid}, nil
	case err != nil:
		return nil, errors.Wrap(err, "pidfd_open")
	}
	return &linuxTarget{fd: fd, id: pid}, nil
}

func (linuxBackend) loaderEntry() (uintptr, error) { return 0, errNoLoaderTrick }

func (linuxBackend) encodePath(path string) ([]byte, error) { return encodeNarrow(path) }

func (linuxBackend) maxPath() int { return unix.PathMax }

func (linuxBackend) verifyLibrary(path string) error { return libraryExists(path) }

type linuxTarget struct {
	fd int
	id int
}

func (t *linuxTarget) pid() int          { return t.id }
func (t *linuxTarget) compatible() error { return nil }

func (t *linuxTarget) alloc(int) (uintptr, error) { return 0, errNoLoaderTrick }

func (t *linuxTarget) write(uintptr, []byte) error { return errNoLoaderTrick }

func (t *linuxTarget) startLoader(uintptr, uintptr) (remoteThread, error) {
	return nil, errNoLoaderTrick
}

func (t *linuxTarget) Close() error {
	if t.fd < 0 {
		return nil
	}
	return unix.Close(t.fd)
}
