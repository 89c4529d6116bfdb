package injector

import (
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func processList(procs ...fakeProcess) func() ([]ps.Process, error) {
	return func() ([]ps.Process, error) {
		list := make([]ps.Process, len(procs))
		for i, p := range procs {
			list[i] = p
		}
		return list, nil
	}
}

// fakeBackend records every call made against it and the targets it opened.
type fakeBackend struct {
	calls []string

	openErr    error
	entryErr   error
	verifyErr  error
	compatErr  error
	allocErr   error
	writeErr   error
	startErr   error
	waitErr    error
	exitCode   uint32
	maxPathLen int

	opened  int
	closed  int
	threads int
	written []byte
	waited  time.Duration
}

func (b *fakeBackend) record(call string) { b.calls = append(b.calls, call) }

func (b *fakeBackend) open(pid int) (target, error) {
	b.record("open")
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.opened++
	return &fakeTarget{b: b, id: pid}, nil
}

func (b *fakeBackend) loaderEntry() (uintptr, error) {
	b.record("entry")
	return 0x7ff0, b.entryErr
}

func (b *fakeBackend) encodePath(path string) ([]byte, error) { return encodeNarrow(path) }

func (b *fakeBackend) maxPath() int {
	if b.maxPathLen == 0 {
		return 4096
	}
	return b.maxPathLen
}

func (b *fakeBackend) verifyLibrary(string) error {
	b.record("verify")
	return b.verifyErr
}

type fakeTarget struct {
	b  *fakeBackend
	id int
}

func (t *fakeTarget) pid() int { return t.id }

func (t *fakeTarget) compatible() error {
	t.b.record("compatible")
	return t.b.compatErr
}

func (t *fakeTarget) alloc(size int) (uintptr, error) {
	t.b.record("alloc")
	if t.b.allocErr != nil {
		return 0, t.b.allocErr
	}
	return 0x1000, nil
}

func (t *fakeTarget) write(addr uintptr, data []byte) error {
	t.b.record("write")
	if t.b.writeErr != nil {
		return t.b.writeErr
	}
	t.b.written = append([]byte(nil), data...)
	return nil
}

func (t *fakeTarget) startLoader(entry, arg uintptr) (remoteThread, error) {
	t.b.record("start")
	if t.b.startErr != nil {
		return nil, t.b.startErr
	}
	if entry != 0x7ff0 || arg != 0x1000 {
		return nil, errors.Errorf("unexpected start routine %#x(%#x)", entry, arg)
	}
	t.b.threads++
	return &fakeThread{b: t.b}, nil
}

func (t *fakeTarget) Close() error {
	t.b.record("close")
	t.b.closed++
	return nil
}

type fakeThread struct{ b *fakeBackend }

func (th *fakeThread) wait(timeout time.Duration) (uint32, error) {
	th.b.record("wait")
	th.b.waited = timeout
	return th.b.exitCode, th.b.waitErr
}

func (th *fakeThread) Close() error {
	th.b.threads--
	return nil
}

func newFakeInjector(b *fakeBackend, opts Options, procs ...fakeProcess) *Injector {
	log := logrus.New()
	log.Level = logrus.PanicLevel
	opts.Logger = logrus.NewEntry(log)
	inj := New(opts)
	inj.backend = b
	inj.processes = processList(procs...)
	return inj
}
