// Package injector makes a running process load a shared library.
//
// The target is found by executable name, the absolute library path is
// written into its memory and a remote thread is started at the platform
// loader with that path as its argument. By default the injector does not
// wait for the remote thread: success means the thread was created, not
// that the library finished loading.
package injector

import (
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/sirupsen/logrus"

	"github.com/mcoot/TribesLauncher/logflags"
)

// Options tunes an Injector. The zero value matches the fire-and-forget
// behaviour of the package level functions.
type Options struct {
	// Wait, when positive, makes Inject wait up to this long for the remote
	// loader thread and report its outcome. The outcome is approximate on
	// 64-bit targets: the thread exit code keeps only the low 32 bits of the
	// module handle, and a module loaded at a 4 GiB aligned base is reported
	// as a failed load.
	Wait time.Duration
	// VerifyLibrary checks the library file before touching the target.
	VerifyLibrary bool
	Logger        *logrus.Entry
}

// Injector performs lookups and injections against the processes of the
// local machine.
type Injector struct {
	opts      Options
	log       *logrus.Entry
	trace     bool
	backend   backend
	processes func() ([]ps.Process, error)
}

// New returns an Injector using the native backend of the running OS.
func New(opts Options) *Injector {
	log, trace := opts.Logger, true
	if log == nil {
		log, trace = logflags.InjectorLogger(), logflags.Injector()
	}
	return &Injector{
		opts:      opts,
		log:       log,
		trace:     trace,
		backend:   nativeBackend(),
		processes: ps.Processes,
	}
}

// IsProcessRunning reports whether a process named processName is running
// and can be opened.
func IsProcessRunning(processName string) bool {
	return New(Options{}).IsProcessRunning(processName)
}

// Inject makes the first process named processName load libraryFile. The
// file is not required to exist.
func Inject(processName, libraryFile string) bool {
	return New(Options{}).Inject(processName, libraryFile) == nil
}
