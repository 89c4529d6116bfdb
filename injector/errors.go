package injector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an injection or lookup failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindLookup
	KindAccess
	KindPath
	KindLibrary
	KindArchitecture
	KindRemoteMemory
	KindRemoteExec
	KindTimeout
	KindRemoteLoad
	KindUnsupported
)

var kindText = map[Kind]string{
	KindUnknown:      "an unknown error occurred",
	KindLookup:       "process is not running",
	KindAccess:       "injection requires administrator privileges",
	KindPath:         "library path could not be resolved",
	KindLibrary:      "could not find a loadable library file",
	KindArchitecture: "target process architecture differs from the injector",
	KindRemoteMemory: "remote memory allocation or write failed",
	KindRemoteExec:   "remote thread creation failed",
	KindTimeout:      "timed out waiting for the remote loader",
	KindRemoteLoad:   "remote loader failed to load the library",
	KindUnsupported:  "injection is not supported on this platform",
}

func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrNotFound is returned when no running process has the requested name.
var ErrNotFound = errors.New("process not found")

// Error is the failure of one step of a lookup or injection.
type Error struct {
	Kind Kind
	Op   string
	Pid  int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Pid != 0 {
		msg = fmt.Sprintf("%s (pid %d)", msg, e.Pid)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": " + e.Kind.String()
}

func (e *Error) Cause() error  { return e.Err }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, pid int, err error) *Error {
	return &Error{Kind: kind, Op: op, Pid: pid, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}
