package injector

import (
	"github.com/mitchellh/go-ps"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// IsProcessRunning reports whether a process named name exists and can be
// opened. The reference used for the check is released before returning.
func (inj *Injector) IsProcessRunning(name string) bool {
	t, err := inj.resolveProcess(name)
	if err != nil {
		return false
	}
	_ = t.Close()
	return true
}

// Resolve returns the PID of the process Inject would target for name.
func (inj *Injector) Resolve(name string) (int, error) {
	p, err := inj.findProcess(name)
	if err != nil {
		return 0, err
	}
	return p.Pid(), nil
}

// findProcess scans the process table in enumeration order and returns the
// first process whose executable name is exactly name. Processes sharing a
// name are not disambiguated.
func (inj *Injector) findProcess(name string) (ps.Process, error) {
	list, err := inj.processes()
	if err != nil {
		return nil, newError(KindLookup, "enumerate processes", 0, errors.Wrap(err, "process snapshot failed"))
	}
	for _, p := range list {
		if executableMatches(p, name) {
			return p, nil
		}
	}
	return nil, newError(KindLookup, "find "+name, 0, ErrNotFound)
}

func (inj *Injector) resolveProcess(name string) (target, error) {
	p, err := inj.findProcess(name)
	if err != nil {
		return nil, err
	}
	t, err := inj.backend.open(p.Pid())
	if err != nil {
		return nil, newError(KindAccess, "open "+name, p.Pid(), err)
	}
	inj.log.WithFields(logrus.Fields{"name": name, "pid": p.Pid()}).Debug("process resolved")
	return t, nil
}
