package injector

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Inject makes the first process named name load library. Every failure is
// an *Error; the Process Reference is released on all paths. Memory
// allocated in the target is never freed.
func (inj *Injector) Inject(name, library string) error {
	t, err := inj.resolveProcess(name)
	if err != nil {
		inj.log.WithError(err).Debug("injection failed")
		return err
	}
	defer t.Close()

	err = inj.injectTarget(t, library)
	if err != nil {
		inj.log.WithError(err).Debug("injection failed")
	}
	return err
}

func (inj *Injector) injectTarget(t target, library string) error {
	pid := t.pid()
	log := inj.log.WithField("pid", pid)

	path, err := resolveLibraryPath(library)
	if err != nil {
		return newError(KindPath, "resolve library path", pid, err)
	}
	buf, err := inj.backend.encodePath(path)
	if err != nil {
		return newError(KindPath, "encode library path", pid, err)
	}
	if err := checkEncodedLength(buf, inj.backend.maxPath()); err != nil {
		return newError(KindPath, "encode library path", pid, err)
	}
	if inj.opts.VerifyLibrary {
		if err := inj.backend.verifyLibrary(path); err != nil {
			return newError(KindLibrary, "verify library", pid, err)
		}
	}
	entry, err := inj.backend.loaderEntry()
	if err != nil {
		return newError(KindUnsupported, "resolve loader", pid, err)
	}
	if err := t.compatible(); err != nil {
		return newError(KindArchitecture, "check target", pid, err)
	}

	addr, err := t.alloc(len(buf))
	if err != nil {
		return newError(KindRemoteMemory, "allocate remote memory", pid, err)
	}
	if inj.trace {
		log = log.WithFields(logrus.Fields{"addr": addr, "size": len(buf)})
		log.Debug("path allocated")
	}

	if err := t.write(addr, buf); err != nil {
		return newError(KindRemoteMemory, "write remote memory", pid, err)
	}
	if inj.trace {
		log.WithField("path", path).Debug("path written")
	}

	th, err := t.startLoader(entry, addr)
	if err != nil {
		return newError(KindRemoteExec, "create remote thread", pid, err)
	}
	defer th.Close()
	log.Debug("remote thread started")

	if inj.opts.Wait <= 0 {
		return nil
	}
	code, err := th.wait(inj.opts.Wait)
	switch {
	case errors.Cause(err) == errWaitTimeout:
		return newError(KindTimeout, "wait for remote thread", pid, err)
	case err != nil:
		return newError(KindRemoteExec, "wait for remote thread", pid, err)
	}
	// The exit code is the low 32 bits of the returned module handle, so a
	// module based on a 4 GiB boundary also reads as 0.
	if code == 0 {
		return newError(KindRemoteLoad, "load "+path, pid, nil)
	}
	if inj.trace {
		log.WithField("exitcode", code).Debug("remote loader returned")
	}
	return nil
}
