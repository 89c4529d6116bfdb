package injector

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	peparser "github.com/saferwall/pe"
)

// libraryExists fails unless path names a regular file.
func libraryExists(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "library file")
	}
	if !fi.Mode().IsRegular() {
		return errors.Errorf("%s is not a regular file", path)
	}
	return nil
}

var peMachines = map[string]uint16{
	"386":   uint16(peparser.ImageFileMachineI386),
	"amd64": uint16(peparser.ImageFileMachineAMD64),
	"arm64": uint16(peparser.ImageFileMachineARM64),
}

// verifyPE checks that path is a PE DLL built for the architecture of this
// process, which is what LoadLibraryW in a same-architecture target will
// accept.
func verifyPE(path string) error {
	return verifyPEFor(path, runtime.GOARCH)
}

func verifyPEFor(path, goarch string) error {
	if err := libraryExists(path); err != nil {
		return err
	}
	f, err := peparser.New(path, &peparser.Options{Fast: true})
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if err := f.Parse(); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	hdr := f.NtHeader.FileHeader
	if uint16(hdr.Characteristics)&uint16(peparser.ImageFileDLL) == 0 {
		return errors.Errorf("%s is not a DLL", path)
	}
	want, ok := peMachines[goarch]
	if !ok {
		return errors.Errorf("no PE machine type for GOARCH %s", goarch)
	}
	if uint16(hdr.Machine) != want {
		return errors.Errorf("%s has machine type %#x, want %#x", path, uint16(hdr.Machine), want)
	}
	return nil
}
