//go:build !linux

package injector

import "github.com/mitchellh/go-ps"

func executableMatches(p ps.Process, name string) bool {
	return p.Executable() == name
}
