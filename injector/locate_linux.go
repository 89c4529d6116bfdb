package injector

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
	"golang.org/x/sys/unix"
)

// commLen is the longest name the kernel keeps in /proc/<pid>/stat
// (TASK_COMM_LEN less the terminator).
const commLen = 15

func executableMatches(p ps.Process, name string) bool {
	return commMatches(p.Executable(), name, func() []string { return fullNames(p.Pid()) })
}

// commMatches compares the kernel's short name comm against name. A comm of
// commLen bytes may be truncated, so a match on it is confirmed against the
// full names of the process.
func commMatches(comm, name string, full func() []string) bool {
	if len(comm) < commLen {
		return comm == name
	}
	if !strings.HasPrefix(name, comm) {
		return false
	}
	for _, n := range full() {
		if n == name {
			return true
		}
	}
	return false
}

// fullNames returns the base names of the process image and of argv[0].
// Either may be unreadable for processes of other users.
func fullNames(pid int) []string {
	var names []string
	proc := "/proc/" + strconv.Itoa(pid)
	buf := make([]byte, unix.PathMax)
	if n, err := unix.Readlink(proc+"/exe", buf); err == nil {
		exe := strings.TrimSuffix(string(buf[:n]), " (deleted)")
		names = append(names, filepath.Base(exe))
	}
	if cmdline, err := os.ReadFile(proc + "/cmdline"); err == nil && len(cmdline) > 0 {
		if i := bytes.IndexByte(cmdline, 0); i >= 0 {
			cmdline = cmdline[:i]
		}
		names = append(names, filepath.Base(string(cmdline)))
	}
	return names
}
