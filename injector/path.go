package injector

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// resolveLibraryPath makes file absolute against the working directory.
func resolveLibraryPath(file string) (string, error) {
	if file == "" {
		return "", errors.New("empty library path")
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %q", file)
	}
	return abs, nil
}

// checkEncodedLength rejects an encoded path, terminator included, that the
// target's loader could not receive whole. limit is in bytes of the encoding.
func checkEncodedLength(buf []byte, limit int) error {
	if len(buf) > limit {
		return errors.Errorf("encoded path is %d bytes, limit is %d", len(buf), limit)
	}
	return nil
}

// encodeNarrow is the path encoding for loaders taking a NUL terminated byte
// string.
func encodeNarrow(path string) ([]byte, error) {
	for i := 0; i < len(path); i++ {
		if path[i] == 0 {
			return nil, errors.Errorf("path %q contains a NUL byte", path)
		}
	}
	buf := make([]byte, len(path)+1)
	copy(buf, path)
	return buf, nil
}
