package ash

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	errCmdNotFound   = errors.New("command not found")
	errNotExecutable = errors.New("permission denied")
)

// resolvePath locates the program for a command word: verbatim if the
// word contains a '/', otherwise the first executable match across the
// colon-split PATH (defaulting to /usr/bin:/bin when unset). A match
// that exists but is not executable yields errNotExecutable so the
// caller can exit 126 instead of 127.
func resolvePath(name string) (string, error) {
	if strings.Contains(name, "/") {
		return name, checkExecutable(name)
	}
	path := os.Getenv("PATH")
	if path == "" {
		path = "/usr/bin:/bin"
	}
	var firstErr error
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		switch err := checkExecutable(candidate); {
		case err == nil:
			return candidate, nil
		case errors.Is(err, errNotExecutable) && firstErr == nil:
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", errCmdNotFound
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return errCmdNotFound
	}
	if info.Mode()&0111 == 0 {
		return errNotExecutable
	}
	return nil
}
