package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var goos = func() string { return runtime.GOOS }

// OpenBrowser launches the system default browser at url. Callers treat a
// failure as non-fatal and print the URL for manual opening.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch rt := goos(); rt {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := exec.Command(name, append(args, url)...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
