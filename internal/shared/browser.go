package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand builds the command that opens link in the default browser.
func browserCommand(link string) (*exec.Cmd, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: not a web link: %q", ErrInvalidArgument, link)
	}

	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.Command("open", link), nil
	case "linux":
		return exec.Command("xdg-open", link), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// OpenLink opens a job listing in the default system browser.
//
// Only http and https links are opened.
func OpenLink(link string) error {
	cmd, err := browserCommand(link)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
