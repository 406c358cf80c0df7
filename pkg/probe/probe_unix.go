//go:build !windows

package probe

import (
	"strconv"
	"time"

	osutils "github.com/projectdiscovery/utils/os"
)

// probeCommand builds the ping invocation for a single-attempt probe
// (Linux and macOS).
func probeCommand(address string, timeout time.Duration, resolveName bool) (string, []string) {
	args := []string{"-c", "1"}

	if osutils.IsOSX() {
		// macOS ping takes the reply timeout in milliseconds
		args = append(args, "-W", strconv.Itoa(int(timeout.Milliseconds())))
	} else {
		// iputils ping takes seconds; round sub-second timeouts up, the
		// caller enforces the real deadline through the context
		secs := int(timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		args = append(args, "-W", strconv.Itoa(secs))
	}

	// numeric output unless the caller asked for reverse-name resolution
	if !resolveName {
		args = append(args, "-n")
	}

	args = append(args, address)
	return "ping", args
}
