//go:build windows

package probe

import (
	"strconv"
	"time"
)

// probeCommand builds the ping invocation for a single-attempt probe on
// Windows: -n 1 for a single echo, -w for the reply timeout in
// milliseconds, -a to resolve the responder's hostname.
func probeCommand(address string, timeout time.Duration, resolveName bool) (string, []string) {
	args := []string{"-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds()))}
	if resolveName {
		args = append(args, "-a")
	}
	args = append(args, address)
	return "ping", args
}
