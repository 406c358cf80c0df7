//go:build !windows

package neigh

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	osutils "github.com/projectdiscovery/utils/os"
)

// dumpNeighborTable dumps the neighbor table as text (Linux and macOS)
func dumpNeighborTable(ctx context.Context) (string, error) {
	if osutils.IsLinux() {
		return runDump(ctx, "ip", "neigh", "show")
	} else if osutils.IsOSX() {
		return runDump(ctx, "arp", "-a")
	}
	return "", fmt.Errorf("unsupported OS: %s", runtime.GOOS)
}

func runDump(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return string(output), nil
}
