//go:build windows

package neigh

import (
	"context"
	"fmt"
	"os/exec"
)

// dumpNeighborTable dumps the ARP cache as text using 'arp -a' on Windows
func dumpNeighborTable(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "arp", "-a")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to execute arp -a: %w", err)
	}
	return string(output), nil
}
